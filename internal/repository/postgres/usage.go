package postgres

import (
	"context"
	"database/sql"

	domainUsage "github.com/docutask/docutask/internal/domain/usage"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
	"github.com/docutask/docutask/internal/types"
)

type usageRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewUsageRepository creates the postgres-backed quota ledger. Increments use
// a single INSERT ... ON CONFLICT DO UPDATE statement so concurrent requests
// for the same (user, period) never lose updates.
func NewUsageRepository(client postgres.IClient, logger *logger.Logger) domainUsage.Repository {
	return &usageRepository{client: client, logger: logger}
}

const usageColumns = `
	id, user_id, organization_id, period_key,
	tasks_used, custom_templates, storage_used_bytes,
	documents_uploaded, documents_downloaded,
	input_tokens, output_tokens, cost,
	status, created_at, updated_at, created_by, updated_by
`

func (r *usageRepository) Get(ctx context.Context, userID string, periodKey types.PeriodKey) (*domainUsage.PeriodRecord, error) {
	query := `SELECT ` + usageColumns + ` FROM usage_periods
		WHERE user_id = $1 AND period_key = $2`
	row := r.client.Querier(ctx).QueryRowContext(ctx, query, userID, periodKey)

	var rec domainUsage.PeriodRecord
	var organizationID sql.NullString
	err := row.Scan(
		&rec.ID, &rec.UserID, &organizationID, &rec.PeriodKey,
		&rec.TasksUsed, &rec.CustomTemplates, &rec.StorageUsedBytes,
		&rec.DocumentsUploaded, &rec.DocumentsDownloaded,
		&rec.InputTokens, &rec.OutputTokens, &rec.Cost,
		&rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &rec.CreatedBy, &rec.UpdatedBy,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("usage period not found").
			WithReportableDetails(map[string]interface{}{
				"user_id":    userID,
				"period_key": periodKey,
			}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get usage period").
			Mark(ierr.ErrDatabase)
	}

	rec.OrganizationID = organizationID.String
	return &rec, nil
}

func (r *usageRepository) AddUsage(ctx context.Context, userID string, periodKey types.PeriodKey, organizationID string, deltas ...domainUsage.Delta) error {
	if len(deltas) == 0 {
		return nil
	}
	if err := periodKey.Validate(); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid usage period").
			Mark(ierr.ErrValidation)
	}

	// Fold the deltas into one seed row; the upsert adds every column so a
	// single statement covers both the create and increment paths atomically.
	seed := &domainUsage.PeriodRecord{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USAGE_PERIOD),
		UserID:         userID,
		OrganizationID: organizationID,
		PeriodKey:      periodKey,
		BaseModel:      types.GetDefaultBaseModel(userID),
	}
	for _, d := range deltas {
		domainUsage.Apply(seed, d)
	}

	query := `
		INSERT INTO usage_periods (` + usageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (user_id, period_key) DO UPDATE SET
			tasks_used           = usage_periods.tasks_used + EXCLUDED.tasks_used,
			custom_templates     = usage_periods.custom_templates + EXCLUDED.custom_templates,
			storage_used_bytes   = usage_periods.storage_used_bytes + EXCLUDED.storage_used_bytes,
			documents_uploaded   = usage_periods.documents_uploaded + EXCLUDED.documents_uploaded,
			documents_downloaded = usage_periods.documents_downloaded + EXCLUDED.documents_downloaded,
			input_tokens         = usage_periods.input_tokens + EXCLUDED.input_tokens,
			output_tokens        = usage_periods.output_tokens + EXCLUDED.output_tokens,
			cost                 = usage_periods.cost + EXCLUDED.cost,
			updated_at           = EXCLUDED.updated_at,
			updated_by           = EXCLUDED.updated_by
	`
	_, err := r.client.Querier(ctx).ExecContext(ctx, query,
		seed.ID, seed.UserID, nullString(seed.OrganizationID), seed.PeriodKey,
		seed.TasksUsed, seed.CustomTemplates, seed.StorageUsedBytes,
		seed.DocumentsUploaded, seed.DocumentsDownloaded,
		seed.InputTokens, seed.OutputTokens, seed.Cost,
		seed.Status, seed.CreatedAt, seed.UpdatedAt, seed.CreatedBy, seed.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record usage").
			WithReportableDetails(map[string]interface{}{
				"user_id":    userID,
				"period_key": periodKey,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}
