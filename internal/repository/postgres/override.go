package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domainTemplate "github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
	"github.com/docutask/docutask/internal/types"
)

type overrideRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewOverrideRepository creates a postgres-backed override repository.
// Partial unique indexes on (template, owner scope) enforce the at-most-one
// active override invariant; Create surfaces their violation as
// ErrAlreadyExists so the cascade can fall back to re-resolving.
func NewOverrideRepository(client postgres.IClient, logger *logger.Logger) domainTemplate.OverrideRepository {
	return &overrideRepository{client: client, logger: logger}
}

const overrideColumns = `
	id, template_id, user_id, organization_id, prompt_text, roi_params,
	version, usage_count, last_used_at,
	status, created_at, updated_at, created_by, updated_by
`

func (r *overrideRepository) Create(ctx context.Context, o *domainTemplate.Override) error {
	r.logger.Debugw("creating override", "template_id", o.TemplateID, "scope", o.Scope().String())

	if err := o.Validate(); err != nil {
		return err
	}

	roi, err := marshalNullable(o.ROIParams)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode ROI parameters").
			Mark(ierr.ErrValidation)
	}

	query := `
		INSERT INTO template_overrides (` + overrideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.client.Querier(ctx).ExecContext(ctx, query,
		o.ID, o.TemplateID, nullString(o.UserID), nullString(o.OrganizationID),
		o.PromptText, roi, o.Version, o.UsageCount, o.LastUsedAt,
		o.Status, o.CreatedAt, o.UpdatedAt, o.CreatedBy, o.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("An active override already exists for this scope").
				WithReportableDetails(map[string]interface{}{
					"template_id": o.TemplateID,
					"scope":       o.Scope().String(),
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create override").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *overrideRepository) GetActiveByScope(ctx context.Context, templateID string, scope types.OverrideScope) (*domainTemplate.Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM template_overrides
		WHERE template_id = $1 AND status = $2`
	args := []interface{}{templateID, types.StatusPublished}

	switch scope.Kind {
	case types.OverrideScopeUser:
		query += ` AND user_id = $3`
		args = append(args, scope.UserID)
	case types.OverrideScopeOrganization:
		query += ` AND organization_id = $3 AND user_id IS NULL`
		args = append(args, scope.OrganizationID)
	case types.OverrideScopeGlobal:
		query += ` AND user_id IS NULL AND organization_id IS NULL`
	default:
		return nil, ierr.NewErrorf("unknown override scope kind %q", scope.Kind).
			Mark(ierr.ErrValidation)
	}

	row := r.client.Querier(ctx).QueryRowContext(ctx, query, args...)
	o, err := scanOverride(row)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("override not found").
			WithReportableDetails(map[string]interface{}{
				"template_id": templateID,
				"scope":       scope.String(),
			}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get override").
			Mark(ierr.ErrDatabase)
	}
	return o, nil
}

func (r *overrideRepository) TouchUsage(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE template_overrides
		SET usage_count = usage_count + 1, last_used_at = $2, updated_at = $2
		WHERE id = $1
	`
	result, err := r.client.Querier(ctx).ExecContext(ctx, query, id, at)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update override usage").
			Mark(ierr.ErrDatabase)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("override not found").
			WithReportableDetails(map[string]interface{}{
				"override_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *overrideRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE template_overrides
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`
	result, err := r.client.Querier(ctx).ExecContext(ctx, query,
		id, types.StatusArchived, types.StatusPublished)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to deactivate override").
			Mark(ierr.ErrDatabase)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("active override not found").
			WithReportableDetails(map[string]interface{}{
				"override_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *overrideRepository) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM template_overrides WHERE user_id = $1 AND status = $2`

	var count int
	err := r.client.Querier(ctx).QueryRowContext(ctx, query, userID, types.StatusPublished).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count overrides").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func scanOverride(s scanner) (*domainTemplate.Override, error) {
	var o domainTemplate.Override
	var userID, organizationID sql.NullString
	var lastUsedAt sql.NullTime
	var roi []byte

	err := s.Scan(
		&o.ID, &o.TemplateID, &userID, &organizationID, &o.PromptText, &roi,
		&o.Version, &o.UsageCount, &lastUsedAt,
		&o.Status, &o.CreatedAt, &o.UpdatedAt, &o.CreatedBy, &o.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	o.UserID = userID.String
	o.OrganizationID = organizationID.String
	if lastUsedAt.Valid {
		o.LastUsedAt = &lastUsedAt.Time
	}
	if len(roi) > 0 {
		var params domainTemplate.ROIParams
		if err := json.Unmarshal(roi, &params); err != nil {
			return nil, err
		}
		o.ROIParams = &params
	}
	return &o, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
