package postgres

import (
	"context"
	"database/sql"

	domainPlan "github.com/docutask/docutask/internal/domain/plan"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
	"github.com/docutask/docutask/internal/types"
)

type planRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewPlanRepository creates a postgres-backed plan repository
func NewPlanRepository(client postgres.IClient, logger *logger.Logger) domainPlan.Repository {
	return &planRepository{client: client, logger: logger}
}

const planColumns = `
	id, name, lookup_key, description, features,
	limit_tasks, limit_custom_templates, limit_storage_bytes, limit_team_members,
	is_default, status, created_at, updated_at, created_by, updated_by
`

func (r *planRepository) Create(ctx context.Context, p *domainPlan.Plan) error {
	r.logger.Debugw("creating plan", "name", p.Name)

	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.client.Querier(ctx).ExecContext(ctx, query,
		p.ID, p.Name, p.LookupKey, p.Description, p.FeaturesRaw,
		p.Limits.Tasks, p.Limits.CustomTemplates, p.Limits.StorageBytes, p.Limits.TeamMembers,
		p.IsDefault, p.Status, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A plan with this lookup key already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create plan").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*domainPlan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1 AND status != $2`
	row := r.client.Querier(ctx).QueryRowContext(ctx, query, id, types.StatusDeleted)

	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("plan not found").
			WithReportableDetails(map[string]interface{}{
				"plan_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan").
			Mark(ierr.ErrDatabase)
	}
	return p, nil
}

func (r *planRepository) GetDefault(ctx context.Context) (*domainPlan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans
		WHERE is_default = TRUE AND status = $1
		ORDER BY created_at LIMIT 1`
	row := r.client.Querier(ctx).QueryRowContext(ctx, query, types.StatusPublished)

	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("default plan not found").
			WithHint("No default plan is configured").
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get default plan").
			Mark(ierr.ErrDatabase)
	}
	return p, nil
}

func (r *planRepository) List(ctx context.Context) ([]*domainPlan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE status = $1 ORDER BY created_at`
	rows, err := r.client.Querier(ctx).QueryContext(ctx, query, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plans").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var plans []*domainPlan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan plan").
				Mark(ierr.ErrDatabase)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate plans").
			Mark(ierr.ErrDatabase)
	}
	return plans, nil
}

func scanPlan(s scanner) (*domainPlan.Plan, error) {
	var p domainPlan.Plan
	err := s.Scan(
		&p.ID, &p.Name, &p.LookupKey, &p.Description, &p.FeaturesRaw,
		&p.Limits.Tasks, &p.Limits.CustomTemplates, &p.Limits.StorageBytes, &p.Limits.TeamMembers,
		&p.IsDefault, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
