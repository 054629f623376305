package postgres

import (
	"context"
	"database/sql"

	domainExecution "github.com/docutask/docutask/internal/domain/execution"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
)

type executionRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewExecutionRepository creates a postgres-backed execution record repository
func NewExecutionRepository(client postgres.IClient, logger *logger.Logger) domainExecution.Repository {
	return &executionRepository{client: client, logger: logger}
}

const executionColumns = `
	id, template_id, override_id, tier, user_id, organization_id, period_key,
	input_tokens, output_tokens, cost, duration_ms, execution_status, error_code,
	status, created_at, updated_at, created_by, updated_by
`

func (r *executionRepository) Create(ctx context.Context, e *domainExecution.Execution) error {
	query := `
		INSERT INTO executions (` + executionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.client.Querier(ctx).ExecContext(ctx, query,
		e.ID, e.TemplateID, nullString(e.OverrideID), e.Tier,
		e.UserID, nullString(e.OrganizationID), e.PeriodKey,
		e.InputTokens, e.OutputTokens, e.Cost, e.DurationMs, e.ExecStatus, nullString(e.ErrorCode),
		e.Status, e.CreatedAt, e.UpdatedAt, e.CreatedBy, e.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record execution").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *executionRepository) List(ctx context.Context, filter *domainExecution.Filter) ([]*domainExecution.Execution, error) {
	query := `SELECT ` + executionColumns + ` FROM executions WHERE 1=1`
	args := []interface{}{}
	idx := 1

	query, args, idx = appendExecutionFilters(query, args, idx, filter)
	query += ` ORDER BY created_at DESC`
	query += ` LIMIT ` + placeholder(idx) + ` OFFSET ` + placeholder(idx+1)
	args = append(args, filter.GetLimit(), filter.GetOffset())

	rows, err := r.client.Querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list executions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var executions []*domainExecution.Execution
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan execution").
				Mark(ierr.ErrDatabase)
		}
		executions = append(executions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate executions").
			Mark(ierr.ErrDatabase)
	}
	return executions, nil
}

func (r *executionRepository) Count(ctx context.Context, filter *domainExecution.Filter) (int, error) {
	query := `SELECT COUNT(*) FROM executions WHERE 1=1`
	args := []interface{}{}

	query, args, _ = appendExecutionFilters(query, args, 1, filter)

	var count int
	err := r.client.Querier(ctx).QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count executions").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func appendExecutionFilters(query string, args []interface{}, idx int, filter *domainExecution.Filter) (string, []interface{}, int) {
	if filter == nil {
		return query, args, idx
	}
	if filter.UserID != "" {
		query += ` AND user_id = ` + placeholder(idx)
		args = append(args, filter.UserID)
		idx++
	}
	if filter.TemplateID != "" {
		query += ` AND template_id = ` + placeholder(idx)
		args = append(args, filter.TemplateID)
		idx++
	}
	if filter.PeriodKey != "" {
		query += ` AND period_key = ` + placeholder(idx)
		args = append(args, filter.PeriodKey)
		idx++
	}
	return query, args, idx
}

func scanExecution(s scanner) (*domainExecution.Execution, error) {
	var e domainExecution.Execution
	var overrideID, organizationID, errorCode sql.NullString

	err := s.Scan(
		&e.ID, &e.TemplateID, &overrideID, &e.Tier,
		&e.UserID, &organizationID, &e.PeriodKey,
		&e.InputTokens, &e.OutputTokens, &e.Cost, &e.DurationMs, &e.ExecStatus, &errorCode,
		&e.Status, &e.CreatedAt, &e.UpdatedAt, &e.CreatedBy, &e.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	e.OverrideID = overrideID.String
	e.OrganizationID = organizationID.String
	e.ErrorCode = errorCode.String
	return &e, nil
}
