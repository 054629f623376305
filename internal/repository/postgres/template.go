package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	domainTemplate "github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
	"github.com/docutask/docutask/internal/types"
)

type templateRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewTemplateRepository creates a postgres-backed template repository
func NewTemplateRepository(client postgres.IClient, logger *logger.Logger) domainTemplate.Repository {
	return &templateRepository{client: client, logger: logger}
}

const templateColumns = `
	id, name, lookup_key, description, prompt_text, fields,
	requires_document, public, roi_params,
	status, created_at, updated_at, created_by, updated_by
`

func (r *templateRepository) Create(ctx context.Context, t *domainTemplate.Template) error {
	r.logger.Debugw("creating template", "name", t.Name)

	fields, err := json.Marshal(t.Fields)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode template fields").
			Mark(ierr.ErrValidation)
	}
	roi, err := marshalNullable(t.ROIParams)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode ROI parameters").
			Mark(ierr.ErrValidation)
	}

	query := `
		INSERT INTO templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.client.Querier(ctx).ExecContext(ctx, query,
		t.ID, t.Name, t.LookupKey, t.Description, t.PromptText, fields,
		t.RequiresDocument, t.Public, roi,
		t.Status, t.CreatedAt, t.UpdatedAt, t.CreatedBy, t.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A template with this lookup key already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create template").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *templateRepository) Get(ctx context.Context, id string) (*domainTemplate.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = $1 AND status != $2`
	row := r.client.Querier(ctx).QueryRowContext(ctx, query, id, types.StatusDeleted)

	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("template not found").
			WithHint("The requested task does not exist").
			WithReportableDetails(map[string]interface{}{
				"template_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get template").
			Mark(ierr.ErrDatabase)
	}
	return t, nil
}

func (r *templateRepository) List(ctx context.Context, filter *domainTemplate.Filter) ([]*domainTemplate.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE status = $1`
	args := []interface{}{types.StatusPublished}
	idx := 2

	query, args, idx = appendTemplateFilters(query, args, idx, filter)
	query += ` ORDER BY created_at DESC LIMIT ` + placeholder(idx) + ` OFFSET ` + placeholder(idx+1)
	args = append(args, filter.GetLimit(), filter.GetOffset())

	rows, err := r.client.Querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list templates").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var templates []*domainTemplate.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan template").
				Mark(ierr.ErrDatabase)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate templates").
			Mark(ierr.ErrDatabase)
	}
	return templates, nil
}

func (r *templateRepository) Count(ctx context.Context, filter *domainTemplate.Filter) (int, error) {
	query := `SELECT COUNT(*) FROM templates WHERE status = $1`
	args := []interface{}{types.StatusPublished}

	query, args, _ = appendTemplateFilters(query, args, 2, filter)

	var count int
	err := r.client.Querier(ctx).QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count templates").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func appendTemplateFilters(query string, args []interface{}, idx int, filter *domainTemplate.Filter) (string, []interface{}, int) {
	if filter == nil {
		return query, args, idx
	}
	if filter.PublicOnly {
		query += ` AND public = TRUE`
	}
	if len(filter.TemplateIDs) > 0 {
		query += ` AND id = ANY(` + placeholder(idx) + `)`
		args = append(args, pq.Array(filter.TemplateIDs))
		idx++
	}
	return query, args, idx
}

// scanner abstracts *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(s scanner) (*domainTemplate.Template, error) {
	var t domainTemplate.Template
	var fields []byte
	var roi []byte

	err := s.Scan(
		&t.ID, &t.Name, &t.LookupKey, &t.Description, &t.PromptText, &fields,
		&t.RequiresDocument, &t.Public, &roi,
		&t.Status, &t.CreatedAt, &t.UpdatedAt, &t.CreatedBy, &t.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &t.Fields); err != nil {
			return nil, err
		}
	}
	if len(roi) > 0 {
		var params domainTemplate.ROIParams
		if err := json.Unmarshal(roi, &params); err != nil {
			return nil, err
		}
		t.ROIParams = &params
	}
	return &t, nil
}

func marshalNullable(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	switch p := v.(type) {
	case *domainTemplate.ROIParams:
		if p == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}
