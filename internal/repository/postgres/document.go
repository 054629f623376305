package postgres

import (
	"context"

	"github.com/lib/pq"

	domainDocument "github.com/docutask/docutask/internal/domain/document"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
	"github.com/docutask/docutask/internal/types"
)

type documentRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewDocumentRepository creates a postgres-backed document repository
func NewDocumentRepository(client postgres.IClient, logger *logger.Logger) domainDocument.Repository {
	return &documentRepository{client: client, logger: logger}
}

const documentColumns = `
	id, owner_id, display_name, extracted_text, size_bytes,
	status, created_at, updated_at, created_by, updated_by
`

func (r *documentRepository) Create(ctx context.Context, d *domainDocument.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.client.Querier(ctx).ExecContext(ctx, query,
		d.ID, d.OwnerID, d.DisplayName, d.ExtractedText, d.SizeBytes,
		d.Status, d.CreatedAt, d.UpdatedAt, d.CreatedBy, d.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create document").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// ListByIDs returns the documents for the given ids in the given order.
// Unknown ids are skipped; the interpolation engine treats absent text as
// empty rather than failing the execution.
func (r *documentRepository) ListByIDs(ctx context.Context, ids []string) ([]*domainDocument.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE id = ANY($1) AND status = $2`
	rows, err := r.client.Querier(ctx).QueryContext(ctx, query, pq.Array(ids), types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list documents").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	byID := make(map[string]*domainDocument.Document, len(ids))
	for rows.Next() {
		var d domainDocument.Document
		err := rows.Scan(
			&d.ID, &d.OwnerID, &d.DisplayName, &d.ExtractedText, &d.SizeBytes,
			&d.Status, &d.CreatedAt, &d.UpdatedAt, &d.CreatedBy, &d.UpdatedBy,
		)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan document").
				Mark(ierr.ErrDatabase)
		}
		byID[d.ID] = &d
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate documents").
			Mark(ierr.ErrDatabase)
	}

	docs := make([]*domainDocument.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			docs = append(docs, d)
		}
	}
	return docs, nil
}
