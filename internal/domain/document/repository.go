package document

import (
	"context"
)

// Repository is the read-only contract against the document store
type Repository interface {
	// Create stores a document record (used by upload flows and tests)
	Create(ctx context.Context, d *Document) error

	// ListByIDs returns the documents for the given ids in the given order.
	// Unknown ids are skipped rather than failing the call.
	ListByIDs(ctx context.Context, ids []string) ([]*Document, error)
}
