package testutil

import (
	"context"

	"github.com/docutask/docutask/internal/domain/document"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

// InMemoryDocumentStore implements document.Repository
type InMemoryDocumentStore struct {
	*InMemoryStore[*document.Document]
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		InMemoryStore: NewInMemoryStore[*document.Document](),
	}
}

func copyDocument(d *document.Document) *document.Document {
	if d == nil {
		return nil
	}
	copied := *d
	return &copied
}

func (s *InMemoryDocumentStore) Create(ctx context.Context, d *document.Document) error {
	if d == nil {
		return ierr.NewError("document cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, d.ID, copyDocument(d))
}

// ListByIDs preserves the requested order and silently skips unknown ids,
// matching the postgres repository's contract.
func (s *InMemoryDocumentStore) ListByIDs(ctx context.Context, ids []string) ([]*document.Document, error) {
	result := make([]*document.Document, 0, len(ids))
	for _, id := range ids {
		d, err := s.InMemoryStore.Get(ctx, id)
		if err != nil {
			continue
		}
		if d.Status != types.StatusPublished {
			continue
		}
		result = append(result, copyDocument(d))
	}
	return result, nil
}
