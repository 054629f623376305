package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

// InMemoryOverrideStore implements template.OverrideRepository. It is not
// built on the generic store because Create must atomically enforce the
// at-most-one-active-override-per-scope invariant, mirroring the partial
// unique indexes of the real schema.
type InMemoryOverrideStore struct {
	mu    sync.Mutex
	items map[string]*template.Override
}

func NewInMemoryOverrideStore() *InMemoryOverrideStore {
	return &InMemoryOverrideStore{
		items: make(map[string]*template.Override),
	}
}

func copyOverride(o *template.Override) *template.Override {
	if o == nil {
		return nil
	}
	copied := *o
	if o.ROIParams != nil {
		roi := *o.ROIParams
		copied.ROIParams = &roi
	}
	if o.LastUsedAt != nil {
		at := *o.LastUsedAt
		copied.LastUsedAt = &at
	}
	return &copied
}

func (s *InMemoryOverrideStore) Create(ctx context.Context, o *template.Override) error {
	if o == nil {
		return ierr.NewError("override cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scope := o.Scope()
	for _, existing := range s.items {
		if existing.TemplateID == o.TemplateID &&
			existing.Status == types.StatusPublished &&
			existing.Scope() == scope {
			return ierr.NewError("an active override already exists for this scope").
				WithReportableDetails(map[string]interface{}{
					"template_id": o.TemplateID,
					"scope":       scope.String(),
				}).
				Mark(ierr.ErrAlreadyExists)
		}
	}
	if _, exists := s.items[o.ID]; exists {
		return ierr.NewError("override already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	s.items[o.ID] = copyOverride(o)
	return nil
}

func (s *InMemoryOverrideStore) GetActiveByScope(ctx context.Context, templateID string, scope types.OverrideScope) (*template.Override, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.items {
		if o.TemplateID == templateID &&
			o.Status == types.StatusPublished &&
			o.Scope() == scope {
			return copyOverride(o), nil
		}
	}
	return nil, ierr.NewError("override not found").
		WithReportableDetails(map[string]interface{}{
			"template_id": templateID,
			"scope":       scope.String(),
		}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryOverrideStore) TouchUsage(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, exists := s.items[id]
	if !exists {
		return ierr.NewError("override not found").
			WithReportableDetails(map[string]interface{}{
				"override_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	o.UsageCount++
	touched := at
	o.LastUsedAt = &touched
	o.UpdatedAt = at
	return nil
}

func (s *InMemoryOverrideStore) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, exists := s.items[id]
	if !exists || o.Status != types.StatusPublished {
		return ierr.NewError("active override not found").
			WithReportableDetails(map[string]interface{}{
				"override_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	o.Status = types.StatusArchived
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryOverrideStore) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, o := range s.items {
		if o.UserID == userID && o.Status == types.StatusPublished {
			count++
		}
	}
	return count, nil
}

// Get returns an override by id for test assertions
func (s *InMemoryOverrideStore) Get(ctx context.Context, id string) (*template.Override, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, exists := s.items[id]
	if !exists {
		return nil, ierr.NewError("override not found").
			Mark(ierr.ErrNotFound)
	}
	return copyOverride(o), nil
}

func (s *InMemoryOverrideStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*template.Override)
}
