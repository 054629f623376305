package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

// InMemoryTemplateStore implements template.Repository
type InMemoryTemplateStore struct {
	*InMemoryStore[*template.Template]
}

func NewInMemoryTemplateStore() *InMemoryTemplateStore {
	return &InMemoryTemplateStore{
		InMemoryStore: NewInMemoryStore[*template.Template](),
	}
}

func copyTemplate(t *template.Template) *template.Template {
	if t == nil {
		return nil
	}
	copied := *t
	copied.Fields = append([]template.FieldDescriptor(nil), t.Fields...)
	if t.ROIParams != nil {
		roi := *t.ROIParams
		copied.ROIParams = &roi
	}
	return &copied
}

func (s *InMemoryTemplateStore) Create(ctx context.Context, t *template.Template) error {
	if t == nil {
		return ierr.NewError("template cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	return s.InMemoryStore.Create(ctx, t.ID, copyTemplate(t))
}

func (s *InMemoryTemplateStore) Get(ctx context.Context, id string) (*template.Template, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || t.Status == types.StatusDeleted {
		return nil, ierr.NewError("template not found").
			WithHint("Template not found").
			WithReportableDetails(map[string]interface{}{
				"template_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyTemplate(t), nil
}

func (s *InMemoryTemplateStore) List(ctx context.Context, filter *template.Filter) ([]*template.Template, error) {
	templates, err := s.InMemoryStore.List(ctx, filter, templateFilterFn, templateSortFn)
	if err != nil {
		return nil, err
	}
	templates = paginate(templates, filter.GetLimit(), filter.GetOffset())
	return lo.Map(templates, func(t *template.Template, _ int) *template.Template {
		return copyTemplate(t)
	}), nil
}

func (s *InMemoryTemplateStore) Count(ctx context.Context, filter *template.Filter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, templateFilterFn)
}

func templateFilterFn(ctx context.Context, t *template.Template, filter interface{}) bool {
	if t == nil || t.Status != types.StatusPublished {
		return false
	}
	f, ok := filter.(*template.Filter)
	if !ok || f == nil {
		return true
	}
	if len(f.TemplateIDs) > 0 && !lo.Contains(f.TemplateIDs, t.ID) {
		return false
	}
	if f.PublicOnly && !t.Public {
		return false
	}
	return true
}

func templateSortFn(i, j *template.Template) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
