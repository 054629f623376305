package template

import (
	"context"
	"time"

	"github.com/docutask/docutask/internal/types"
)

// Repository defines persistence operations for base templates
type Repository interface {
	// Create creates a new base template
	Create(ctx context.Context, t *Template) error

	// Get retrieves a template by id
	Get(ctx context.Context, id string) (*Template, error)

	// List retrieves templates matching the filter
	List(ctx context.Context, filter *Filter) ([]*Template, error)

	// Count counts templates matching the filter
	Count(ctx context.Context, filter *Filter) (int, error)
}

// OverrideRepository defines persistence operations for template overrides
type OverrideRepository interface {
	// Create inserts a new override. A second concurrent insert for the same
	// (template, scope) pair fails with ErrAlreadyExists via the unique index.
	Create(ctx context.Context, o *Override) error

	// GetActiveByScope returns the single active override for the template at
	// the given owner scope, or ErrNotFound
	GetActiveByScope(ctx context.Context, templateID string, scope types.OverrideScope) (*Override, error)

	// TouchUsage increments the override's usage counter and stamps its
	// last-used timestamp in a single atomic update
	TouchUsage(ctx context.Context, id string, at time.Time) error

	// Deactivate archives an override so the cascade stops selecting it
	Deactivate(ctx context.Context, id string) error

	// CountActiveByUser counts a user's active overrides, used for the
	// custom-templates plan limit
	CountActiveByUser(ctx context.Context, userID string) (int, error)
}

// Filter narrows template listings
type Filter struct {
	QueryFilter *types.QueryFilter
	TemplateIDs []string
	PublicOnly  bool
}

func (f *Filter) GetLimit() int {
	if f == nil {
		return types.NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

func (f *Filter) GetOffset() int {
	if f == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}
