package execution

import (
	"context"

	"github.com/docutask/docutask/internal/types"
)

// Repository defines persistence operations for execution records
type Repository interface {
	// Create persists an execution record
	Create(ctx context.Context, e *Execution) error

	// List retrieves execution records matching the filter, newest first
	List(ctx context.Context, filter *Filter) ([]*Execution, error)

	// Count counts execution records matching the filter
	Count(ctx context.Context, filter *Filter) (int, error)
}

// Filter narrows execution listings
type Filter struct {
	QueryFilter *types.QueryFilter
	UserID      string
	TemplateID  string
	PeriodKey   types.PeriodKey
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
