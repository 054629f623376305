package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/docutask/docutask/internal/domain/execution"
	ierr "github.com/docutask/docutask/internal/errors"
)

// InMemoryExecutionStore implements execution.Repository
type InMemoryExecutionStore struct {
	*InMemoryStore[*execution.Execution]
}

func NewInMemoryExecutionStore() *InMemoryExecutionStore {
	return &InMemoryExecutionStore{
		InMemoryStore: NewInMemoryStore[*execution.Execution](),
	}
}

func copyExecution(e *execution.Execution) *execution.Execution {
	if e == nil {
		return nil
	}
	copied := *e
	return &copied
}

func (s *InMemoryExecutionStore) Create(ctx context.Context, e *execution.Execution) error {
	if e == nil {
		return ierr.NewError("execution cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, e.ID, copyExecution(e))
}

func (s *InMemoryExecutionStore) List(ctx context.Context, filter *execution.Filter) ([]*execution.Execution, error) {
	executions, err := s.InMemoryStore.List(ctx, filter, executionFilterFn, executionSortFn)
	if err != nil {
		return nil, err
	}
	executions = paginate(executions, filter.GetLimit(), filter.GetOffset())
	return lo.Map(executions, func(e *execution.Execution, _ int) *execution.Execution {
		return copyExecution(e)
	}), nil
}

func (s *InMemoryExecutionStore) Count(ctx context.Context, filter *execution.Filter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, executionFilterFn)
}

func executionFilterFn(ctx context.Context, e *execution.Execution, filter interface{}) bool {
	if e == nil {
		return false
	}
	f, ok := filter.(*execution.Filter)
	if !ok || f == nil {
		return true
	}
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.TemplateID != "" && e.TemplateID != f.TemplateID {
		return false
	}
	if f.PeriodKey != "" && e.PeriodKey != f.PeriodKey {
		return false
	}
	return true
}

func executionSortFn(i, j *execution.Execution) bool {
	return i.CreatedAt.After(j.CreatedAt)
}
