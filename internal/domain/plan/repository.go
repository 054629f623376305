package plan

import (
	"context"
)

// Repository defines persistence operations for the plan catalog
type Repository interface {
	// Create creates a new plan
	Create(ctx context.Context, p *Plan) error

	// Get retrieves a plan by id, ErrNotFound if absent
	Get(ctx context.Context, id string) (*Plan, error)

	// GetDefault retrieves the plan flagged as the platform default
	GetDefault(ctx context.Context) (*Plan, error)

	// List retrieves all published plans
	List(ctx context.Context) ([]*Plan, error)
}
