package subscription

import (
	"context"
)

// Repository defines persistence operations for subscriptions
type Repository interface {
	// Create creates a new subscription
	Create(ctx context.Context, s *Subscription) error

	// GetByUserID retrieves the user's current subscription or ErrNotFound
	GetByUserID(ctx context.Context, userID string) (*Subscription, error)
}
