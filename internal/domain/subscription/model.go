package subscription

import (
	"time"

	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

// Subscription binds a subscriber to a plan. A user without a subscription
// implicitly holds the platform's default plan.
type Subscription struct {
	ID                 string                   `json:"id"`
	UserID             string                   `json:"user_id"`
	PlanID             string                   `json:"plan_id"`
	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status"`
	ValidUntil         *time.Time               `json:"valid_until,omitempty"`
	types.BaseModel
}

// IsUsable reports whether the subscription still grants its plan at time t
func (s *Subscription) IsUsable(t time.Time) bool {
	if !s.SubscriptionStatus.IsUsable() {
		return false
	}
	if s.ValidUntil != nil && s.ValidUntil.Before(t) {
		return false
	}
	return true
}

func (s *Subscription) Validate() error {
	if s.UserID == "" {
		return ierr.NewError("subscription user_id is required").
			WithHint("Subscription must belong to a user").
			Mark(ierr.ErrValidation)
	}
	if s.PlanID == "" {
		return ierr.NewError("subscription plan_id is required").
			WithHint("Subscription must reference a plan").
			Mark(ierr.ErrValidation)
	}
	return nil
}
