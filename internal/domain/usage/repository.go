package usage

import (
	"context"

	"github.com/docutask/docutask/internal/types"
)

// Repository is the quota ledger. AddUsage must be implemented as a single
// atomic upsert-increment: concurrent calls for the same (user, period) must
// not lose updates, and it must be safe to call with no prior limit check
// since token/cost accounting is metering, not gating.
type Repository interface {
	// Get retrieves the period record for (user, period), ErrNotFound when no
	// consumption has been recorded yet
	Get(ctx context.Context, userID string, periodKey types.PeriodKey) (*PeriodRecord, error)

	// AddUsage applies the deltas to the (user, period) record, creating it
	// seeded with the deltas when absent. All deltas commit atomically or not
	// at all. organizationID tags a newly created record and may be empty.
	AddUsage(ctx context.Context, userID string, periodKey types.PeriodKey, organizationID string, deltas ...Delta) error
}
