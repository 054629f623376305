package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/docutask/docutask/internal/domain/usage"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

// InMemoryUsageStore implements usage.Repository. AddUsage holds the store
// lock across the whole read-apply-write so concurrent calls for the same
// (user, period) behave like the database's atomic upsert.
type InMemoryUsageStore struct {
	mu      sync.Mutex
	records map[string]*usage.PeriodRecord
}

func NewInMemoryUsageStore() *InMemoryUsageStore {
	return &InMemoryUsageStore{
		records: make(map[string]*usage.PeriodRecord),
	}
}

func usageKey(userID string, periodKey types.PeriodKey) string {
	return userID + "/" + string(periodKey)
}

func copyPeriodRecord(r *usage.PeriodRecord) *usage.PeriodRecord {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

func (s *InMemoryUsageStore) Get(ctx context.Context, userID string, periodKey types.PeriodKey) (*usage.PeriodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[usageKey(userID, periodKey)]
	if !exists {
		return nil, ierr.NewError("usage period not found").
			WithReportableDetails(map[string]interface{}{
				"user_id":    userID,
				"period_key": periodKey,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyPeriodRecord(rec), nil
}

func (s *InMemoryUsageStore) AddUsage(ctx context.Context, userID string, periodKey types.PeriodKey, organizationID string, deltas ...usage.Delta) error {
	if err := periodKey.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := usageKey(userID, periodKey)
	rec, exists := s.records[key]
	if !exists {
		rec = &usage.PeriodRecord{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USAGE_PERIOD),
			UserID:         userID,
			OrganizationID: organizationID,
			PeriodKey:      periodKey,
			BaseModel:      types.GetDefaultBaseModel(userID),
		}
		s.records[key] = rec
	}
	for _, d := range deltas {
		usage.Apply(rec, d)
	}
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryUsageStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*usage.PeriodRecord)
}
