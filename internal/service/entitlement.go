package service

import (
	"context"

	"github.com/docutask/docutask/internal/api/dto"
	"github.com/docutask/docutask/internal/domain/usage"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

// LimitDecision is the outcome of comparing a ledger counter against a plan
// limit. Remaining is meaningless when Unlimited is set.
type LimitDecision struct {
	Allowed   bool            `json:"allowed"`
	Unlimited bool            `json:"unlimited"`
	Used      int64           `json:"used"`
	Limit     int64           `json:"limit"`
	Remaining int64           `json:"remaining"`
	LimitKey  types.LimitKey  `json:"limit_key"`
	PeriodKey types.PeriodKey `json:"period_key"`
}

// EntitlementService gates consumption against plan limits and reports
// current headroom
type EntitlementService interface {
	CheckLimit(ctx context.Context, userID string, periodKey types.PeriodKey, key types.LimitKey) (*LimitDecision, error)
	GetUsageSummary(ctx context.Context, userID string, periodKey types.PeriodKey) (*dto.UsageSummaryResponse, error)
}

type entitlementService struct {
	ServiceParams
	planResolver PlanResolver
}

func NewEntitlementService(params ServiceParams) EntitlementService {
	return &entitlementService{
		ServiceParams: params,
		planResolver:  NewPlanResolver(params),
	}
}

// CheckLimit compares the current period counter against the plan limit.
// A limit of 0 is the unlimited sentinel and short-circuits without touching
// the ledger. For finite limits the decision is used < limit: reaching the
// limit exactly blocks the next attempt, not the one that hits it.
func (s *entitlementService) CheckLimit(ctx context.Context, userID string, periodKey types.PeriodKey, key types.LimitKey) (*LimitDecision, error) {
	p, err := s.planResolver.ResolvePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit := p.Limits.For(key)
	if limit == types.UnlimitedSentinel {
		return &LimitDecision{
			Allowed:   true,
			Unlimited: true,
			Limit:     limit,
			LimitKey:  key,
			PeriodKey: periodKey,
		}, nil
	}

	used, err := s.currentCounter(ctx, userID, periodKey, key)
	if err != nil {
		return nil, err
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}

	return &LimitDecision{
		Allowed:   used < limit,
		Used:      used,
		Limit:     limit,
		Remaining: remaining,
		LimitKey:  key,
		PeriodKey: periodKey,
	}, nil
}

func (s *entitlementService) GetUsageSummary(ctx context.Context, userID string, periodKey types.PeriodKey) (*dto.UsageSummaryResponse, error) {
	p, err := s.planResolver.ResolvePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec, err := s.UsageRepo.Get(ctx, userID, periodKey)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		rec = &usage.PeriodRecord{UserID: userID, PeriodKey: periodKey}
	}

	return dto.NewUsageSummaryResponse(rec, p), nil
}

// currentCounter reads the gated counter for the period, treating an absent
// record as zero consumption. The custom-templates counter is derived from
// the override table since overrides outlive the month they were created in.
func (s *entitlementService) currentCounter(ctx context.Context, userID string, periodKey types.PeriodKey, key types.LimitKey) (int64, error) {
	if key == types.LimitKeyCustomTemplates {
		count, err := s.OverrideRepo.CountActiveByUser(ctx, userID)
		if err != nil {
			return 0, err
		}
		return int64(count), nil
	}

	rec, err := s.UsageRepo.Get(ctx, userID, periodKey)
	if err != nil {
		if ierr.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return rec.CounterFor(key), nil
}
