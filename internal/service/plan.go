package service

import (
	"github.com/docutask/docutask/internal/api/dto"
	"github.com/docutask/docutask/internal/cache"
	"github.com/docutask/docutask/internal/domain/plan"
	ierr "github.com/docutask/docutask/internal/errors"

	"context"
)

// PlanResolver maps a subscriber to their active plan, falling back to the
// platform default when no usable subscription exists
type PlanResolver interface {
	ResolvePlan(ctx context.Context, userID string) (*plan.Plan, error)
	ListPlans(ctx context.Context) (*dto.ListPlansResponse, error)
}

type planResolver struct {
	ServiceParams
}

func NewPlanResolver(params ServiceParams) PlanResolver {
	return &planResolver{ServiceParams: params}
}

// ResolvePlan resolves the subscriber's plan. A subscription that is
// cancelled, expired, or past its validity end date counts as absent. The
// only error a healthy data set can produce is ErrNotFound for a dangling
// plan id, which is a data-integrity failure rather than a user error.
func (s *planResolver) ResolvePlan(ctx context.Context, userID string) (*plan.Plan, error) {
	planID := ""

	if userID != "" {
		sub, err := s.SubscriptionRepo.GetByUserID(ctx, userID)
		switch {
		case err == nil:
			if sub.IsUsable(nowUTC()) {
				planID = sub.PlanID
			}
		case ierr.IsNotFound(err):
			// no subscription, fall through to the default plan
		default:
			return nil, err
		}
	}

	if planID == "" {
		p, err := s.getDefaultPlan(ctx)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	return s.getPlan(ctx, planID)
}

func (s *planResolver) ListPlans(ctx context.Context) (*dto.ListPlansResponse, error) {
	plans, err := s.PlanRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PlanResponse, len(plans))
	for i, p := range plans {
		items[i] = dto.NewPlanResponse(p)
	}
	return &dto.ListPlansResponse{Items: items}, nil
}

func (s *planResolver) getPlan(ctx context.Context, id string) (*plan.Plan, error) {
	key := cache.Key(cache.PrefixPlan, id)
	if s.Cache != nil {
		if value, found := s.Cache.Get(ctx, key); found {
			if p, ok := cache.UnmarshalCacheValue[plan.Plan](value); ok {
				return p, nil
			}
		}
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.WithError(err).
				WithHint("The subscribed plan no longer exists in the catalog").
				WithReportableDetails(map[string]interface{}{
					"plan_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, p, cache.PlanCatalogExpiration)
	}
	return p, nil
}

func (s *planResolver) getDefaultPlan(ctx context.Context) (*plan.Plan, error) {
	key := cache.Key(cache.PrefixPlan, "default")
	if s.Cache != nil {
		if value, found := s.Cache.Get(ctx, key); found {
			if p, ok := cache.UnmarshalCacheValue[plan.Plan](value); ok {
				return p, nil
			}
		}
	}

	p, err := s.PlanRepo.GetDefault(ctx)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.WithError(err).
				WithHint("No default plan is configured").
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, p, cache.PlanCatalogExpiration)
	}
	return p, nil
}
