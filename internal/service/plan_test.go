package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/docutask/docutask/internal/domain/plan"
	"github.com/docutask/docutask/internal/domain/subscription"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/testutil"
	"github.com/docutask/docutask/internal/types"
)

type PlanResolverSuite struct {
	testutil.BaseServiceTestSuite
	service PlanResolver
}

func TestPlanResolver(t *testing.T) {
	suite.Run(t, new(PlanResolverSuite))
}

func (s *PlanResolverSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPlanResolver(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		Cache:            s.GetCache(),
		PlanRepo:         s.GetStores().PlanRepo,
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
	})
	s.seedPlans()
}

func (s *PlanResolverSuite) seedPlans() {
	for _, p := range []*plan.Plan{
		{
			ID:        "plan_free",
			Name:      "Free",
			IsDefault: true,
			Limits:    plan.Limits{Tasks: 10},
			BaseModel: types.GetDefaultBaseModel("user_admin"),
		},
		{
			ID:          "plan_pro",
			Name:        "Pro",
			FeaturesRaw: `["custom_templates","priority_support"]`,
			Limits:      plan.Limits{Tasks: 0, CustomTemplates: 50},
			BaseModel:   types.GetDefaultBaseModel("user_admin"),
		},
	} {
		s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), p))
	}
}

func (s *PlanResolverSuite) subscribe(userID, planID string, status types.SubscriptionStatus, validUntil *time.Time) {
	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		UserID:             userID,
		PlanID:             planID,
		SubscriptionStatus: status,
		ValidUntil:         validUntil,
		BaseModel:          types.GetDefaultBaseModel(userID),
	}
	s.NoError(s.GetStores().SubscriptionRepo.Create(s.GetContext(), sub))
}

func (s *PlanResolverSuite) TestNoSubscriptionResolvesDefaultPlan() {
	p, err := s.service.ResolvePlan(s.GetContext(), "user_test")
	s.NoError(err)
	s.Equal("plan_free", p.ID)
}

func (s *PlanResolverSuite) TestActiveSubscriptionResolvesItsPlan() {
	s.subscribe("user_test", "plan_pro", types.SubscriptionStatusActive, nil)

	p, err := s.service.ResolvePlan(s.GetContext(), "user_test")
	s.NoError(err)
	s.Equal("plan_pro", p.ID)
}

func (s *PlanResolverSuite) TestTrialSubscriptionIsUsable() {
	s.subscribe("user_test", "plan_pro", types.SubscriptionStatusTrial, nil)

	p, err := s.service.ResolvePlan(s.GetContext(), "user_test")
	s.NoError(err)
	s.Equal("plan_pro", p.ID)
}

func (s *PlanResolverSuite) TestCancelledSubscriptionFallsBackToDefault() {
	s.subscribe("user_test", "plan_pro", types.SubscriptionStatusCancelled, nil)

	p, err := s.service.ResolvePlan(s.GetContext(), "user_test")
	s.NoError(err)
	s.Equal("plan_free", p.ID)
}

func (s *PlanResolverSuite) TestLapsedValidityFallsBackToDefault() {
	past := time.Now().UTC().Add(-24 * time.Hour)
	s.subscribe("user_test", "plan_pro", types.SubscriptionStatusActive, &past)

	p, err := s.service.ResolvePlan(s.GetContext(), "user_test")
	s.NoError(err)
	s.Equal("plan_free", p.ID)
}

func (s *PlanResolverSuite) TestDanglingPlanIDIsDataIntegrityError() {
	s.subscribe("user_test", "plan_gone", types.SubscriptionStatusActive, nil)

	_, err := s.service.ResolvePlan(s.GetContext(), "user_test")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PlanResolverSuite) TestAnonymousUserGetsDefaultPlan() {
	p, err := s.service.ResolvePlan(s.GetContext(), "")
	s.NoError(err)
	s.Equal("plan_free", p.ID)
}

func (s *PlanResolverSuite) TestListPlansDecodesFeatures() {
	resp, err := s.service.ListPlans(s.GetContext())
	s.NoError(err)
	s.Len(resp.Items, 2)

	features := map[string][]string{}
	for _, item := range resp.Items {
		features[item.ID] = item.Features
	}
	s.Empty(features["plan_free"])
	s.Equal([]string{"custom_templates", "priority_support"}, features["plan_pro"])
}

func (s *PlanResolverSuite) TestCorruptFeatureBlobDegradesToEmpty() {
	p := &plan.Plan{
		ID:          "plan_corrupt",
		Name:        "Corrupt",
		FeaturesRaw: `{"not":"a list"`,
		BaseModel:   types.GetDefaultBaseModel("user_admin"),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), p))

	got, err := s.GetStores().PlanRepo.Get(s.GetContext(), "plan_corrupt")
	s.NoError(err)
	s.Empty(got.Features())
	s.False(got.HasFeature("custom_templates"))
}
