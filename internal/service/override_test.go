package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/testutil"
	"github.com/docutask/docutask/internal/types"
)

type OverrideServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  OverrideService
	testData struct {
		template *template.Template
	}
}

func TestOverrideService(t *testing.T) {
	suite.Run(t, new(OverrideServiceSuite))
}

func (s *OverrideServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewOverrideService(s.params())
	s.setupTestData()
}

func (s *OverrideServiceSuite) params() ServiceParams {
	return ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		Cache:          s.GetCache(),
		TemplateRepo:   s.GetStores().TemplateRepo,
		OverrideRepo:   s.GetStores().OverrideRepo,
		MembershipRepo: s.GetStores().MembershipRepo,
	}
}

func (s *OverrideServiceSuite) setupTestData() {
	s.testData.template = &template.Template{
		ID:         "tmpl_base",
		Name:       "Offer Letter",
		PromptText: "base prompt",
		BaseModel:  types.GetDefaultBaseModel("user_admin"),
	}
	s.NoError(s.GetStores().TemplateRepo.Create(s.GetContext(), s.testData.template))
	s.GetStores().MembershipRepo.AddMember("user_test", "org_test")
}

func (s *OverrideServiceSuite) seedOverride(id, userID, orgID, prompt string) *template.Override {
	o := &template.Override{
		ID:             id,
		TemplateID:     s.testData.template.ID,
		UserID:         userID,
		OrganizationID: orgID,
		PromptText:     prompt,
		Version:        1,
		BaseModel:      types.GetDefaultBaseModel("user_admin"),
	}
	s.NoError(s.GetStores().OverrideRepo.Create(s.GetContext(), o))
	return o
}

func (s *OverrideServiceSuite) TestUserOverrideWinsOverAllTiers() {
	s.seedOverride("ovr_user", "user_test", "", "user prompt")
	s.seedOverride("ovr_org", "", "org_test", "org prompt")
	s.seedOverride("ovr_global", "", "", "global prompt")

	ep, err := s.service.ResolveEffectivePrompt(s.GetContext(), s.testData.template, "user_test", "org_test")
	s.NoError(err)
	s.Equal("user prompt", ep.PromptText)
	s.Equal(types.OverrideTierUser, ep.Tier)
	s.Equal("ovr_user", ep.OverrideID)
}

func (s *OverrideServiceSuite) TestOrganizationOverrideForMembers() {
	s.seedOverride("ovr_org", "", "org_test", "org prompt")
	s.seedOverride("ovr_global", "", "", "global prompt")

	ep, err := s.service.ResolveEffectivePrompt(s.GetContext(), s.testData.template, "user_member", "org_test")
	s.NoError(err)
	// user_member is not in org_test, so the org tier must be skipped
	s.Equal("global prompt", ep.PromptText)
	s.Equal(types.OverrideTierGlobal, ep.Tier)

	s.GetStores().MembershipRepo.AddMember("user_member", "org_test")
	ep, err = s.service.ResolveEffectivePrompt(s.GetContext(), s.testData.template, "user_member", "org_test")
	s.NoError(err)
	s.Equal("org prompt", ep.PromptText)
	s.Equal(types.OverrideTierOrganization, ep.Tier)
}

func (s *OverrideServiceSuite) TestFallbackAfterDeactivation() {
	user := s.seedOverride("ovr_user", "user_test", "", "user prompt")
	s.seedOverride("ovr_org", "", "org_test", "org prompt")

	ep, err := s.service.ResolveEffectivePrompt(s.GetContext(), s.testData.template, "user_test", "org_test")
	s.NoError(err)
	s.Equal(types.OverrideTierUser, ep.Tier)

	s.NoError(s.GetStores().OverrideRepo.Deactivate(s.GetContext(), user.ID))

	ep, err = s.service.ResolveEffectivePrompt(s.GetContext(), s.testData.template, "user_test", "org_test")
	s.NoError(err)
	s.Equal("org prompt", ep.PromptText)
	s.Equal(types.OverrideTierOrganization, ep.Tier)
}

func (s *OverrideServiceSuite) TestMaterializesUserOverrideOnFirstResolution() {
	ep, err := s.service.ResolveEffectivePrompt(s.GetContext(), s.testData.template, "user_fresh", "")
	s.NoError(err)
	// The current call still runs the base text
	s.Equal("base prompt", ep.PromptText)
	s.Equal(types.OverrideTierBase, ep.Tier)
	s.NotEmpty(ep.OverrideID)

	// The materialized copy starts at usage 1 and serves from the next call
	o, err := s.GetStores().OverrideRepo.Get(s.GetContext(), ep.OverrideID)
	s.NoError(err)
	s.Equal("user_fresh", o.UserID)
	s.Equal("base prompt", o.PromptText)
	s.Equal(int64(1), o.UsageCount)
	s.NotNil(o.LastUsedAt)

	ep, err = s.service.ResolveEffectivePrompt(s.GetContext(), s.testData.template, "user_fresh", "")
	s.NoError(err)
	s.Equal(types.OverrideTierUser, ep.Tier)
	s.Equal(o.ID, ep.OverrideID)
}

func (s *OverrideServiceSuite) TestAnonymousResolutionDoesNotMaterialize() {
	ep, err := s.service.ResolveEffectivePrompt(s.GetContext(), s.testData.template, "", "")
	s.NoError(err)
	s.Equal(types.OverrideTierBase, ep.Tier)
	s.Empty(ep.OverrideID)

	count, err := s.GetStores().OverrideRepo.CountActiveByUser(s.GetContext(), "")
	s.NoError(err)
	s.Zero(count)
}

func (s *OverrideServiceSuite) TestConcurrentFirstResolutionsMaterializeOnce() {
	const workers = 20

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = s.service.ResolveEffectivePrompt(s.GetContext(), s.testData.template, "user_racer", "")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}
	count, err := s.GetStores().OverrideRepo.CountActiveByUser(s.GetContext(), "user_racer")
	s.NoError(err)
	s.Equal(1, count)
}

func (s *OverrideServiceSuite) TestEmptyPromptTextIsNotConfigured() {
	blank := &template.Template{
		ID:         "tmpl_blank",
		Name:       "Unfinished",
		PromptText: "   ",
		BaseModel:  types.GetDefaultBaseModel("user_admin"),
	}
	s.NoError(s.GetStores().TemplateRepo.Create(s.GetContext(), blank))

	_, err := s.service.ResolveEffectivePrompt(s.GetContext(), blank, "user_test", "org_test")
	s.Error(err)
	s.True(ierr.IsNotConfigured(err))
}

func (s *OverrideServiceSuite) TestCommitUsageTouchesResolvedOverride() {
	s.seedOverride("ovr_user", "user_test", "", "user prompt")

	ep, err := s.service.ResolveEffectivePrompt(s.GetContext(), s.testData.template, "user_test", "")
	s.NoError(err)
	s.Equal(types.OverrideTierUser, ep.Tier)

	s.NoError(s.service.CommitUsage(s.GetContext(), ep))

	o, err := s.GetStores().OverrideRepo.Get(s.GetContext(), "ovr_user")
	s.NoError(err)
	s.Equal(int64(1), o.UsageCount)
	s.NotNil(o.LastUsedAt)
}

func (s *OverrideServiceSuite) TestCommitUsageIsNoOpForBaseTier() {
	ep := &EffectivePrompt{PromptText: "base prompt", Tier: types.OverrideTierBase}
	s.NoError(s.service.CommitUsage(s.GetContext(), ep))
	s.NoError(s.service.CommitUsage(s.GetContext(), nil))
}
