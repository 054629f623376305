package service

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/docutask/docutask/internal/api/dto"
	"github.com/docutask/docutask/internal/domain/document"
	"github.com/docutask/docutask/internal/domain/execution"
	"github.com/docutask/docutask/internal/domain/plan"
	"github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/testutil"
	"github.com/docutask/docutask/internal/types"
)

type ExecutionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service   ExecutionService
	periodKey types.PeriodKey
	testData  struct {
		template *template.Template
	}
}

func TestExecutionService(t *testing.T) {
	suite.Run(t, new(ExecutionServiceSuite))
}

func (s *ExecutionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewExecutionService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		Cache:            s.GetCache(),
		TemplateRepo:     s.GetStores().TemplateRepo,
		OverrideRepo:     s.GetStores().OverrideRepo,
		PlanRepo:         s.GetStores().PlanRepo,
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
		UsageRepo:        s.GetStores().UsageRepo,
		DocumentRepo:     s.GetStores().DocumentRepo,
		MembershipRepo:   s.GetStores().MembershipRepo,
		ExecutionRepo:    s.GetStores().ExecutionRepo,
		Generator:        s.GetGenerator(),
	})
	s.periodKey = types.CurrentPeriodKey()
	s.setupTestData()
}

func (s *ExecutionServiceSuite) setupTestData() {
	s.seedDefaultPlan(100)

	s.testData.template = &template.Template{
		ID:         "tmpl_letter",
		Name:       "Offer Letter",
		PromptText: "Write an offer letter for {{CUSTOMER_NAME}}. Contract: {{DOKUMENT}}",
		Public:     true,
		Fields: []template.FieldDescriptor{
			{Key: "customer_name", Label: "Customer name", Type: template.FieldTypeText, Required: true},
		},
		BaseModel: types.GetDefaultBaseModel("user_admin"),
	}
	s.NoError(s.GetStores().TemplateRepo.Create(s.GetContext(), s.testData.template))
	s.GetStores().MembershipRepo.AddMember("user_test", "org_test")
}

func (s *ExecutionServiceSuite) seedDefaultPlan(tasks int64) {
	s.GetStores().PlanRepo.Clear()
	p := &plan.Plan{
		ID:        "plan_default",
		Name:      "Free",
		IsDefault: true,
		Limits:    plan.Limits{Tasks: tasks},
		BaseModel: types.GetDefaultBaseModel("user_admin"),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), p))
	// drop any plan cached by a previous test
	s.GetCache().Flush(s.GetContext())
}

func (s *ExecutionServiceSuite) execute(vars map[string]interface{}) (*dto.ExecuteTemplateResponse, error) {
	return s.service.Execute(s.GetContext(), dto.ExecuteTemplateRequest{
		TemplateID: s.testData.template.ID,
		Variables:  vars,
	})
}

func (s *ExecutionServiceSuite) tasksUsed() int64 {
	rec, err := s.GetStores().UsageRepo.Get(s.GetContext(), "user_test", s.periodKey)
	if err != nil {
		s.True(ierr.IsNotFound(err))
		return 0
	}
	return rec.TasksUsed
}

func (s *ExecutionServiceSuite) TestSuccessfulExecutionMetersUsage() {
	resp, err := s.execute(map[string]interface{}{"customer_name": "Anna"})
	s.NoError(err)
	s.Equal("generated output", resp.Output)
	s.Equal(types.OverrideTierBase, resp.Tier)
	s.NotEmpty(resp.ExecutionID)

	s.Equal(int64(1), s.tasksUsed())

	rec, err := s.GetStores().UsageRepo.Get(s.GetContext(), "user_test", s.periodKey)
	s.NoError(err)
	s.Equal(int64(100), rec.InputTokens)
	s.Equal(int64(50), rec.OutputTokens)
	s.True(rec.Cost.Equal(decimal.NewFromFloat(0.045)))

	executions, err := s.GetStores().ExecutionRepo.List(s.GetContext(), &execution.Filter{UserID: "user_test"})
	s.NoError(err)
	s.Len(executions, 1)
	s.Equal(execution.ExecutionStatusCompleted, executions[0].ExecStatus)
	s.Equal(s.periodKey, executions[0].PeriodKey)
}

func (s *ExecutionServiceSuite) TestInterpolatedPromptReachesGenerator() {
	doc := &document.Document{
		ID:            "doc_1",
		OwnerID:       "user_test",
		ExtractedText: "Contract v1",
		BaseModel:     types.GetDefaultBaseModel("user_test"),
	}
	s.NoError(s.GetStores().DocumentRepo.Create(s.GetContext(), doc))

	_, err := s.service.Execute(s.GetContext(), dto.ExecuteTemplateRequest{
		TemplateID:  s.testData.template.ID,
		Variables:   map[string]interface{}{"customer_name": "Anna"},
		DocumentIDs: []string{"doc_1", "doc_missing"},
	})
	s.NoError(err)
	s.Equal("Write an offer letter for Anna. Contract: Contract v1", s.GetGenerator().LastPrompt())
}

func (s *ExecutionServiceSuite) TestSequentialExecutionsAccumulateMonotonically() {
	const runs = 5
	for i := 0; i < runs; i++ {
		_, err := s.execute(map[string]interface{}{"customer_name": "Anna"})
		s.NoError(err)
	}
	s.Equal(int64(runs), s.tasksUsed())
}

func (s *ExecutionServiceSuite) TestConcurrentExecutionsLoseNoIncrements() {
	const workers = 10

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = s.execute(map[string]interface{}{"customer_name": "Anna"})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}
	s.Equal(int64(workers), s.tasksUsed())
	s.Equal(workers, s.GetGenerator().Calls())
}

func (s *ExecutionServiceSuite) TestLimitReachedRejectsWithoutGenerating() {
	s.seedDefaultPlan(2)

	for i := 0; i < 2; i++ {
		_, err := s.execute(map[string]interface{}{"customer_name": "Anna"})
		s.NoError(err)
	}

	_, err := s.execute(map[string]interface{}{"customer_name": "Anna"})
	s.Error(err)
	s.True(ierr.IsLimitExceeded(err))
	s.Contains(ierr.Hint(err), "2 of 2")

	// the denied attempt consumed nothing and never reached generation
	s.Equal(int64(2), s.tasksUsed())
	s.Equal(2, s.GetGenerator().Calls())

	executions, err := s.GetStores().ExecutionRepo.List(s.GetContext(), &execution.Filter{UserID: "user_test"})
	s.NoError(err)
	s.Len(executions, 3)
	rejected := 0
	for _, e := range executions {
		if e.ExecStatus == execution.ExecutionStatusRejected {
			rejected++
		}
	}
	s.Equal(1, rejected)
}

func (s *ExecutionServiceSuite) TestMissingRequiredFieldFailsBeforeGeneration() {
	_, err := s.execute(map[string]interface{}{})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	s.Zero(s.GetGenerator().Calls())
	s.Zero(s.tasksUsed())
}

func (s *ExecutionServiceSuite) TestGenerationFailureMetersNothing() {
	s.GetGenerator().FailWith("backend unavailable")

	_, err := s.execute(map[string]interface{}{"customer_name": "Anna"})
	s.Error(err)
	s.True(ierr.IsGeneration(err))

	s.Zero(s.tasksUsed())

	executions, listErr := s.GetStores().ExecutionRepo.List(s.GetContext(), &execution.Filter{UserID: "user_test"})
	s.NoError(listErr)
	s.Len(executions, 1)
	s.Equal(execution.ExecutionStatusFailed, executions[0].ExecStatus)
	s.Zero(executions[0].InputTokens)
	s.True(executions[0].Cost.IsZero())
}

func (s *ExecutionServiceSuite) TestGenerationFailureSkipsOverrideTouch() {
	o := &template.Override{
		ID:         "ovr_user",
		TemplateID: s.testData.template.ID,
		UserID:     "user_test",
		PromptText: "custom prompt for {{CUSTOMER_NAME}}",
		BaseModel:  types.GetDefaultBaseModel("user_test"),
	}
	s.NoError(s.GetStores().OverrideRepo.Create(s.GetContext(), o))
	s.GetGenerator().FailWith("backend unavailable")

	_, err := s.execute(map[string]interface{}{"customer_name": "Anna"})
	s.Error(err)

	got, err := s.GetStores().OverrideRepo.Get(s.GetContext(), o.ID)
	s.NoError(err)
	s.Zero(got.UsageCount)
}

func (s *ExecutionServiceSuite) TestOverrideTierFlowsThroughExecution() {
	o := &template.Override{
		ID:         "ovr_user",
		TemplateID: s.testData.template.ID,
		UserID:     "user_test",
		PromptText: "custom prompt for {{CUSTOMER_NAME}}",
		BaseModel:  types.GetDefaultBaseModel("user_test"),
	}
	s.NoError(s.GetStores().OverrideRepo.Create(s.GetContext(), o))

	resp, err := s.execute(map[string]interface{}{"customer_name": "Anna"})
	s.NoError(err)
	s.Equal(types.OverrideTierUser, resp.Tier)
	s.Equal(o.ID, resp.OverrideID)
	s.Equal("custom prompt for Anna", s.GetGenerator().LastPrompt())

	got, err := s.GetStores().OverrideRepo.Get(s.GetContext(), o.ID)
	s.NoError(err)
	s.Equal(int64(1), got.UsageCount)
}

func (s *ExecutionServiceSuite) TestRequiredFieldsComeFromBaseSchemaUnderOverride() {
	o := &template.Override{
		ID:         "ovr_user",
		TemplateID: s.testData.template.ID,
		UserID:     "user_test",
		PromptText: "override without any placeholder",
		BaseModel:  types.GetDefaultBaseModel("user_test"),
	}
	s.NoError(s.GetStores().OverrideRepo.Create(s.GetContext(), o))

	// customer_name is required by the base schema even though the override's
	// prompt never references it
	_, err := s.execute(map[string]interface{}{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Zero(s.GetGenerator().Calls())
}

func (s *ExecutionServiceSuite) TestPrivateTemplateRequiresAssignment() {
	private := &template.Template{
		ID:         "tmpl_private",
		Name:       "Internal",
		PromptText: "internal prompt",
		BaseModel:  types.GetDefaultBaseModel("user_admin"),
	}
	s.NoError(s.GetStores().TemplateRepo.Create(s.GetContext(), private))

	_, err := s.service.Execute(s.GetContext(), dto.ExecuteTemplateRequest{TemplateID: private.ID})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
	s.Zero(s.GetGenerator().Calls())

	s.GetStores().MembershipRepo.AssignTemplate("org_test", private.ID)

	_, err = s.service.Execute(s.GetContext(), dto.ExecuteTemplateRequest{TemplateID: private.ID})
	s.NoError(err)
}

func (s *ExecutionServiceSuite) TestOperatorBypassesAccessCheck() {
	private := &template.Template{
		ID:         "tmpl_private",
		Name:       "Internal",
		PromptText: "internal prompt",
		BaseModel:  types.GetDefaultBaseModel("user_admin"),
	}
	s.NoError(s.GetStores().TemplateRepo.Create(s.GetContext(), private))

	ctx := s.ContextFor("user_admin", "", types.UserRoleAdmin)
	_, err := s.service.Execute(ctx, dto.ExecuteTemplateRequest{TemplateID: private.ID})
	s.NoError(err)
}

func (s *ExecutionServiceSuite) TestUnknownTemplateIsNotFound() {
	_, err := s.service.Execute(s.GetContext(), dto.ExecuteTemplateRequest{TemplateID: "tmpl_missing"})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ExecutionServiceSuite) TestMissingTemplateIDFailsValidation() {
	_, err := s.service.Execute(s.GetContext(), dto.ExecuteTemplateRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ExecutionServiceSuite) TestListExecutionsDefaultsToCaller() {
	_, err := s.execute(map[string]interface{}{"customer_name": "Anna"})
	s.NoError(err)

	other := s.ContextFor("user_other", "org_test", types.UserRoleMember)
	resp, err := s.service.ListExecutions(other, nil)
	s.NoError(err)
	s.Empty(resp.Items)

	resp, err = s.service.ListExecutions(s.GetContext(), nil)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(1, resp.Pagination.Total)
}
