package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/docutask/docutask/internal/api/dto"
	"github.com/docutask/docutask/internal/domain/execution"
	"github.com/docutask/docutask/internal/domain/template"
	"github.com/docutask/docutask/internal/domain/usage"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/generation"
	"github.com/docutask/docutask/internal/types"
)

// ExecutionService is the top-level operation: it validates access, enforces
// the task limit, resolves the effective prompt through the override cascade,
// interpolates variables and document text, invokes the generation call and
// meters consumption only after it succeeds.
type ExecutionService interface {
	Execute(ctx context.Context, req dto.ExecuteTemplateRequest) (*dto.ExecuteTemplateResponse, error)
	ListExecutions(ctx context.Context, filter *execution.Filter) (*dto.ListExecutionsResponse, error)
}

type executionService struct {
	ServiceParams
	overrides    OverrideService
	entitlements EntitlementService

	now func() time.Time
}

func NewExecutionService(params ServiceParams) ExecutionService {
	return &executionService{
		ServiceParams: params,
		overrides:     NewOverrideService(params),
		entitlements:  NewEntitlementService(params),
		now:           time.Now,
	}
}

func (s *executionService) Execute(ctx context.Context, req dto.ExecuteTemplateRequest) (*dto.ExecuteTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := s.now()
	// The period key is computed once here and threaded through every ledger
	// call for this request.
	periodKey := types.NewPeriodKey(start)

	userID := types.GetUserID(ctx)
	orgID := types.GetOrganizationID(ctx)
	role := types.GetUserRole(ctx)

	tmpl, err := s.TemplateRepo.Get(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	run := &executionRun{
		template:  tmpl,
		userID:    userID,
		orgID:     orgID,
		periodKey: periodKey,
		start:     start,
	}

	// AccessCheck
	if err := s.checkAccess(ctx, tmpl, userID, orgID, role); err != nil {
		s.recordOutcome(ctx, run, execution.ExecutionStatusRejected, err)
		return nil, err
	}

	// LimitCheck
	decision, err := s.entitlements.CheckLimit(ctx, userID, periodKey, types.LimitKeyTasks)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		err := ierr.NewError("monthly task limit reached").
			WithHintf("You have used %d of %d tasks this month. Upgrade your plan to continue.",
				decision.Used, decision.Limit).
			WithReportableDetails(map[string]interface{}{
				"used":      decision.Used,
				"limit":     decision.Limit,
				"remaining": decision.Remaining,
			}).
			Mark(ierr.ErrLimitExceeded)
		s.recordOutcome(ctx, run, execution.ExecutionStatusRejected, err)
		return nil, err
	}

	// PromptResolution
	effective, err := s.overrides.ResolveEffectivePrompt(ctx, tmpl, userID, orgID)
	if err != nil {
		s.recordOutcome(ctx, run, execution.ExecutionStatusFailed, err)
		return nil, err
	}
	run.effective = effective

	// Interpolation: required fields are validated against the base
	// template's schema before anything is substituted or generated
	if err := ValidateRequiredFields(tmpl, req.Variables); err != nil {
		s.recordOutcome(ctx, run, execution.ExecutionStatusFailed, err)
		return nil, err
	}

	docText, err := s.loadDocumentText(ctx, req.DocumentIDs)
	if err != nil {
		s.recordOutcome(ctx, run, execution.ExecutionStatusFailed, err)
		return nil, err
	}

	prompt := Interpolate(effective.PromptText, req.Variables, docText)

	// Generation: an opaque external call. On failure nothing is metered.
	result, err := s.Generator.Generate(ctx, generation.Request{Prompt: prompt})
	if err != nil {
		if !ierr.IsGeneration(err) && !ierr.IsValidation(err) {
			err = ierr.WithError(err).
				WithHint("Text generation failed, please try again").
				Mark(ierr.ErrGeneration)
		}
		s.recordOutcome(ctx, run, execution.ExecutionStatusFailed, err)
		return nil, err
	}
	run.result = result

	// Metering: only after a successful generation. The override usage touch
	// is committed here too, so counters never count overrides whose
	// execution failed downstream of resolution.
	if err := s.meter(ctx, run); err != nil {
		s.Logger.Errorw("metering failed after successful generation",
			"template_id", tmpl.ID, "user_id", userID, "error", err)
		return nil, err
	}

	elapsed := s.now().Sub(start).Milliseconds()
	return &dto.ExecuteTemplateResponse{
		ExecutionID:  run.executionID,
		Output:       result.Output,
		Tier:         effective.Tier,
		OverrideID:   effective.OverrideID,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		Cost:         result.Cost,
		ElapsedMs:    elapsed,
	}, nil
}

// executionRun carries per-request state across the orchestrator's steps
type executionRun struct {
	template    *template.Template
	userID      string
	orgID       string
	periodKey   types.PeriodKey
	start       time.Time
	effective   *EffectivePrompt
	result      *generation.Result
	executionID string
}

// checkAccess implements the AccessCheck state: operators bypass, otherwise
// the template must be public or the subscriber's organization must hold an
// active assignment of it.
func (s *executionService) checkAccess(ctx context.Context, tmpl *template.Template, userID, orgID string, role types.UserRole) error {
	if role.IsOperator() {
		return nil
	}
	if tmpl.Public {
		return nil
	}

	if userID == "" || orgID == "" {
		return s.forbidden(tmpl.ID)
	}

	member, err := s.MembershipRepo.IsMember(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if !member {
		return s.forbidden(tmpl.ID)
	}

	assigned, err := s.MembershipRepo.HasActiveAssignment(ctx, orgID, tmpl.ID)
	if err != nil {
		return err
	}
	if !assigned {
		return s.forbidden(tmpl.ID)
	}
	return nil
}

func (s *executionService) forbidden(templateID string) error {
	return ierr.NewError("template is not accessible").
		WithHint("You do not have access to this task").
		WithReportableDetails(map[string]interface{}{
			"template_id": templateID,
		}).
		Mark(ierr.ErrPermissionDenied)
}

// loadDocumentText fetches the referenced documents and joins their extracted
// text. Missing documents or empty text are not errors.
func (s *executionService) loadDocumentText(ctx context.Context, ids []string) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}
	docs, err := s.DocumentRepo.ListByIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	return JoinDocumentText(docs), nil
}

// meter commits all consumption for a successful run: the override usage
// touch, the task and token counters, and the execution record. With a
// database client the whole step runs in one transaction so a mid-flight
// cancellation can never leave the ledger half-updated.
func (s *executionService) meter(ctx context.Context, run *executionRun) error {
	commit := func(ctx context.Context) error {
		if err := s.overrides.CommitUsage(ctx, run.effective); err != nil {
			// The usage counter on the override is informational; losing one
			// touch is preferable to failing a successful generation.
			s.Logger.Warnw("failed to touch override usage",
				"override_id", run.effective.OverrideID, "error", err)
		}

		err := s.UsageRepo.AddUsage(ctx, run.userID, run.periodKey, run.orgID,
			usage.TaskDelta(1),
			usage.TokenDelta{
				InputTokens:  run.result.InputTokens,
				OutputTokens: run.result.OutputTokens,
				Cost:         run.result.Cost,
			},
		)
		if err != nil {
			return err
		}

		rec := s.newExecutionRecord(run, execution.ExecutionStatusCompleted, "")
		if err := s.ExecutionRepo.Create(ctx, rec); err != nil {
			return err
		}
		run.executionID = rec.ID
		return nil
	}

	if s.DB != nil {
		return s.DB.WithTx(ctx, commit)
	}
	return commit(ctx)
}

// recordOutcome persists a rejected or failed run. These records carry no
// usage side effects and their persistence failure never masks the original
// error.
func (s *executionService) recordOutcome(ctx context.Context, run *executionRun, status execution.ExecutionStatus, cause error) {
	rec := s.newExecutionRecord(run, status, ierr.ErrCodeFromErr(cause))
	if err := s.ExecutionRepo.Create(ctx, rec); err != nil {
		s.Logger.Errorw("failed to record execution outcome",
			"template_id", run.template.ID, "status", status, "error", err)
		return
	}
	run.executionID = rec.ID

	if !ierr.IsExpected(cause) {
		s.Logger.Errorw("execution failed",
			"template_id", run.template.ID,
			"user_id", run.userID,
			"status", status,
			"error", cause)
	}
}

func (s *executionService) newExecutionRecord(run *executionRun, status execution.ExecutionStatus, errCode string) *execution.Execution {
	rec := &execution.Execution{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EXECUTION),
		TemplateID:     run.template.ID,
		UserID:         run.userID,
		OrganizationID: run.orgID,
		PeriodKey:      run.periodKey,
		Tier:           types.OverrideTierBase,
		Cost:           decimal.Zero,
		DurationMs:     s.now().Sub(run.start).Milliseconds(),
		ExecStatus:     status,
		ErrorCode:      errCode,
		BaseModel:      types.GetDefaultBaseModel(run.userID),
	}
	if run.effective != nil {
		rec.Tier = run.effective.Tier
		rec.OverrideID = run.effective.OverrideID
	}
	if run.result != nil && status == execution.ExecutionStatusCompleted {
		rec.InputTokens = run.result.InputTokens
		rec.OutputTokens = run.result.OutputTokens
		rec.Cost = run.result.Cost
	}
	return rec
}

func (s *executionService) ListExecutions(ctx context.Context, filter *execution.Filter) (*dto.ListExecutionsResponse, error) {
	if filter == nil {
		filter = &execution.Filter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if filter.UserID == "" {
		filter.UserID = types.GetUserID(ctx)
	}

	executions, err := s.ExecutionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.ExecutionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ExecutionResponse, len(executions))
	for i, e := range executions {
		items[i] = dto.NewExecutionResponse(e)
	}
	return &dto.ListExecutionsResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.QueryFilter),
	}, nil
}
