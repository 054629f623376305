package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/docutask/docutask/internal/cache"
	"github.com/docutask/docutask/internal/config"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/types"
)

// Stores bundles every in-memory repository for service tests
type Stores struct {
	TemplateRepo     *InMemoryTemplateStore
	OverrideRepo     *InMemoryOverrideStore
	PlanRepo         *InMemoryPlanStore
	SubscriptionRepo *InMemorySubscriptionStore
	UsageRepo        *InMemoryUsageStore
	DocumentRepo     *InMemoryDocumentStore
	MembershipRepo   *InMemoryMembershipStore
	ExecutionRepo    *InMemoryExecutionStore
}

// BaseServiceTestSuite provides common setup for service layer tests:
// in-memory stores, a stub generation backend and a context carrying a
// default authenticated user.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	cfg       *config.Configuration
	log       *logger.Logger
	stores    Stores
	generator *StubGenerationService
	cache     cache.Cache
}

// SetupTest initializes fresh stores before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.cfg = config.GetDefaultConfig()
	s.log = logger.GetLogger()
	cache.InitializeInMemoryCache()
	s.cache = cache.GetInMemoryCache()
	s.cache.Flush(context.Background())
	s.generator = NewStubGenerationService()
	s.stores = Stores{
		TemplateRepo:     NewInMemoryTemplateStore(),
		OverrideRepo:     NewInMemoryOverrideStore(),
		PlanRepo:         NewInMemoryPlanStore(),
		SubscriptionRepo: NewInMemorySubscriptionStore(),
		UsageRepo:        NewInMemoryUsageStore(),
		DocumentRepo:     NewInMemoryDocumentStore(),
		MembershipRepo:   NewInMemoryMembershipStore(),
		ExecutionRepo:    NewInMemoryExecutionStore(),
	}
	s.ctx = s.ContextFor("user_test", "org_test", types.UserRoleMember)
}

// TearDownTest clears all stores after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

// ContextFor builds a context carrying the given identity
func (s *BaseServiceTestSuite) ContextFor(userID, organizationID string, role types.UserRole) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxUserID, userID)
	ctx = context.WithValue(ctx, types.CtxOrganizationID, organizationID)
	ctx = context.WithValue(ctx, types.CtxUserRole, role)
	return ctx
}

// GetContext returns the suite's default member context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetGenerator() *StubGenerationService {
	return s.generator
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// ClearStores empties every store
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.TemplateRepo.Clear()
	s.stores.OverrideRepo.Clear()
	s.stores.PlanRepo.Clear()
	s.stores.SubscriptionRepo.Clear()
	s.stores.UsageRepo.Clear()
	s.stores.DocumentRepo.Clear()
	s.stores.MembershipRepo.Clear()
	s.stores.ExecutionRepo.Clear()
}
