package service

import (
	"time"

	"github.com/docutask/docutask/internal/cache"
	"github.com/docutask/docutask/internal/config"
	"github.com/docutask/docutask/internal/domain/document"
	"github.com/docutask/docutask/internal/domain/execution"
	"github.com/docutask/docutask/internal/domain/membership"
	"github.com/docutask/docutask/internal/domain/plan"
	"github.com/docutask/docutask/internal/domain/subscription"
	"github.com/docutask/docutask/internal/domain/template"
	"github.com/docutask/docutask/internal/domain/usage"
	"github.com/docutask/docutask/internal/generation"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	TemplateRepo     template.Repository
	OverrideRepo     template.OverrideRepository
	PlanRepo         plan.Repository
	SubscriptionRepo subscription.Repository
	UsageRepo        usage.Repository
	DocumentRepo     document.Repository
	MembershipRepo   membership.Repository
	ExecutionRepo    execution.Repository

	Generator generation.Service
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
