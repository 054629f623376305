package repository

import (
	"github.com/docutask/docutask/internal/domain/document"
	"github.com/docutask/docutask/internal/domain/execution"
	"github.com/docutask/docutask/internal/domain/membership"
	"github.com/docutask/docutask/internal/domain/plan"
	"github.com/docutask/docutask/internal/domain/subscription"
	"github.com/docutask/docutask/internal/domain/template"
	"github.com/docutask/docutask/internal/domain/usage"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
	pgrepo "github.com/docutask/docutask/internal/repository/postgres"
)

// Repositories bundles every persistence interface for injection
type Repositories struct {
	Template     template.Repository
	Override     template.OverrideRepository
	Plan         plan.Repository
	Subscription subscription.Repository
	Usage        usage.Repository
	Document     document.Repository
	Membership   membership.Repository
	Execution    execution.Repository
}

// NewRepositories wires the postgres-backed repository set
func NewRepositories(client postgres.IClient, log *logger.Logger) *Repositories {
	return &Repositories{
		Template:     pgrepo.NewTemplateRepository(client, log),
		Override:     pgrepo.NewOverrideRepository(client, log),
		Plan:         pgrepo.NewPlanRepository(client, log),
		Subscription: pgrepo.NewSubscriptionRepository(client, log),
		Usage:        pgrepo.NewUsageRepository(client, log),
		Document:     pgrepo.NewDocumentRepository(client, log),
		Membership:   pgrepo.NewMembershipRepository(client, log),
		Execution:    pgrepo.NewExecutionRepository(client, log),
	}
}
