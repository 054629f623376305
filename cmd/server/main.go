package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"

	v1 "github.com/docutask/docutask/internal/api/v1"
	"github.com/docutask/docutask/internal/cache"
	"github.com/docutask/docutask/internal/config"
	"github.com/docutask/docutask/internal/generation"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
	"github.com/docutask/docutask/internal/repository"
	"github.com/docutask/docutask/internal/rest"
	"github.com/docutask/docutask/internal/service"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			providePostgresClient,
			cache.Initialize,
			repository.NewRepositories,
			generation.NewOpenAIService,
			provideServiceParams,
			service.NewTemplateService,
			service.NewPlanResolver,
			service.NewEntitlementService,
			service.NewExecutionService,
			v1.NewTemplateHandler,
			v1.NewExecutionHandler,
			v1.NewUsageHandler,
			v1.NewPlanHandler,
			provideRouter,
		),
		fx.Invoke(runMigrations),
		fx.Invoke(startServer),
	)

	app.Run()
}

func providePostgresClient(cfg *config.Configuration, log *logger.Logger) (postgres.IClient, error) {
	return postgres.NewClient(cfg, log)
}

func provideServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	client postgres.IClient,
	cacheClient cache.Cache,
	repos *repository.Repositories,
	generator generation.Service,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		DB:               client,
		Cache:            cacheClient,
		TemplateRepo:     repos.Template,
		OverrideRepo:     repos.Override,
		PlanRepo:         repos.Plan,
		SubscriptionRepo: repos.Subscription,
		UsageRepo:        repos.Usage,
		DocumentRepo:     repos.Document,
		MembershipRepo:   repos.Membership,
		ExecutionRepo:    repos.Execution,
		Generator:        generator,
	}
}

func provideRouter(
	cfg *config.Configuration,
	log *logger.Logger,
	templateHandler *v1.TemplateHandler,
	executionHandler *v1.ExecutionHandler,
	usageHandler *v1.UsageHandler,
	planHandler *v1.PlanHandler,
) *gin.Engine {
	return rest.NewRouter(cfg, log, rest.Handlers{
		Template:  templateHandler,
		Execution: executionHandler,
		Usage:     usageHandler,
		Plan:      planHandler,
	})
}

func runMigrations(cfg *config.Configuration, client postgres.IClient, log *logger.Logger) error {
	if !cfg.Postgres.AutoMigrate {
		log.Infow("auto migrate disabled, skipping migrations")
		return nil
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(client.DB(), "migrations"); err != nil {
		return err
	}
	log.Infow("migrations applied")
	return nil
}

func startServer(lc fx.Lifecycle, cfg *config.Configuration, engine *gin.Engine, log *logger.Logger) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow("starting HTTP server", "address", cfg.Server.Address)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalw("failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
