package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/docutask/docutask/internal/api/v1"
	"github.com/docutask/docutask/internal/config"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/rest/middleware"
)

// Handlers bundles the v1 handlers for router construction
type Handlers struct {
	Template  *v1.TemplateHandler
	Execution *v1.ExecutionHandler
	Usage     *v1.UsageHandler
	Plan      *v1.PlanHandler
}

// NewRouter builds the gin engine with the standard middleware chain
func NewRouter(cfg *config.Configuration, log *logger.Logger, h Handlers) *gin.Engine {
	if cfg.Deployment.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ContextMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/v1")
	{
		api.GET("/templates", h.Template.ListTemplates)
		api.GET("/templates/:id", h.Template.GetTemplate)
		api.POST("/templates/:id/execute", h.Execution.ExecuteTemplate)
		api.GET("/executions", h.Execution.ListExecutions)
		api.GET("/usage/current", h.Usage.GetCurrentUsage)
		api.GET("/plans", h.Plan.ListPlans)
	}

	return router
}
