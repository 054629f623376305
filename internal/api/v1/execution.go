package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docutask/docutask/internal/api/dto"
	"github.com/docutask/docutask/internal/domain/execution"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/service"
	"github.com/docutask/docutask/internal/types"
)

type ExecutionHandler struct {
	executionService service.ExecutionService
	log              *logger.Logger
}

func NewExecutionHandler(executionService service.ExecutionService, log *logger.Logger) *ExecutionHandler {
	return &ExecutionHandler{executionService: executionService, log: log}
}

// ExecuteTemplate runs a template with the supplied variables and documents
func (h *ExecutionHandler) ExecuteTemplate(c *gin.Context) {
	var req dto.ExecuteTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}
	req.TemplateID = c.Param("id")

	if types.GetUserID(c.Request.Context()) == "" {
		c.Error(ierr.NewError("user identity missing").
			WithHint("Sign in to run tasks").
			Mark(ierr.ErrPermissionDenied))
		return
	}

	resp, err := h.executionService.Execute(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ExecutionHandler) ListExecutions(c *gin.Context) {
	var query types.QueryFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid pagination parameters").
			Mark(ierr.ErrValidation))
		return
	}

	filter := &execution.Filter{
		QueryFilter: &query,
		TemplateID:  c.Query("template_id"),
		PeriodKey:   types.PeriodKey(c.Query("period")),
	}

	resp, err := h.executionService.ListExecutions(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
