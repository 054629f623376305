package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/service"
	"github.com/docutask/docutask/internal/types"
)

type TemplateHandler struct {
	templateService service.TemplateService
	log             *logger.Logger
}

func NewTemplateHandler(templateService service.TemplateService, log *logger.Logger) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, log: log}
}

func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	var query types.QueryFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid pagination parameters").
			Mark(ierr.ErrValidation))
		return
	}

	filter := &template.Filter{QueryFilter: &query}
	if !types.GetUserRole(c.Request.Context()).IsOperator() {
		filter.PublicOnly = true
	}

	resp, err := h.templateService.ListTemplates(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("template id is required").
			WithHint("Template ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.templateService.GetTemplate(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
