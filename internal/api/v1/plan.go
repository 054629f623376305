package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/service"
)

type PlanHandler struct {
	planResolver service.PlanResolver
	log          *logger.Logger
}

func NewPlanHandler(planResolver service.PlanResolver, log *logger.Logger) *PlanHandler {
	return &PlanHandler{planResolver: planResolver, log: log}
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	resp, err := h.planResolver.ListPlans(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
