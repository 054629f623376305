package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/service"
	"github.com/docutask/docutask/internal/types"
)

type UsageHandler struct {
	entitlements service.EntitlementService
	log          *logger.Logger
}

func NewUsageHandler(entitlements service.EntitlementService, log *logger.Logger) *UsageHandler {
	return &UsageHandler{entitlements: entitlements, log: log}
}

// GetCurrentUsage reports this month's consumption against the caller's plan.
// An explicit ?period=YYYY-MM query selects a past month.
func (h *UsageHandler) GetCurrentUsage(c *gin.Context) {
	ctx := c.Request.Context()
	userID := types.GetUserID(ctx)
	if userID == "" {
		c.Error(ierr.NewError("user identity missing").
			WithHint("Sign in to view usage").
			Mark(ierr.ErrPermissionDenied))
		return
	}

	periodKey := types.CurrentPeriodKey()
	if period := c.Query("period"); period != "" {
		periodKey = types.PeriodKey(period)
		if err := periodKey.Validate(); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Period must be formatted YYYY-MM").
				Mark(ierr.ErrValidation))
			return
		}
	}

	resp, err := h.entitlements.GetUsageSummary(ctx, userID, periodKey)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
