package dto

import (
	"github.com/shopspring/decimal"

	"github.com/docutask/docutask/internal/domain/plan"
	"github.com/docutask/docutask/internal/domain/usage"
	"github.com/docutask/docutask/internal/types"
)

// LimitStatus pairs a counter with its plan limit and remaining headroom
type LimitStatus struct {
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
	Unlimited bool  `json:"unlimited"`
}

// UsageSummaryResponse is the current period's consumption against the
// resolved plan
type UsageSummaryResponse struct {
	PeriodKey           types.PeriodKey `json:"period_key"`
	PlanID              string          `json:"plan_id"`
	PlanName            string          `json:"plan_name"`
	Tasks               LimitStatus     `json:"tasks"`
	Storage             LimitStatus     `json:"storage"`
	DocumentsUploaded   int64           `json:"documents_uploaded"`
	DocumentsDownloaded int64           `json:"documents_downloaded"`
	InputTokens         int64           `json:"input_tokens"`
	OutputTokens        int64           `json:"output_tokens"`
	Cost                decimal.Decimal `json:"cost"`
}

func NewUsageSummaryResponse(rec *usage.PeriodRecord, p *plan.Plan) *UsageSummaryResponse {
	return &UsageSummaryResponse{
		PeriodKey:           rec.PeriodKey,
		PlanID:              p.ID,
		PlanName:            p.Name,
		Tasks:               newLimitStatus(rec.TasksUsed, p.Limits.Tasks),
		Storage:             newLimitStatus(rec.StorageUsedBytes, p.Limits.StorageBytes),
		DocumentsUploaded:   rec.DocumentsUploaded,
		DocumentsDownloaded: rec.DocumentsDownloaded,
		InputTokens:         rec.InputTokens,
		OutputTokens:        rec.OutputTokens,
		Cost:                rec.Cost,
	}
}

func newLimitStatus(used, limit int64) LimitStatus {
	if limit == types.UnlimitedSentinel {
		return LimitStatus{Used: used, Limit: limit, Unlimited: true}
	}
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return LimitStatus{Used: used, Limit: limit, Remaining: remaining}
}
