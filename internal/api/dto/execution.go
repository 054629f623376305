package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/docutask/docutask/internal/domain/execution"
	"github.com/docutask/docutask/internal/types"
)

// ExecutionResponse is the outward representation of an execution record
type ExecutionResponse struct {
	ID           string                    `json:"id"`
	TemplateID   string                    `json:"template_id"`
	Tier         types.OverrideTier        `json:"tier"`
	PeriodKey    types.PeriodKey           `json:"period_key"`
	InputTokens  int64                     `json:"input_tokens"`
	OutputTokens int64                     `json:"output_tokens"`
	Cost         decimal.Decimal           `json:"cost"`
	DurationMs   int64                     `json:"duration_ms"`
	Status       execution.ExecutionStatus `json:"status"`
	ErrorCode    string                    `json:"error_code,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
}

func NewExecutionResponse(e *execution.Execution) *ExecutionResponse {
	return &ExecutionResponse{
		ID:           e.ID,
		TemplateID:   e.TemplateID,
		Tier:         e.Tier,
		PeriodKey:    e.PeriodKey,
		InputTokens:  e.InputTokens,
		OutputTokens: e.OutputTokens,
		Cost:         e.Cost,
		DurationMs:   e.DurationMs,
		Status:       e.ExecStatus,
		ErrorCode:    e.ErrorCode,
		CreatedAt:    e.CreatedAt,
	}
}

// ListExecutionsResponse lists execution records with pagination
type ListExecutionsResponse struct {
	Items      []*ExecutionResponse     `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
