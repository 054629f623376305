package execution

import (
	"github.com/shopspring/decimal"

	"github.com/docutask/docutask/internal/types"
)

// ExecutionStatus is the terminal state of a template execution
type ExecutionStatus string

const (
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusRejected  ExecutionStatus = "rejected"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Execution is the persisted record of one template run. Rejected and failed
// runs are recorded too, without any usage side effects.
type Execution struct {
	ID             string             `json:"id"`
	TemplateID     string             `json:"template_id"`
	OverrideID     string             `json:"override_id,omitempty"`
	Tier           types.OverrideTier `json:"tier"`
	UserID         string             `json:"user_id"`
	OrganizationID string             `json:"organization_id,omitempty"`
	PeriodKey      types.PeriodKey    `json:"period_key"`
	InputTokens    int64              `json:"input_tokens"`
	OutputTokens   int64              `json:"output_tokens"`
	Cost           decimal.Decimal    `json:"cost"`
	DurationMs     int64              `json:"duration_ms"`
	ExecStatus     ExecutionStatus    `json:"execution_status"`
	ErrorCode      string             `json:"error_code,omitempty"`
	types.BaseModel
}
