package dto

import (
	"github.com/shopspring/decimal"

	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

// ExecuteTemplateRequest is the single execution entry point's payload
type ExecuteTemplateRequest struct {
	TemplateID  string                 `json:"template_id" validate:"required"`
	Variables   map[string]interface{} `json:"variables"`
	DocumentIDs []string               `json:"document_ids,omitempty"`
}

func (r *ExecuteTemplateRequest) Validate() error {
	if err := Validator().Struct(r); err != nil {
		return ierr.WithError(err).
			WithHint("template_id is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ExecuteTemplateResponse returns the generated text plus execution metadata
type ExecuteTemplateResponse struct {
	ExecutionID  string             `json:"execution_id"`
	Output       string             `json:"output"`
	Tier         types.OverrideTier `json:"tier"`
	OverrideID   string             `json:"override_id,omitempty"`
	InputTokens  int64              `json:"input_tokens"`
	OutputTokens int64              `json:"output_tokens"`
	Cost         decimal.Decimal    `json:"cost"`
	ElapsedMs    int64              `json:"elapsed_ms"`
}
