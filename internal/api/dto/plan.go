package dto

import (
	"github.com/docutask/docutask/internal/domain/plan"
)

// PlanResponse is the outward representation of a plan with its feature list
// decoded
type PlanResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	LookupKey   string      `json:"lookup_key"`
	Description string      `json:"description,omitempty"`
	Features    []string    `json:"features"`
	Limits      plan.Limits `json:"limits"`
	IsDefault   bool        `json:"is_default"`
}

func NewPlanResponse(p *plan.Plan) *PlanResponse {
	return &PlanResponse{
		ID:          p.ID,
		Name:        p.Name,
		LookupKey:   p.LookupKey,
		Description: p.Description,
		Features:    p.Features(),
		Limits:      p.Limits,
		IsDefault:   p.IsDefault,
	}
}

// ListPlansResponse lists the published plan catalog
type ListPlansResponse struct {
	Items []*PlanResponse `json:"items"`
}
