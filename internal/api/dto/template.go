package dto

import (
	"github.com/docutask/docutask/internal/domain/template"
	"github.com/docutask/docutask/internal/types"
)

// TemplateResponse is the outward representation of a base template. The raw
// prompt text is operator-facing and deliberately not exposed here.
type TemplateResponse struct {
	ID               string                     `json:"id"`
	Name             string                     `json:"name"`
	LookupKey        string                     `json:"lookup_key"`
	Description      string                     `json:"description,omitempty"`
	Fields           []template.FieldDescriptor `json:"fields"`
	RequiresDocument bool                       `json:"requires_document"`
	Public           bool                       `json:"public"`
}

func NewTemplateResponse(t *template.Template) *TemplateResponse {
	return &TemplateResponse{
		ID:               t.ID,
		Name:             t.Name,
		LookupKey:        t.LookupKey,
		Description:      t.Description,
		Fields:           t.Fields,
		RequiresDocument: t.RequiresDocument,
		Public:           t.Public,
	}
}

// ListTemplatesResponse lists templates with pagination
type ListTemplatesResponse struct {
	Items      []*TemplateResponse      `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
