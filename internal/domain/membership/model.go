package membership

import (
	"github.com/docutask/docutask/internal/types"
)

// OrganizationMember records a user's membership in an organization.
// The engine reads these relations and never mutates them.
type OrganizationMember struct {
	OrganizationID string         `json:"organization_id"`
	UserID         string         `json:"user_id"`
	Role           types.UserRole `json:"role"`
	types.BaseModel
}

// TemplateAssignment grants an organization's members access to a template
type TemplateAssignment struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	TemplateID     string `json:"template_id"`
	types.BaseModel
}
