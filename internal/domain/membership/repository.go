package membership

import (
	"context"
)

// Repository is the read-only contract against the access/membership service
type Repository interface {
	// IsMember reports whether the user belongs to the organization
	IsMember(ctx context.Context, userID, organizationID string) (bool, error)

	// HasActiveAssignment reports whether the organization has an active
	// assignment of the template
	HasActiveAssignment(ctx context.Context, organizationID, templateID string) (bool, error)
}
