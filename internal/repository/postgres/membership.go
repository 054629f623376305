package postgres

import (
	"context"

	domainMembership "github.com/docutask/docutask/internal/domain/membership"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
	"github.com/docutask/docutask/internal/types"
)

type membershipRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewMembershipRepository creates the read-only access/membership repository
func NewMembershipRepository(client postgres.IClient, logger *logger.Logger) domainMembership.Repository {
	return &membershipRepository{client: client, logger: logger}
}

func (r *membershipRepository) IsMember(ctx context.Context, userID, organizationID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM organization_members
		WHERE user_id = $1 AND organization_id = $2 AND status = $3
	)`

	var exists bool
	err := r.client.Querier(ctx).QueryRowContext(ctx, query, userID, organizationID, types.StatusPublished).Scan(&exists)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to check organization membership").
			Mark(ierr.ErrDatabase)
	}
	return exists, nil
}

func (r *membershipRepository) HasActiveAssignment(ctx context.Context, organizationID, templateID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM template_assignments
		WHERE organization_id = $1 AND template_id = $2 AND status = $3
	)`

	var exists bool
	err := r.client.Querier(ctx).QueryRowContext(ctx, query, organizationID, templateID, types.StatusPublished).Scan(&exists)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to check template assignment").
			Mark(ierr.ErrDatabase)
	}
	return exists, nil
}
