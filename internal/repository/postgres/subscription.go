package postgres

import (
	"context"
	"database/sql"

	domainSubscription "github.com/docutask/docutask/internal/domain/subscription"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
	"github.com/docutask/docutask/internal/postgres"
	"github.com/docutask/docutask/internal/types"
)

type subscriptionRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewSubscriptionRepository creates a postgres-backed subscription repository
func NewSubscriptionRepository(client postgres.IClient, logger *logger.Logger) domainSubscription.Repository {
	return &subscriptionRepository{client: client, logger: logger}
}

const subscriptionColumns = `
	id, user_id, plan_id, subscription_status, valid_until,
	status, created_at, updated_at, created_by, updated_by
`

func (r *subscriptionRepository) Create(ctx context.Context, s *domainSubscription.Subscription) error {
	r.logger.Debugw("creating subscription", "user_id", s.UserID, "plan_id", s.PlanID)

	if err := s.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.client.Querier(ctx).ExecContext(ctx, query,
		s.ID, s.UserID, s.PlanID, s.SubscriptionStatus, s.ValidUntil,
		s.Status, s.CreatedAt, s.UpdatedAt, s.CreatedBy, s.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("The user already has a subscription").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create subscription").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID string) (*domainSubscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC LIMIT 1`
	row := r.client.Querier(ctx).QueryRowContext(ctx, query, userID, types.StatusPublished)

	var s domainSubscription.Subscription
	var validUntil sql.NullTime
	err := row.Scan(
		&s.ID, &s.UserID, &s.PlanID, &s.SubscriptionStatus, &validUntil,
		&s.Status, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy, &s.UpdatedBy,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("subscription not found").
			WithReportableDetails(map[string]interface{}{
				"user_id": userID,
			}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription").
			Mark(ierr.ErrDatabase)
	}

	if validUntil.Valid {
		s.ValidUntil = &validUntil.Time
	}
	return &s, nil
}
