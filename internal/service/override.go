package service

import (
	"context"
	"strings"

	"github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

// EffectivePrompt is the outcome of the override cascade: the prompt text to
// run, which layer supplied it and, when an override was selected, a pending
// usage touch the caller commits once generation actually succeeds. Deferring
// the touch keeps usage counters from counting overrides that were resolved
// but never used because a later step failed.
type EffectivePrompt struct {
	PromptText string
	OverrideID string
	Tier       types.OverrideTier

	pendingTouch bool
}

// OverrideService resolves the effective prompt for a template and subscriber
type OverrideService interface {
	// ResolveEffectivePrompt walks the cascade layers in priority order:
	// user override, organization override (members only), global override,
	// base template text. When nothing matches for an authenticated
	// subscriber, a user-scoped copy of the base template is materialized for
	// future calls while the current call still runs the base text.
	ResolveEffectivePrompt(ctx context.Context, tmpl *template.Template, userID, organizationID string) (*EffectivePrompt, error)

	// CommitUsage applies the pending usage touch of a resolved override.
	// It is a no-op for base-tier resolutions.
	CommitUsage(ctx context.Context, ep *EffectivePrompt) error
}

type overrideService struct {
	ServiceParams
}

func NewOverrideService(params ServiceParams) OverrideService {
	return &overrideService{ServiceParams: params}
}

func (s *overrideService) ResolveEffectivePrompt(ctx context.Context, tmpl *template.Template, userID, organizationID string) (*EffectivePrompt, error) {
	if strings.TrimSpace(tmpl.PromptText) == "" {
		return nil, ierr.NewError("template has no prompt text configured").
			WithHint("This task is not configured yet, please contact support").
			WithReportableDetails(map[string]interface{}{
				"template_id": tmpl.ID,
			}).
			Mark(ierr.ErrNotConfigured)
	}

	return s.resolve(ctx, tmpl, userID, organizationID, true)
}

// resolve walks the scope cascade. materialize guards the single re-resolve
// after losing the duplicate-insert race so the fallback cannot recurse.
func (s *overrideService) resolve(ctx context.Context, tmpl *template.Template, userID, organizationID string, materialize bool) (*EffectivePrompt, error) {
	scopes, err := s.scopeCascade(ctx, userID, organizationID)
	if err != nil {
		return nil, err
	}

	for _, scope := range scopes {
		o, err := s.OverrideRepo.GetActiveByScope(ctx, tmpl.ID, scope)
		if err != nil {
			if ierr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		return &EffectivePrompt{
			PromptText:   o.PromptText,
			OverrideID:   o.ID,
			Tier:         scope.Tier(),
			pendingTouch: true,
		}, nil
	}

	// No override at any tier. Authenticated subscribers get a user-scoped
	// copy materialized so their future customizations never affect other
	// subscribers; the current call still runs the original base text.
	if userID != "" && materialize {
		return s.materializeUserOverride(ctx, tmpl, userID, organizationID)
	}

	return &EffectivePrompt{
		PromptText: tmpl.PromptText,
		Tier:       types.OverrideTierBase,
	}, nil
}

// scopeCascade builds the ordered list of scopes to try. The organization
// tier is only consulted when the subscriber actually belongs to the
// organization they claim.
func (s *overrideService) scopeCascade(ctx context.Context, userID, organizationID string) ([]types.OverrideScope, error) {
	scopes := make([]types.OverrideScope, 0, 3)
	if userID != "" {
		scopes = append(scopes, types.UserScope(userID))
	}
	if organizationID != "" && userID != "" {
		member, err := s.MembershipRepo.IsMember(ctx, userID, organizationID)
		if err != nil {
			return nil, err
		}
		if member {
			scopes = append(scopes, types.OrganizationScope(organizationID))
		}
	}
	scopes = append(scopes, types.GlobalScope())
	return scopes, nil
}

func (s *overrideService) materializeUserOverride(ctx context.Context, tmpl *template.Template, userID, organizationID string) (*EffectivePrompt, error) {
	o := template.NewUserOverride(tmpl, userID)

	err := s.createOverride(ctx, o)
	if ierr.IsAlreadyExists(err) {
		// A concurrent first-time execution won the insert race. The unique
		// index on the owner scope is the source of truth here: re-resolve
		// and use whatever the winner created.
		s.Logger.Debugw("lost override materialization race, re-resolving",
			"template_id", tmpl.ID, "user_id", userID)
		return s.resolve(ctx, tmpl, userID, organizationID, false)
	}
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("materialized user override",
		"template_id", tmpl.ID, "user_id", userID, "override_id", o.ID)

	// Tier stays base for this call: the copy only serves from the next
	// call onward. Usage was seeded at 1 on insert, so nothing is pending.
	return &EffectivePrompt{
		PromptText: tmpl.PromptText,
		OverrideID: o.ID,
		Tier:       types.OverrideTierBase,
	}, nil
}

// createOverride inserts the override, holding an advisory lock around the
// insert when a database client is available. The lock narrows the race
// window; the partial unique index remains the actual invariant.
func (s *overrideService) createOverride(ctx context.Context, o *template.Override) error {
	if s.DB == nil {
		return s.OverrideRepo.Create(ctx, o)
	}

	return s.DB.WithTx(ctx, func(txCtx context.Context) error {
		key := types.GenerateLockKey(txCtx, types.LockScopeOverrideMaterialize, map[string]interface{}{
			"template_id": o.TemplateID,
		})
		if err := s.DB.LockKey(txCtx, types.LockRequest{Key: key}); err != nil {
			s.Logger.Warnw("failed to acquire materialization lock", "error", err)
		}
		return s.OverrideRepo.Create(txCtx, o)
	})
}

func (s *overrideService) CommitUsage(ctx context.Context, ep *EffectivePrompt) error {
	if ep == nil || !ep.pendingTouch || ep.OverrideID == "" {
		return nil
	}
	return s.OverrideRepo.TouchUsage(ctx, ep.OverrideID, nowUTC())
}
