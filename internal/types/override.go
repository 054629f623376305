package types

import (
	"fmt"
)

// OverrideTier identifies which cascade layer supplied the effective prompt
type OverrideTier string

const (
	OverrideTierUser         OverrideTier = "user"
	OverrideTierOrganization OverrideTier = "organization"
	OverrideTierGlobal       OverrideTier = "global"
	OverrideTierBase         OverrideTier = "base"
)

func (t OverrideTier) String() string {
	return string(t)
}

// OverrideScopeKind discriminates the owner scope of a template override
type OverrideScopeKind string

const (
	OverrideScopeUser         OverrideScopeKind = "user"
	OverrideScopeOrganization OverrideScopeKind = "organization"
	OverrideScopeGlobal       OverrideScopeKind = "global"
)

// OverrideScope is a tagged owner scope for override lookups. Exactly one of
// the owner ids is set for user/organization scopes; both are empty for the
// global scope. This replaces ad-hoc nullable-column triples at call sites.
type OverrideScope struct {
	Kind           OverrideScopeKind
	UserID         string
	OrganizationID string
}

// UserScope returns the scope of overrides owned by a single user
func UserScope(userID string) OverrideScope {
	return OverrideScope{Kind: OverrideScopeUser, UserID: userID}
}

// OrganizationScope returns the scope of overrides owned by an organization
// with no user owner
func OrganizationScope(organizationID string) OverrideScope {
	return OverrideScope{Kind: OverrideScopeOrganization, OrganizationID: organizationID}
}

// GlobalScope returns the platform-wide scope with no owner
func GlobalScope() OverrideScope {
	return OverrideScope{Kind: OverrideScopeGlobal}
}

// Tier maps the scope to the cascade tier it serves
func (s OverrideScope) Tier() OverrideTier {
	switch s.Kind {
	case OverrideScopeUser:
		return OverrideTierUser
	case OverrideScopeOrganization:
		return OverrideTierOrganization
	default:
		return OverrideTierGlobal
	}
}

func (s OverrideScope) Validate() error {
	switch s.Kind {
	case OverrideScopeUser:
		if s.UserID == "" {
			return fmt.Errorf("user scope requires a user id")
		}
	case OverrideScopeOrganization:
		if s.OrganizationID == "" {
			return fmt.Errorf("organization scope requires an organization id")
		}
	case OverrideScopeGlobal:
		if s.UserID != "" || s.OrganizationID != "" {
			return fmt.Errorf("global scope must not carry owner ids")
		}
	default:
		return fmt.Errorf("unknown override scope kind %q", s.Kind)
	}
	return nil
}

func (s OverrideScope) String() string {
	switch s.Kind {
	case OverrideScopeUser:
		return fmt.Sprintf("user:%s", s.UserID)
	case OverrideScopeOrganization:
		return fmt.Sprintf("organization:%s", s.OrganizationID)
	default:
		return "global"
	}
}
