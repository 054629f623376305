package types

// UserRole is the platform role of the acting user
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleOwner  UserRole = "owner"
	UserRoleMember UserRole = "member"
)

// IsOperator reports whether the role bypasses template access checks.
// Platform operators may execute any template regardless of assignment.
func (r UserRole) IsOperator() bool {
	return r == UserRoleAdmin || r == UserRoleOwner
}

// SubscriptionStatus is the lifecycle status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// IsUsable reports whether a subscription in this status still grants its plan
func (s SubscriptionStatus) IsUsable() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrial
}
