package types

import (
	"context"
)

type ContextKey string

const (
	CtxUserID         ContextKey = "ctx_user_id"
	CtxOrganizationID ContextKey = "ctx_organization_id"
	CtxUserRole       ContextKey = "ctx_user_role"
	CtxRequestID      ContextKey = "ctx_request_id"
)

// GetUserID returns the authenticated user id from the context or ""
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxUserID).(string); ok {
		return id
	}
	return ""
}

// GetOrganizationID returns the caller's organization id from the context or ""
func GetOrganizationID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxOrganizationID).(string); ok {
		return id
	}
	return ""
}

// GetUserRole returns the caller's role from the context, defaulting to member
func GetUserRole(ctx context.Context) UserRole {
	if role, ok := ctx.Value(CtxUserRole).(UserRole); ok {
		return role
	}
	return UserRoleMember
}

// GetRequestID returns the request id from the context or ""
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxRequestID).(string); ok {
		return id
	}
	return ""
}
