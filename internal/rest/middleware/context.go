package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/docutask/docutask/internal/types"
)

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderUserID         = "X-User-ID"
	HeaderOrganizationID = "X-Organization-ID"
	HeaderUserRole       = "X-User-Role"
)

// ContextMiddleware lifts the authenticated identity headers, set by the
// gateway in front of this service, onto the request context. Authentication
// itself happens upstream.
func ContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
		}
		ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		if userID := c.GetHeader(HeaderUserID); userID != "" {
			ctx = context.WithValue(ctx, types.CtxUserID, userID)
			c.Set("user_id", userID)
		}
		if orgID := c.GetHeader(HeaderOrganizationID); orgID != "" {
			ctx = context.WithValue(ctx, types.CtxOrganizationID, orgID)
			c.Set("organization_id", orgID)
		}
		if role := c.GetHeader(HeaderUserRole); role != "" {
			ctx = context.WithValue(ctx, types.CtxUserRole, types.UserRole(role))
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
