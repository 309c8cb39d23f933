package middleware

import (
	"context"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is a custom type for request context keys. Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	roleKey      = contextKey("role")
)

// GetUserIDFromContext retrieves the authenticated subject from the request context.
// For Telegram users this is the account ID; for admins it is the admin ID.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return UserIDFromCtx(c.Request.Context())
}

// UserIDFromCtx retrieves the authenticated subject from a standard context.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetRoleFromContext retrieves the role carried by the access token.
func GetRoleFromContext(c *gin.Context) (domain.Role, bool) {
	role, ok := c.Request.Context().Value(roleKey).(domain.Role)
	return role, ok
}

// WithPrincipal stores the authenticated subject and role in ctx.
func WithPrincipal(ctx context.Context, userID string, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}
