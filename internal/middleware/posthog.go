package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/reward_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// routeEvents names the analytics event of the routes that move money or change
// catalog state. Other routes are tracked under a name derived from the path.
var routeEvents = map[string]string{
	"POST /api/v1/me/onboard":                              "account_onboarded",
	"POST /api/v1/me/ad-sessions":                          "ad_session_started",
	"POST /api/v1/me/earnings":                             "earning_applied",
	"POST /api/v1/me/withdrawals":                          "withdrawal_requested",
	"POST /api/v1/admin/withdrawals/:withdrawalID/approve": "withdrawal_approved",
	"POST /api/v1/admin/withdrawals/:withdrawalID/reject":  "withdrawal_rejected",
	"POST /api/v1/admin/tasks":                             "task_created",
}

// pathsToSkip contains routes that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":                                  true,
	"/api/v1/admin/withdrawals/pending/stream": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks successful API calls with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip if PostHog is not initialized or the route is in the skip list
		if !posthogClient.IsInitialized() || pathsToSkip[c.FullPath()] {
			c.Next()
			return
		}

		// Process request first
		c.Next()

		// Rejected earnings and withdrawals are not product events
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Get the account or admin ID from context (set by auth middleware)
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			// Login routes run before a subject exists
			return
		}

		eventName := eventNameFor(c.Request.Method, c.FullPath())
		// Skip if event name is empty (e.g., for 404s)
		if eventName == "" {
			return
		}

		// Prepare event properties
		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if role, ok := GetRoleFromContext(c); ok {
			props["role"] = string(role)
		}

		// Add route parameters (withdrawalID, taskID, accountID) if any
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		// Send event to PostHog
		posthogClient.Enqueue(userID, eventName, props)
	}
}

// eventNameFor returns "" for unmatched routes (404s).
func eventNameFor(method, fullPath string) string {
	if fullPath == "" {
		return ""
	}
	if name, ok := routeEvents[method+" "+fullPath]; ok {
		return name
	}
	// "/api/v1/me/tasks" -> "api_v1_me_tasks"
	name := strings.TrimPrefix(fullPath, "/")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, ":", "")
	return strings.ReplaceAll(name, "-", "_")
}

// PosthogEvent is a helper to manually send custom events from handlers when needed
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}

	// Get user ID from context
	userID, exists := GetUserIDFromContext(c)
	if !exists {
		return
	}

	// Ensure properties is not nil
	if properties == nil {
		properties = make(map[string]any)
	}

	// Add request context
	properties["method"] = c.Request.Method
	properties["path"] = c.Request.URL.Path

	// Send custom event
	posthogClient.Enqueue(userID, eventName, properties)
}
