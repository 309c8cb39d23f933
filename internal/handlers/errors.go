package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps an error category to its HTTP status.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Code
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrPreconditionFailed):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error response. Server-side failures are logged at error level
// and their details are not echoed to the client.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	code := apperrors.Reason(err)

	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, ErrorResponse{Error: msg, Code: code})
		return
	}
	logger.Warn(msg, slog.String("error", err.Error()), slog.String("code", code))
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// respondBindError answers a request whose body or query failed binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error(), Code: "VALIDATION_ERROR"})
}

// principal returns the token subject. AuthMiddleware guarantees it is present on
// every route that calls this.
func principal(c *gin.Context) (string, bool) {
	id, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Code: "UNAUTHORIZED"})
	}
	return id, ok
}
