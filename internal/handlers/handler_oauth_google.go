package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/SscSPs/reward_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// googleOAuthHandler signs admins in with their Google account. Google only proves the
// email; the admin must already exist.
type googleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	authService        portssvc.AuthSvcFacade
}

func newGoogleOAuthHandler(gs portssvc.GoogleOAuthHandlerSvcFacade, as portssvc.AuthSvcFacade) *googleOAuthHandler {
	return &googleOAuthHandler{googleOAuthService: gs, authService: as}
}

// loginURL godoc
// @Summary Google consent URL
// @Description Returns the Google consent URL and the state the client must check on the callback
// @Tags oauth
// @Produce json
// @Success 200 {object} dto.GoogleLoginURLResponse
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) loginURL(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		respondError(c, err, "Failed to start Google login")
		return
	}
	c.JSON(http.StatusOK, dto.GoogleLoginURLResponse{
		URL:   h.googleOAuthService.GetGoogleLoginURL(ctx, state),
		State: state,
	})
}

// exchangeCode godoc
// @Summary Exchange a Google authorization code for an admin token
// @Tags oauth
// @Accept  json
// @Produce  json
// @Param   code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid authorization code"
// @Failure 401 {object} ErrorResponse "Invalid Google ID token"
// @Failure 403 {object} ErrorResponse "No admin with this email"
// @Failure 504 {object} ErrorResponse "Google unreachable"
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		appErr := apperrors.NewGatewayTimeoutError("Failed to communicate with Google OAuth service.")
		lower := strings.ToLower(err.Error())
		if strings.Contains(lower, "invalid_grant") || strings.Contains(lower, "bad request") {
			appErr = apperrors.NewBadRequestError("Invalid or expired authorization code provided by Google.")
		}
		logger.Warn("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message, Code: apperrors.Reason(appErr)})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		respondError(c, apperrors.NewInternalServerError("ID token missing from Google's response"), "Failed to retrieve ID token from Google")
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("Invalid Google ID token: "+err.Error()), "Invalid Google ID token")
		return
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		respondError(c, apperrors.NewUnauthorizedError("Google account has no verified email"), "Invalid Google ID token")
		return
	}

	resp, err := h.authService.LoginAdminByVerifiedEmail(ctx, email)
	if err != nil {
		respondError(c, err, "Failed to sign in admin")
		return
	}
	logger.Info("Admin signed in with Google", slog.String("admin_id", resp.Subject))
	c.JSON(http.StatusOK, resp)
}
