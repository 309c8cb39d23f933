package services

import (
	"context"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// AuthSvcFacade issues access tokens for Telegram users and admins.
type AuthSvcFacade interface {
	// LoginWithTelegram validates mini-app init data and issues a user token.
	LoginWithTelegram(ctx context.Context, initData string) (*dto.LoginResponse, error)

	// LoginAdmin checks an admin's password and issues an admin token.
	LoginAdmin(ctx context.Context, email string, password string) (*dto.LoginResponse, error)

	// LoginAdminByVerifiedEmail issues an admin token for an email verified by an identity provider.
	LoginAdminByVerifiedEmail(ctx context.Context, email string) (*dto.LoginResponse, error)

	// CreateAdmin adds an admin. Only superadmins may call it.
	CreateAdmin(ctx context.Context, req dto.CreateAdminRequest, actorID string) (*domain.Admin, error)

	// EnsureBootstrapAdmin creates a superadmin when no admin exists yet.
	EnsureBootstrapAdmin(ctx context.Context, email string, password string) error
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the admin to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
