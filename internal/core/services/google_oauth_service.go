package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/platform/config"
	"github.com/SscSPs/reward_ledger/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

const oauthStateBytes = 16

// idTokenValidator matches idtoken.Validate.
type idTokenValidator func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

// adminGoogleSignIn drives the Google sign-in used by admins. It only proves the email;
// whether that email belongs to an admin is decided by the auth service.
type adminGoogleSignIn struct {
	clientID string
	oauth    *oauth2.Config
	validate idTokenValidator
}

func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return newAdminGoogleSignIn(cfg, idtoken.Validate)
}

func newAdminGoogleSignIn(cfg *config.Config, validate idTokenValidator) *adminGoogleSignIn {
	return &adminGoogleSignIn{
		clientID: cfg.GoogleClientID,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email"},
			Endpoint:     google.Endpoint,
		},
		validate: validate,
	}
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*adminGoogleSignIn)(nil)

func (s *adminGoogleSignIn) GenerateStateString(_ context.Context) (string, error) {
	state, err := utils.NewOpaqueToken(oauthStateBytes)
	if err != nil {
		return "", fmt.Errorf("oauth state: %w", err)
	}
	return state, nil
}

// GetGoogleLoginURL asks Google to show the account chooser, since admins often have several.
func (s *adminGoogleSignIn) GetGoogleLoginURL(_ context.Context, state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (s *adminGoogleSignIn) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange google auth code: %w", err)
	}
	return token, nil
}

func (s *adminGoogleSignIn) ValidateGoogleIDToken(ctx context.Context, rawIDToken string) (*idtoken.Payload, error) {
	if s.clientID == "" {
		return nil, fmt.Errorf("%w: google sign-in is not configured", apperrors.ErrUnauthorized)
	}
	payload, err := s.validate(ctx, rawIDToken, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: google id token: %v", apperrors.ErrUnauthorized, err)
	}
	return payload, nil
}
