package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/SscSPs/reward_ledger/internal/platform/config"
	"github.com/SscSPs/reward_ledger/internal/utils"
	"github.com/google/uuid"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// TelegramUser is the identity extracted from verified mini-app init data.
type TelegramUser struct {
	ID       int64
	Username string
}

// TelegramVerifier checks the init data signature and returns the user it describes.
type TelegramVerifier func(initData string) (*TelegramUser, error)

// NewInitDataVerifier verifies init data signed with botToken that is at most ttl old.
func NewInitDataVerifier(botToken string, ttl time.Duration) TelegramVerifier {
	return func(raw string) (*TelegramUser, error) {
		if botToken == "" {
			return nil, fmt.Errorf("%w: telegram login is not configured", apperrors.ErrUnauthorized)
		}
		if err := initdata.Validate(raw, botToken, ttl); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
		}
		data, err := initdata.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
		}
		if data.User.ID == 0 {
			return nil, fmt.Errorf("%w: init data carries no user", apperrors.ErrUnauthorized)
		}
		return &TelegramUser{ID: data.User.ID, Username: data.User.Username}, nil
	}
}

// authService issues access tokens. Users are identified by Telegram, admins by
// password or a verified Google email.
type authService struct {
	BaseService
	cfg         *config.Config
	accountRepo portsrepo.AccountReader
	adminRepo   portsrepo.AdminRepositoryFacade
	verify      TelegramVerifier
}

// AuthServiceOption is a functional option for configuring the auth service
type AuthServiceOption func(*authService)

// WithTelegramVerifier replaces the init data verifier, for tests.
func WithTelegramVerifier(v TelegramVerifier) AuthServiceOption {
	return func(s *authService) {
		s.verify = v
	}
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *config.Config, accountRepo portsrepo.AccountReader, adminRepo portsrepo.AdminRepositoryFacade, options ...AuthServiceOption) portssvc.AuthSvcFacade {
	svc := &authService{
		cfg:         cfg,
		accountRepo: accountRepo,
		adminRepo:   adminRepo,
		verify:      NewInitDataVerifier(cfg.TelegramBotToken, cfg.TelegramInitDataTTL),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) issue(subject string, role domain.Role) (*dto.LoginResponse, error) {
	token, err := utils.GenerateJWT(subject, role, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: s.Now().Add(s.cfg.JWTExpiryDuration),
		Subject:   subject,
		Role:      role,
	}, nil
}

// LoginWithTelegram does not require the account to exist yet; the response tells the
// client whether onboarding is still needed.
func (s *authService) LoginWithTelegram(ctx context.Context, initData string) (*dto.LoginResponse, error) {
	user, err := s.verify(initData)
	if err != nil {
		s.LogInfo(ctx, "Telegram init data rejected", slog.String("error", err.Error()))
		return nil, err
	}
	accountID := strconv.FormatInt(user.ID, 10)

	onboarded := true
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		onboarded = false
	case err != nil:
		s.LogError(ctx, err, "Failed to look up account on login", slog.String("account_id", accountID))
		return nil, err
	case account.IsSuspended:
		s.LogInfo(ctx, "Suspended account tried to log in", slog.String("account_id", accountID))
		return nil, apperrors.ErrAccountSuspended
	}

	resp, err := s.issue(accountID, domain.RoleUser)
	if err != nil {
		s.LogError(ctx, err, "Failed to issue user token", slog.String("account_id", accountID))
		return nil, err
	}
	resp.Onboarded = onboarded
	resp.TelegramUsername = user.Username
	if resp.TelegramUsername == "" {
		resp.TelegramUsername = domain.DefaultTelegramUsername
	}
	return resp, nil
}

func (s *authService) LoginAdmin(ctx context.Context, email string, password string) (*dto.LoginResponse, error) {
	admin, err := s.adminRepo.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		s.LogError(ctx, err, "Failed to look up admin")
		return nil, err
	}
	// Google-only admins have no password hash.
	if admin.PasswordHash == "" || !utils.CheckPasswordHash(password, admin.PasswordHash) {
		s.LogInfo(ctx, "Admin password mismatch", slog.String("admin_id", admin.AdminID))
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}
	return s.issue(admin.AdminID, admin.Role)
}

func (s *authService) LoginAdminByVerifiedEmail(ctx context.Context, email string) (*dto.LoginResponse, error) {
	admin, err := s.adminRepo.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Verified email is not an admin")
			return nil, fmt.Errorf("%w: %s is not an admin", apperrors.ErrForbidden, email)
		}
		s.LogError(ctx, err, "Failed to look up admin")
		return nil, err
	}
	return s.issue(admin.AdminID, admin.Role)
}

func (s *authService) CreateAdmin(ctx context.Context, req dto.CreateAdminRequest, actorID string) (*domain.Admin, error) {
	actor, err := s.adminRepo.FindAdminByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrForbidden
		}
		return nil, err
	}
	if actor.Role != domain.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: only superadmins may add admins", apperrors.ErrForbidden)
	}
	if req.Role != domain.RoleAdmin && req.Role != domain.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}
	return s.createAdmin(ctx, req.Email, req.Name, req.Password, req.Role, actorID)
}

// EnsureBootstrapAdmin is a no-op when email is empty or any admin already exists.
func (s *authService) EnsureBootstrapAdmin(ctx context.Context, email string, password string) error {
	if email == "" {
		return nil
	}
	n, err := s.adminRepo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.createAdmin(ctx, email, "Bootstrap Admin", password, domain.RoleSuperAdmin, domain.SystemActor)
	if errors.Is(err, apperrors.ErrDuplicate) {
		return nil
	}
	return err
}

func (s *authService) createAdmin(ctx context.Context, email, name, password string, role domain.Role, actorID string) (*domain.Admin, error) {
	var hash string
	if password != "" {
		h, err := utils.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = h
	}

	now := s.Now()
	admin := domain.Admin{
		AdminID:      uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.adminRepo.SaveAdmin(ctx, admin); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save admin")
		}
		return nil, err
	}
	s.LogInfo(ctx, "Admin created", slog.String("admin_id", admin.AdminID), slog.String("role", string(role)))
	return &admin, nil
}
