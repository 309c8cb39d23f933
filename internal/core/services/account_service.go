package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerReader
}

// ServiceOption is a functional option shared by the services that only need a clock.
type ServiceOption func(*BaseService)

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerReader, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) Onboard(ctx context.Context, accountID string, telegramUsername string, req dto.OnboardRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	mobile := strings.TrimSpace(req.Mobile)
	if accountID == "" || name == "" || mobile == "" {
		return nil, fmt.Errorf("%w: account ID, name and mobile are required", apperrors.ErrValidation)
	}
	if telegramUsername == "" {
		telegramUsername = domain.DefaultTelegramUsername
	}

	now := s.Now()
	account := domain.Account{
		AccountID:        accountID,
		Name:             name,
		Mobile:           mobile,
		TelegramUsername: telegramUsername,
		CompletedTasks:   domain.TaskIDSet{},
		JoinedAt:         now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     accountID,
			LastUpdatedAt: now,
			LastUpdatedBy: accountID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogInfo(ctx, "Account already onboarded", slog.String("account_id", accountID))
		} else {
			s.LogError(ctx, err, "Failed to save account", slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account onboarded", slog.String("account_id", accountID))
	return &account, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, pageSize(params.Limit), max(params.Offset, 0))
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) ListLedgerEntries(ctx context.Context, accountID string, params dto.ListLedgerParams) ([]domain.LedgerEntry, *string, error) {
	after, err := decodeCursor(params.NextToken)
	if err != nil {
		return nil, nil, err
	}
	limit := pageSize(params.Limit)

	entries, err := s.ledgerRepo.ListLedgerEntries(ctx, accountID, limit+1, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("account_id", accountID))
		return nil, nil, err
	}
	page, next := trimPage(entries, limit, func(e domain.LedgerEntry) (time.Time, string) {
		return e.CreatedAt, e.EntryID
	})
	return page, next, nil
}

func (s *accountService) SetSuspended(ctx context.Context, accountID string, suspended bool, adminID string) (*domain.Account, error) {
	if err := s.accountRepo.SetSuspended(ctx, accountID, suspended, adminID, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update suspension", slog.String("account_id", accountID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Account suspension updated",
		slog.String("account_id", accountID),
		slog.Bool("suspended", suspended),
		slog.String("admin_id", adminID))
	return s.GetAccount(ctx, accountID)
}
