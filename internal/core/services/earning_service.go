package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/core/earning"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const adSessionTokenBytes = 32

// earningService applies earning events under the account row lock.
type earningService struct {
	BaseService
	txm           portsrepo.TransactionManager
	accountRepo   portsrepo.AccountRepositoryFacade
	taskRepo      portsrepo.TaskReader
	ledgerRepo    portsrepo.LedgerWriter
	adSessionRepo portsrepo.AdSessionRepositoryFacade
	engine        *earning.Engine
	adSessionTTL  time.Duration
}

// EarningServiceOption is a functional option for configuring the earning service
type EarningServiceOption func(*earningService)

// WithEarningClock overrides the wall clock, for tests.
func WithEarningClock(clock func() time.Time) EarningServiceOption {
	return func(s *earningService) {
		s.Clock = clock
	}
}

// WithAdSessionTTL sets how long an issued ad session token stays valid.
func WithAdSessionTTL(ttl time.Duration) EarningServiceOption {
	return func(s *earningService) {
		if ttl > 0 {
			s.adSessionTTL = ttl
		}
	}
}

// NewEarningService creates a new earning service around a configured engine.
func NewEarningService(repos portsrepo.RepositoryProvider, engine *earning.Engine, options ...EarningServiceOption) portssvc.EarningSvcFacade {
	svc := &earningService{
		txm:           repos.TxManager,
		accountRepo:   repos.AccountRepo,
		taskRepo:      repos.TaskRepo,
		ledgerRepo:    repos.LedgerRepo,
		adSessionRepo: repos.AdSessionRepo,
		engine:        engine,
		adSessionTTL:  10 * time.Minute,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.EarningSvcFacade = (*earningService)(nil)

// StartAdSession issues a random token and stores only its hash.
func (s *earningService) StartAdSession(ctx context.Context, accountID string) (string, time.Time, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return "", time.Time{}, err
	}
	if account.IsSuspended {
		return "", time.Time{}, apperrors.ErrAccountSuspended
	}

	token, err := utils.NewOpaqueToken(adSessionTokenBytes)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate ad session token")
		return "", time.Time{}, fmt.Errorf("failed to generate ad session token: %w", err)
	}

	now := s.Now()
	session := domain.AdSession{
		TokenHash: utils.HashOpaqueToken(token),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.adSessionTTL),
	}
	if err := s.adSessionRepo.SaveAdSession(ctx, session); err != nil {
		s.LogError(ctx, err, "Failed to save ad session", slog.String("account_id", accountID))
		return "", time.Time{}, err
	}

	s.LogDebug(ctx, "Ad session started", slog.String("account_id", accountID))
	return token, session.ExpiresAt, nil
}

// ApplyEarning evaluates the event against the locked account row and persists the delta,
// the completed task and the ledger entry in one transaction. A rejected event leaves
// no trace.
func (s *earningService) ApplyEarning(ctx context.Context, accountID string, event domain.EarningEvent) (*domain.EarningResult, error) {
	var result *domain.EarningResult
	err := inTx(ctx, s.txm, func(tx pgx.Tx) error {
		now := s.Now()

		account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if account.IsSuspended {
			return apperrors.ErrAccountSuspended
		}

		task, err := s.prepareEvent(ctx, tx, accountID, event, now)
		if err != nil {
			return err
		}

		delta, err := s.engine.Evaluate(*account, event, task, now)
		if err != nil {
			return err
		}

		updated, err := s.accountRepo.ApplyEarningInTx(ctx, tx, accountID, delta, now)
		if err != nil {
			return err
		}

		if delta.CompletedTaskID != "" {
			if err := s.accountRepo.RecordCompletedTaskInTx(ctx, tx, domain.CompletedTask{
				AccountID:   accountID,
				TaskID:      delta.CompletedTaskID,
				Reward:      delta.Reward,
				CompletedAt: now,
			}); err != nil {
				return err
			}
		}

		if err := s.ledgerRepo.AppendEntryInTx(ctx, tx, domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			AccountID:    accountID,
			EntryType:    domain.EntryTypeForEarning(delta.Kind),
			Amount:       delta.Reward,
			BalanceAfter: updated.Balance,
			Reference:    delta.CompletedTaskID,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		updated.CompletedTasks = account.Apply(delta).CompletedTasks
		result = &domain.EarningResult{Kind: delta.Kind, Reward: delta.Reward, Account: *updated}
		return nil
	})
	if err != nil {
		s.logRejection(ctx, err, accountID, event)
		return nil, err
	}

	s.LogInfo(ctx, "Earning applied",
		slog.String("account_id", accountID),
		slog.String("kind", string(result.Kind)),
		slog.Int64("reward", result.Reward),
		slog.Int64("balance", result.Account.Balance))
	return result, nil
}

// prepareEvent performs the event-specific reads and writes that must share the
// transaction: spending the ad session token or loading the task.
func (s *earningService) prepareEvent(ctx context.Context, tx pgx.Tx, accountID string, event domain.EarningEvent, now time.Time) (*domain.Task, error) {
	switch event.Kind {
	case domain.EarningAdWatch:
		if event.AdSessionToken == "" {
			return nil, apperrors.ErrAdSessionInvalid
		}
		return nil, s.adSessionRepo.ConsumeAdSessionInTx(ctx, tx, accountID, utils.HashOpaqueToken(event.AdSessionToken), now)

	case domain.EarningTaskComplete:
		if event.TaskID == "" {
			return nil, apperrors.ErrTaskNotEligible
		}
		task, err := s.taskRepo.FindTaskByID(ctx, event.TaskID)
		if errors.Is(err, apperrors.ErrNotFound) {
			// the engine rejects a missing task as not eligible
			return nil, nil
		}
		return task, err

	default:
		return nil, nil
	}
}

func (s *earningService) logRejection(ctx context.Context, err error, accountID string, event domain.EarningEvent) {
	attrs := []any{
		slog.String("account_id", accountID),
		slog.String("kind", string(event.Kind)),
		slog.String("reason", apperrors.Reason(err)),
	}
	if isBusinessRejection(err) {
		s.LogInfo(ctx, "Earning rejected", attrs...)
		return
	}
	s.LogError(ctx, err, "Failed to apply earning", attrs...)
}
