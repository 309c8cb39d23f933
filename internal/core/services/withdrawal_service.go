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
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// withdrawalService runs the pending -> approved | rejected state machine.
// Every transition locks the withdrawal row before the owning account row.
type withdrawalService struct {
	BaseService
	txm            portsrepo.TransactionManager
	accountRepo    portsrepo.AccountRepositoryFacade
	withdrawalRepo portsrepo.WithdrawalRepositoryFacade
	ledgerRepo     portsrepo.LedgerWriter
	notifier       portssvc.WithdrawalNotifier
	minWithdrawal  int64
}

// WithdrawalServiceOption is a functional option for configuring the withdrawal service
type WithdrawalServiceOption func(*withdrawalService)

// WithWithdrawalClock overrides the wall clock, for tests.
func WithWithdrawalClock(clock func() time.Time) WithdrawalServiceOption {
	return func(s *withdrawalService) {
		s.Clock = clock
	}
}

// WithWithdrawalNotifier schedules a notification inside every resolution transaction.
func WithWithdrawalNotifier(n portssvc.WithdrawalNotifier) WithdrawalServiceOption {
	return func(s *withdrawalService) {
		s.notifier = n
	}
}

// NewWithdrawalService creates a new withdrawal service. minWithdrawal is the smallest
// amount, in minor units, an account may request.
func NewWithdrawalService(repos portsrepo.RepositoryProvider, minWithdrawal int64, options ...WithdrawalServiceOption) portssvc.WithdrawalSvcFacade {
	svc := &withdrawalService{
		txm:            repos.TxManager,
		accountRepo:    repos.AccountRepo,
		withdrawalRepo: repos.WithdrawalRepo,
		ledgerRepo:     repos.LedgerRepo,
		minWithdrawal:  minWithdrawal,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.WithdrawalSvcFacade = (*withdrawalService)(nil)

func (s *withdrawalService) validateCreate(req dto.CreateWithdrawalRequest) (string, string, error) {
	if req.Amount <= 0 || req.Amount < s.minWithdrawal {
		return "", "", fmt.Errorf("%w: amount must be at least %d", apperrors.ErrInvalidAmount, s.minWithdrawal)
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return "", "", apperrors.ErrInvalidAddress
	}
	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		return "", "", fmt.Errorf("%w: %s is required", apperrors.ErrValidation, dto.IdempotencyKeyHeader)
	}
	return address, key, nil
}

// CreateWithdrawal escrows the amount and inserts the pending request in one transaction.
// A retry with the same idempotency key returns the original request unchanged.
func (s *withdrawalService) CreateWithdrawal(ctx context.Context, accountID string, req dto.CreateWithdrawalRequest) (*domain.WithdrawalRequest, bool, error) {
	address, key, err := s.validateCreate(req)
	if err != nil {
		return nil, false, err
	}

	var created *domain.WithdrawalRequest
	replayed := false
	err = inTx(ctx, s.txm, func(tx pgx.Tx) error {
		now := s.Now()

		account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		// The account lock serializes retries, so the lookup sees any committed earlier attempt.
		existing, err := s.withdrawalRepo.FindWithdrawalByIdempotencyKeyInTx(ctx, tx, accountID, key)
		switch {
		case err == nil:
			if !existing.SamePayload(req.Amount, address) {
				return apperrors.ErrIdempotencyConflict
			}
			created, replayed = existing, true
			return nil
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		if account.IsSuspended {
			return apperrors.ErrAccountSuspended
		}
		if req.Amount > account.Balance {
			return apperrors.ErrInsufficientBalance
		}

		balance, err := s.accountRepo.AdjustBalanceInTx(ctx, tx, accountID, -req.Amount, accountID, now)
		if err != nil {
			return err
		}

		w := domain.WithdrawalRequest{
			WithdrawalID:   uuid.NewString(),
			AccountID:      accountID,
			Amount:         req.Amount,
			Address:        address,
			Status:         domain.WithdrawalPending,
			IdempotencyKey: key,
			CreatedAt:      now,
		}
		if err := s.withdrawalRepo.SaveWithdrawalInTx(ctx, tx, w); err != nil {
			return err
		}
		if err := s.ledgerRepo.AppendEntryInTx(ctx, tx, domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			AccountID:    accountID,
			EntryType:    domain.EntryWithdrawalEscrow,
			Amount:       -req.Amount,
			BalanceAfter: balance,
			Reference:    w.WithdrawalID,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		created = &w
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Withdrawal request rejected", slog.String("account_id", accountID), slog.Int64("amount", req.Amount))
		return nil, false, err
	}

	if replayed {
		s.LogInfo(ctx, "Withdrawal request replayed", slog.String("withdrawal_id", created.WithdrawalID))
	} else {
		s.LogInfo(ctx, "Withdrawal requested",
			slog.String("withdrawal_id", created.WithdrawalID),
			slog.String("account_id", accountID),
			slog.Int64("amount", created.Amount))
	}
	return created, replayed, nil
}

func (s *withdrawalService) ApproveWithdrawal(ctx context.Context, withdrawalID string, adminID string) (*domain.WithdrawalRequest, error) {
	return s.resolve(ctx, withdrawalID, adminID, domain.WithdrawalApproved, "")
}

func (s *withdrawalService) RejectWithdrawal(ctx context.Context, withdrawalID string, adminID string, remarks string) (*domain.WithdrawalRequest, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		remarks = domain.DefaultRejectRemarks
	}
	return s.resolve(ctx, withdrawalID, adminID, domain.WithdrawalRejected, remarks)
}

// resolve moves a pending request to status. A rejection refunds the escrow in the same
// transaction; an approval has no balance effect.
func (s *withdrawalService) resolve(ctx context.Context, withdrawalID string, adminID string, status domain.WithdrawalStatus, remarks string) (*domain.WithdrawalRequest, error) {
	var resolved *domain.WithdrawalRequest
	err := inTx(ctx, s.txm, func(tx pgx.Tx) error {
		now := s.Now()

		w, err := s.withdrawalRepo.FindWithdrawalByIDForUpdate(ctx, tx, withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != domain.WithdrawalPending {
			return apperrors.ErrAlreadyResolved
		}
		if _, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, w.AccountID); err != nil {
			return err
		}

		if err := s.withdrawalRepo.ResolveWithdrawalInTx(ctx, tx, withdrawalID, status, remarks, adminID, now); err != nil {
			return err
		}

		if status == domain.WithdrawalRejected {
			balance, err := s.accountRepo.AdjustBalanceInTx(ctx, tx, w.AccountID, w.Amount, adminID, now)
			if err != nil {
				return err
			}
			if err := s.ledgerRepo.AppendEntryInTx(ctx, tx, domain.LedgerEntry{
				EntryID:      uuid.NewString(),
				AccountID:    w.AccountID,
				EntryType:    domain.EntryWithdrawalRefund,
				Amount:       w.Amount,
				BalanceAfter: balance,
				Reference:    w.WithdrawalID,
				CreatedAt:    now,
			}); err != nil {
				return err
			}
		}

		w.Status = status
		w.Remarks = remarks
		w.ResolvedAt = &now
		w.ResolvedBy = adminID

		if s.notifier != nil {
			if err := s.notifier.NotifyWithdrawalResolvedTx(ctx, tx, *w); err != nil {
				return fmt.Errorf("failed to schedule withdrawal notification: %w", err)
			}
		}

		resolved = w
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Withdrawal resolution rejected",
			slog.String("withdrawal_id", withdrawalID),
			slog.String("status", string(status)))
		return nil, err
	}

	s.LogInfo(ctx, "Withdrawal resolved",
		slog.String("withdrawal_id", withdrawalID),
		slog.String("status", string(status)),
		slog.String("admin_id", adminID))
	return resolved, nil
}

func (s *withdrawalService) GetWithdrawal(ctx context.Context, withdrawalID string) (*domain.WithdrawalRequest, error) {
	w, err := s.withdrawalRepo.FindWithdrawalByID(ctx, withdrawalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find withdrawal", slog.String("withdrawal_id", withdrawalID))
		}
		return nil, err
	}
	return w, nil
}

func (s *withdrawalService) ListPendingWithdrawals(ctx context.Context, params dto.ListWithdrawalsParams) ([]domain.WithdrawalRequest, *string, error) {
	after, err := decodeCursor(params.NextToken)
	if err != nil {
		return nil, nil, err
	}
	limit := pageSize(params.Limit)
	ws, err := s.withdrawalRepo.ListWithdrawalsByStatus(ctx, domain.WithdrawalPending, limit+1, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending withdrawals")
		return nil, nil, err
	}
	page, next := trimPage(ws, limit, withdrawalKey)
	return page, next, nil
}

func (s *withdrawalService) ListAccountWithdrawals(ctx context.Context, accountID string, params dto.ListWithdrawalsParams) ([]domain.WithdrawalRequest, *string, error) {
	after, err := decodeCursor(params.NextToken)
	if err != nil {
		return nil, nil, err
	}
	limit := pageSize(params.Limit)
	ws, err := s.withdrawalRepo.ListWithdrawalsByAccount(ctx, accountID, limit+1, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account withdrawals", slog.String("account_id", accountID))
		return nil, nil, err
	}
	page, next := trimPage(ws, limit, withdrawalKey)
	return page, next, nil
}

func withdrawalKey(w domain.WithdrawalRequest) (time.Time, string) {
	return w.CreatedAt, w.WithdrawalID
}

// logFailure logs business rejections at info level and everything else as an error.
func (s *withdrawalService) logFailure(ctx context.Context, err error, msg string, attrs ...any) {
	attrs = append(attrs, slog.String("reason", apperrors.Reason(err)))
	if isBusinessRejection(err) {
		s.LogInfo(ctx, msg, attrs...)
		return
	}
	s.LogError(ctx, err, msg, attrs...)
}

func isBusinessRejection(err error) bool {
	return errors.Is(err, apperrors.ErrPreconditionFailed) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrForbidden) ||
		errors.Is(err, apperrors.ErrNotFound)
}
