package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// WithdrawalReader defines read-only projections over withdrawal requests
type WithdrawalReader interface {
	// FindWithdrawalByID retrieves a single request.
	FindWithdrawalByID(ctx context.Context, withdrawalID string) (*domain.WithdrawalRequest, error)

	// ListWithdrawalsByStatus lists requests with the given status, oldest first.
	ListWithdrawalsByStatus(ctx context.Context, status domain.WithdrawalStatus, limit int, after *PageCursor) ([]domain.WithdrawalRequest, error)

	// ListWithdrawalsByAccount lists an account's requests, newest first.
	ListWithdrawalsByAccount(ctx context.Context, accountID string, limit int, after *PageCursor) ([]domain.WithdrawalRequest, error)
}

// WithdrawalTransactionSupport defines the writes of the withdrawal workflow
type WithdrawalTransactionSupport interface {
	// FindWithdrawalByIDForUpdate selects a request and locks its row for the rest of tx.
	FindWithdrawalByIDForUpdate(ctx context.Context, tx pgx.Tx, withdrawalID string) (*domain.WithdrawalRequest, error)

	// FindWithdrawalByIdempotencyKeyInTx finds an earlier request of the account with the same key.
	FindWithdrawalByIdempotencyKeyInTx(ctx context.Context, tx pgx.Tx, accountID string, key string) (*domain.WithdrawalRequest, error)

	// SaveWithdrawalInTx inserts a new pending request.
	SaveWithdrawalInTx(ctx context.Context, tx pgx.Tx, w domain.WithdrawalRequest) error

	// ResolveWithdrawalInTx moves a pending request to a terminal status.
	// It fails with ErrAlreadyResolved when the stored status is no longer pending.
	ResolveWithdrawalInTx(ctx context.Context, tx pgx.Tx, withdrawalID string, status domain.WithdrawalStatus, remarks string, actorID string, now time.Time) error
}

// WithdrawalRepositoryFacade combines all withdrawal-related repository interfaces
type WithdrawalRepositoryFacade interface {
	WithdrawalReader
	WithdrawalTransactionSupport
}
