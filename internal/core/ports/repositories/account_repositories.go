package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account together with its completed task set.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts ordered by join date, newest first.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a newly onboarded account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SetSuspended toggles the suspension flag.
	SetSuspended(ctx context.Context, accountID string, suspended bool, actorID string, now time.Time) error
}

// AccountTransactionSupport defines operations that must run inside a transaction
// holding the account row lock.
type AccountTransactionSupport interface {
	// FindAccountByIDForUpdate selects the account and locks its row for the rest of tx.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// ApplyEarningInTx adds an earning delta with server-side increments and returns the updated row.
	// The completed task set of the returned account is not populated.
	ApplyEarningInTx(ctx context.Context, tx pgx.Tx, accountID string, delta domain.AccountDelta, now time.Time) (*domain.Account, error)

	// RecordCompletedTaskInTx adds a task to the account's completed set.
	RecordCompletedTaskInTx(ctx context.Context, tx pgx.Tx, completed domain.CompletedTask) error

	// AdjustBalanceInTx adds a signed amount to the balance and returns the new balance.
	// It fails with ErrInsufficientBalance rather than letting the balance go negative.
	AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, amount int64, actorID string, now time.Time) (int64, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
