package services

import (
	"context"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccount returns the current snapshot of an account.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts for admins.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// ListLedgerEntries returns the balance history of an account.
	ListLedgerEntries(ctx context.Context, accountID string, params dto.ListLedgerParams) ([]domain.LedgerEntry, *string, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// Onboard creates the ledger record of a Telegram user with all counters at zero.
	Onboard(ctx context.Context, accountID string, telegramUsername string, req dto.OnboardRequest) (*domain.Account, error)

	// SetSuspended toggles the suspension flag. Suspension never touches the ledger.
	SetSuspended(ctx context.Context, accountID string, suspended bool, adminID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
