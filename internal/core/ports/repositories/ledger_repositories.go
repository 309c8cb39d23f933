package repositories

import (
	"context"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerReader defines read operations over the append-only ledger
type LedgerReader interface {
	// ListLedgerEntries lists an account's entries, newest first.
	ListLedgerEntries(ctx context.Context, accountID string, limit int, after *PageCursor) ([]domain.LedgerEntry, error)
}

// LedgerWriter appends ledger entries in the caller's transaction
type LedgerWriter interface {
	AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
