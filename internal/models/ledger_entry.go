package models

import (
	"database/sql"
	"time"
)

// LedgerEntry is a row of the ledger_entries table.
type LedgerEntry struct {
	EntryID      string         `db:"entry_id"`
	AccountID    string         `db:"account_id"`
	EntryType    string         `db:"entry_type"`
	Amount       int64          `db:"amount"`
	BalanceAfter int64          `db:"balance_after"`
	Reference    sql.NullString `db:"reference"`
	CreatedAt    time.Time      `db:"created_at"`
}
