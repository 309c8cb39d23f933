package models

import (
	"database/sql"
	"time"
)

// WithdrawalRequest is a row of the withdrawal_requests table.
type WithdrawalRequest struct {
	WithdrawalID   string         `db:"withdrawal_id"`
	AccountID      string         `db:"account_id"`
	Amount         int64          `db:"amount"`
	Address        string         `db:"address"`
	Status         string         `db:"status"`
	Remarks        sql.NullString `db:"remarks"`
	IdempotencyKey string         `db:"idempotency_key"`
	CreatedAt      time.Time      `db:"created_at"`
	ResolvedAt     sql.NullTime   `db:"resolved_at"`
	ResolvedBy     sql.NullString `db:"resolved_by"`
}
