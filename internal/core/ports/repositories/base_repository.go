package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// TransactionManager opens the transaction every balance mutation runs in.
// Rows read with a ...ForUpdate method stay locked until Commit or Rollback.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	// Rollback is a no-op on a transaction that already committed.
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// PageCursor marks the last row of a page for keyset pagination ordered by (created_at, id).
type PageCursor struct {
	CreatedAt time.Time
	ID        string
}
