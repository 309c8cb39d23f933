package pgsql

import (
	"context"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/reward_ledger/internal/models"
	"github.com/SscSPs/reward_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerColumns = `entry_id, account_id, entry_type, amount, balance_after, reference, created_at`

// PgxLedgerRepository stores the append-only ledger. Rows are never updated or deleted.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func (r *PgxLedgerRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	_, err := tx.Exec(ctx, `
		INSERT INTO ledger_entries (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.EntryID, m.AccountID, m.EntryType, m.Amount, m.BalanceAfter, m.Reference, m.CreatedAt)
	if err != nil {
		return storageError("append ledger entry", err)
	}
	return nil
}

func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, accountID string, limit int, after *portsrepo.PageCursor) ([]domain.LedgerEntry, error) {
	createdAt, id := cursorArgs(after)
	rows, err := r.Pool.Query(ctx, `
		SELECT `+ledgerColumns+` FROM ledger_entries
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR (created_at, entry_id) < ($2::timestamptz, $3::text))
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $4`, accountID, createdAt, id, limit)
	if err != nil {
		return nil, storageError("list ledger entries", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, storageError("scan ledger entries", err)
	}
	out := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainLedgerEntry(m)
	}
	return out, nil
}
