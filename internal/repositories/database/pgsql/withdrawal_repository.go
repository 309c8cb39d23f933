package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/reward_ledger/internal/models"
	"github.com/SscSPs/reward_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const withdrawalColumns = `withdrawal_id, account_id, amount, address, status, remarks,
	idempotency_key, created_at, resolved_at, resolved_by`

type PgxWithdrawalRepository struct {
	BaseRepository
}

func newPgxWithdrawalRepository(pool *pgxpool.Pool) portsrepo.WithdrawalRepositoryFacade {
	return &PgxWithdrawalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WithdrawalRepositoryFacade = (*PgxWithdrawalRepository)(nil)

func (r *PgxWithdrawalRepository) FindWithdrawalByID(ctx context.Context, withdrawalID string) (*domain.WithdrawalRequest, error) {
	return r.findOne(ctx, r.Pool, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE withdrawal_id = $1`, withdrawalID)
}

func (r *PgxWithdrawalRepository) FindWithdrawalByIDForUpdate(ctx context.Context, tx pgx.Tx, withdrawalID string) (*domain.WithdrawalRequest, error) {
	return r.findOne(ctx, tx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE withdrawal_id = $1 FOR UPDATE`, withdrawalID)
}

func (r *PgxWithdrawalRepository) FindWithdrawalByIdempotencyKeyInTx(ctx context.Context, tx pgx.Tx, accountID string, key string) (*domain.WithdrawalRequest, error) {
	return r.findOne(ctx, tx, `
		SELECT `+withdrawalColumns+` FROM withdrawal_requests
		WHERE account_id = $1 AND idempotency_key = $2`, accountID, key)
}

func (r *PgxWithdrawalRepository) findOne(ctx context.Context, q querier, query string, args ...any) (*domain.WithdrawalRequest, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("query withdrawal", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.WithdrawalRequest])
	if err != nil {
		return nil, queryError("find withdrawal", err)
	}
	w := mapping.ToDomainWithdrawal(m)
	return &w, nil
}

// ListWithdrawalsByStatus pages through requests of one status, oldest first.
func (r *PgxWithdrawalRepository) ListWithdrawalsByStatus(ctx context.Context, status domain.WithdrawalStatus, limit int, after *portsrepo.PageCursor) ([]domain.WithdrawalRequest, error) {
	createdAt, id := cursorArgs(after)
	query := `
		SELECT ` + withdrawalColumns + ` FROM withdrawal_requests
		WHERE status = $1
		  AND ($2::timestamptz IS NULL OR (created_at, withdrawal_id) > ($2::timestamptz, $3::text))
		ORDER BY created_at ASC, withdrawal_id ASC
		LIMIT $4`
	return r.list(ctx, query, string(status), createdAt, id, limit)
}

// ListWithdrawalsByAccount pages through an account's requests, newest first.
func (r *PgxWithdrawalRepository) ListWithdrawalsByAccount(ctx context.Context, accountID string, limit int, after *portsrepo.PageCursor) ([]domain.WithdrawalRequest, error) {
	createdAt, id := cursorArgs(after)
	query := `
		SELECT ` + withdrawalColumns + ` FROM withdrawal_requests
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR (created_at, withdrawal_id) < ($2::timestamptz, $3::text))
		ORDER BY created_at DESC, withdrawal_id DESC
		LIMIT $4`
	return r.list(ctx, query, accountID, createdAt, id, limit)
}

func (r *PgxWithdrawalRepository) list(ctx context.Context, query string, args ...any) ([]domain.WithdrawalRequest, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("list withdrawals", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.WithdrawalRequest])
	if err != nil {
		return nil, storageError("scan withdrawals", err)
	}
	out := make([]domain.WithdrawalRequest, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainWithdrawal(m)
	}
	return out, nil
}

// SaveWithdrawalInTx inserts a pending request. The unique (account_id, idempotency_key)
// constraint catches a concurrent duplicate that slipped past the lookup.
func (r *PgxWithdrawalRepository) SaveWithdrawalInTx(ctx context.Context, tx pgx.Tx, w domain.WithdrawalRequest) error {
	m := mapping.ToModelWithdrawal(w)
	_, err := tx.Exec(ctx, `
		INSERT INTO withdrawal_requests (`+withdrawalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.WithdrawalID, m.AccountID, m.Amount, m.Address, m.Status, m.Remarks,
		m.IdempotencyKey, m.CreatedAt, m.ResolvedAt, m.ResolvedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: withdrawal with idempotency key already exists", apperrors.ErrDuplicate)
		}
		return storageError("save withdrawal", err)
	}
	return nil
}

// ResolveWithdrawalInTx only moves rows that are still pending.
func (r *PgxWithdrawalRepository) ResolveWithdrawalInTx(ctx context.Context, tx pgx.Tx, withdrawalID string, status domain.WithdrawalStatus, remarks string, actorID string, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE withdrawal_requests
		SET status = $2, remarks = NULLIF($3, ''), resolved_at = $4, resolved_by = $5
		WHERE withdrawal_id = $1 AND status = 'pending'`,
		withdrawalID, string(status), remarks, now, actorID)
	if err != nil {
		return storageError("resolve withdrawal", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM withdrawal_requests WHERE withdrawal_id = $1)`, withdrawalID).Scan(&exists); err != nil {
		return storageError("check withdrawal", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrAlreadyResolved
}

func cursorArgs(after *portsrepo.PageCursor) (*time.Time, *string) {
	if after == nil {
		return nil, nil
	}
	createdAt, id := after.CreatedAt, after.ID
	return &createdAt, &id
}
