package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/reward_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAdSessionRepository struct {
	BaseRepository
}

func newPgxAdSessionRepository(pool *pgxpool.Pool) portsrepo.AdSessionRepositoryFacade {
	return &PgxAdSessionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AdSessionRepositoryFacade = (*PgxAdSessionRepository)(nil)

func (r *PgxAdSessionRepository) SaveAdSession(ctx context.Context, session domain.AdSession) error {
	m := mapping.ToModelAdSession(session)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO ad_sessions (token_hash, account_id, created_at, expires_at, consumed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.TokenHash, m.AccountID, m.CreatedAt, m.ExpiresAt, m.ConsumedAt)
	if err != nil {
		return storageError("save ad session", err)
	}
	return nil
}

// ConsumeAdSessionInTx flips consumed_at in a single conditional update, so two
// concurrent ad-watch credits can never spend the same token.
func (r *PgxAdSessionRepository) ConsumeAdSessionInTx(ctx context.Context, tx pgx.Tx, accountID string, tokenHash string, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE ad_sessions SET consumed_at = $3
		WHERE token_hash = $1 AND account_id = $2 AND consumed_at IS NULL AND expires_at > $3`,
		tokenHash, accountID, now)
	if err != nil {
		return storageError("consume ad session", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAdSessionInvalid
	}
	return nil
}
