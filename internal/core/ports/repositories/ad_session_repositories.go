package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AdSessionRepositoryFacade stores one-time ad session tokens
type AdSessionRepositoryFacade interface {
	// SaveAdSession stores a freshly issued session.
	SaveAdSession(ctx context.Context, session domain.AdSession) error

	// ConsumeAdSessionInTx marks an unexpired, unused session of the account as used.
	// It fails with ErrAdSessionInvalid when no such session exists.
	ConsumeAdSessionInTx(ctx context.Context, tx pgx.Tx, accountID string, tokenHash string, now time.Time) error
}
