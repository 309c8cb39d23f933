package pgsql

import (
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      &BaseRepository{Pool: dbPool},
		AccountRepo:    newPgxAccountRepository(dbPool),
		TaskRepo:       newPgxTaskRepository(dbPool),
		WithdrawalRepo: newPgxWithdrawalRepository(dbPool),
		LedgerRepo:     newPgxLedgerRepository(dbPool),
		AdSessionRepo:  newPgxAdSessionRepository(dbPool),
		AdminRepo:      newPgxAdminRepository(dbPool),
	}
}
