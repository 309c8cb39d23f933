package services

import (
	"context"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// WithdrawalNotifier schedules a message to the account holder about a resolved withdrawal.
// The job is written in tx so it exists if and only if the resolution commits.
type WithdrawalNotifier interface {
	NotifyWithdrawalResolvedTx(ctx context.Context, tx pgx.Tx, w domain.WithdrawalRequest) error
}
