// Package jobs runs the background work of the ledger on river, backed by the same Postgres.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

// Migrate applies river's own schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: logger})
	if err != nil {
		return fmt.Errorf("create river migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("river migrate up: %w", err)
	}
	logger.Info("River migrations applied", slog.Int("versions", len(res.Versions)))
	return nil
}

// NewClient builds the river client with every worker of the service registered.
func NewClient(pool *pgxpool.Pool, sender Sender, exponent int32, maxWorkers int, logger *slog.Logger) (*river.Client[pgx.Tx], error) {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	workers := river.NewWorkers()
	river.AddWorker(workers, NewWithdrawalResolvedWorker(sender, exponent))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Logger: logger,
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		return nil, fmt.Errorf("create river client: %w", err)
	}
	return client, nil
}
