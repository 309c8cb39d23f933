package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout = 5 * time.Second
	// Balance writers hold one account row at a time; waiting longer than this means a stuck
	// transaction, and the request fails as storage-unavailable instead of hanging.
	rowLockTimeout = "5s"
	appName        = "reward_ledger"
)

// NewPgxPool opens the pool shared by the repositories and river. When checkConnection is
// set the pool is pinged before being returned.
func NewPgxPool(ctx context.Context, databaseURL string, checkConnection bool) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL is empty")
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout
	poolCfg.ConnConfig.RuntimeParams["application_name"] = appName
	if _, set := poolCfg.ConnConfig.RuntimeParams["lock_timeout"]; !set {
		poolCfg.ConnConfig.RuntimeParams["lock_timeout"] = rowLockTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if checkConnection {
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		slog.Info("Connected to PostgreSQL", slog.Int("max_conns", int(poolCfg.MaxConns)))
	}
	return pool, nil
}

func ClosePgxPool(pool *pgxpool.Pool) {
	if pool == nil {
		return
	}
	pool.Close()
	slog.Info("PostgreSQL connection pool closed")
}
