package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/reward_ledger/internal/middleware"
	"github.com/jackc/pgx/v5"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Clock func() time.Time
}

// Now returns the service clock's time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// inTx runs fn inside a transaction and commits when fn succeeds.
// The deferred rollback is a no-op after a successful commit.
func inTx(ctx context.Context, txm portsrepo.TransactionManager, fn func(tx pgx.Tx) error) error {
	tx, err := txm.Begin(ctx)
	if err != nil {
		return err
	}
	defer txm.Rollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	return txm.Commit(ctx, tx)
}
