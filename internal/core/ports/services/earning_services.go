package services

import (
	"context"
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
)

// EarningSvcFacade applies earning events to accounts.
type EarningSvcFacade interface {
	// StartAdSession issues a one-time token that must accompany the ad-watch credit.
	StartAdSession(ctx context.Context, accountID string) (token string, expiresAt time.Time, err error)

	// ApplyEarning evaluates and atomically applies an earning event.
	ApplyEarning(ctx context.Context, accountID string, event domain.EarningEvent) (*domain.EarningResult, error)
}
