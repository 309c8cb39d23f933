package dto

import (
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
)

// EarningRequest is the single entry point for every kind of earning event.
type EarningRequest struct {
	Kind           domain.EarningKind `json:"kind" binding:"required,oneof=AD_WATCH TASK_COMPLETE DAILY_BONUS"`
	AdSessionToken string             `json:"adSessionToken" binding:"required_if=Kind AD_WATCH"`
	TaskID         string             `json:"taskID" binding:"required_if=Kind TASK_COMPLETE"`
}

// ToEvent converts the request into the tagged earning event.
func (r EarningRequest) ToEvent() domain.EarningEvent {
	switch r.Kind {
	case domain.EarningAdWatch:
		return domain.AdWatchEvent(r.AdSessionToken)
	case domain.EarningTaskComplete:
		return domain.TaskCompleteEvent(r.TaskID)
	case domain.EarningDailyBonus:
		return domain.DailyBonusEvent()
	default:
		return domain.EarningEvent{Kind: r.Kind}
	}
}

// EarningResponse reports the credited reward and the new account snapshot.
type EarningResponse struct {
	Kind          domain.EarningKind `json:"kind"`
	Reward        int64              `json:"reward"`
	RewardDisplay string             `json:"rewardDisplay"`
	Account       AccountResponse    `json:"account"`
}

// AdSessionResponse carries the one-time token the client presents after the ad finishes.
type AdSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
