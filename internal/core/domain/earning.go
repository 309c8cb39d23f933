package domain

import "time"

// EarningKind tags the variant of an EarningEvent.
type EarningKind string

const (
	EarningAdWatch      EarningKind = "AD_WATCH"
	EarningTaskComplete EarningKind = "TASK_COMPLETE"
	EarningDailyBonus   EarningKind = "DAILY_BONUS"
)

// EarningEvent is one of AdWatch, TaskComplete or DailyBonus.
// Only the field matching Kind is meaningful.
type EarningEvent struct {
	Kind           EarningKind
	AdSessionToken string
	TaskID         string
}

// AdWatchEvent builds an ad-watch event carrying the one-time ad session token.
func AdWatchEvent(adSessionToken string) EarningEvent {
	return EarningEvent{Kind: EarningAdWatch, AdSessionToken: adSessionToken}
}

// TaskCompleteEvent builds a dynamic task completion event.
func TaskCompleteEvent(taskID string) EarningEvent {
	return EarningEvent{Kind: EarningTaskComplete, TaskID: taskID}
}

// DailyBonusEvent builds a daily bonus claim event.
func DailyBonusEvent() EarningEvent {
	return EarningEvent{Kind: EarningDailyBonus}
}

// AccountDelta is the state change an accepted earning event applies to an account.
type AccountDelta struct {
	Kind            EarningKind
	Reward          int64
	AdTasks         int64
	DynamicTasks    int64
	CompletedTaskID string
	ClaimedAt       *time.Time
}

// EarningResult is returned to the caller after an earning event is applied.
type EarningResult struct {
	Kind    EarningKind `json:"kind"`
	Reward  int64       `json:"reward"`
	Account Account     `json:"account"`
}
