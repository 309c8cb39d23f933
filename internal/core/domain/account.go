package domain

import (
	"sort"
	"time"
)

// DefaultTelegramUsername is stored when the Telegram profile has no public username.
const DefaultTelegramUsername = "N/A"

// TaskIDSet is the set of task IDs already credited to an account.
type TaskIDSet map[string]struct{}

// NewTaskIDSet builds a set from the given IDs.
func NewTaskIDSet(ids ...string) TaskIDSet {
	s := make(TaskIDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. A nil set contains nothing.
func (s TaskIDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the IDs in ascending order.
func (s TaskIDSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Account is the ledger record of one mini-app user, keyed by Telegram user ID.
//
// Balance and TotalEarned are integer minor units. Balance never drops below zero
// and never exceeds TotalEarned; TotalEarned and the task counters only grow.
type Account struct {
	AccountID             string     `json:"accountID"`
	Name                  string     `json:"name"`
	Mobile                string     `json:"mobile"`
	TelegramUsername      string     `json:"telegramUsername"`
	Balance               int64      `json:"balance"`
	TotalEarned           int64      `json:"totalEarned"`
	AdTasksCompleted      int64      `json:"adTasksCompleted"`
	DynamicTasksCompleted int64      `json:"dynamicTasksCompleted"`
	CompletedTasks        TaskIDSet  `json:"-"`
	LastClaimAt           *time.Time `json:"lastClaimAt,omitempty"`
	IsSuspended           bool       `json:"isSuspended"`
	JoinedAt              time.Time  `json:"joinedAt"`
	AuditFields
}

// Apply returns a copy of the account with the delta added.
// The copy shares no state with the receiver's CompletedTasks set.
func (a Account) Apply(d AccountDelta) Account {
	next := a
	next.Balance += d.Reward
	next.TotalEarned += d.Reward
	next.AdTasksCompleted += d.AdTasks
	next.DynamicTasksCompleted += d.DynamicTasks

	next.CompletedTasks = make(TaskIDSet, len(a.CompletedTasks)+1)
	for id := range a.CompletedTasks {
		next.CompletedTasks[id] = struct{}{}
	}
	if d.CompletedTaskID != "" {
		next.CompletedTasks[d.CompletedTaskID] = struct{}{}
	}
	if d.ClaimedAt != nil {
		claimed := *d.ClaimedAt
		next.LastClaimAt = &claimed
	}
	return next
}
