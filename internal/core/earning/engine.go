// Package earning holds the reward rules for ad watches, dynamic tasks and the daily bonus.
// It performs no I/O: callers load the account under lock, ask the Engine for a delta and
// persist that delta in the same transaction.
package earning

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
)

// RewardRange is an inclusive range of integer rewards.
type RewardRange struct {
	Min int64
	Max int64
}

// Validate checks that the range is non-empty and strictly positive.
func (r RewardRange) Validate() error {
	if r.Min <= 0 || r.Max < r.Min {
		return fmt.Errorf("%w: reward range [%d, %d] must satisfy 0 < min <= max", apperrors.ErrValidation, r.Min, r.Max)
	}
	return nil
}

// Draw picks a reward uniformly from the range.
func (r RewardRange) Draw(src RandomSource) int64 {
	return r.Min + src.Int64N(r.Max-r.Min+1)
}

// Policy holds the tunable reward values.
type Policy struct {
	AdReward   RewardRange
	DailyBonus RewardRange
	// Location defines where a calendar day starts and ends for the daily bonus.
	Location *time.Location
}

// DefaultPolicy returns ad rewards of 1 to 5 and a daily bonus of 5 to 10, with UTC days.
func DefaultPolicy() Policy {
	return Policy{
		AdReward:   RewardRange{Min: 1, Max: 5},
		DailyBonus: RewardRange{Min: 5, Max: 10},
		Location:   time.UTC,
	}
}

// RandomSource yields uniform integers in [0, n).
type RandomSource interface {
	Int64N(n int64) int64
}

type globalRandom struct{}

func (globalRandom) Int64N(n int64) int64 { return rand.Int64N(n) }

// DefaultRandom uses the goroutine-safe top-level generator of math/rand/v2.
var DefaultRandom RandomSource = globalRandom{}

// Engine evaluates earning events against an account snapshot.
type Engine struct {
	policy Policy
	rng    RandomSource
}

// NewEngine validates the policy and returns an Engine. A nil rng selects DefaultRandom.
func NewEngine(policy Policy, rng RandomSource) (*Engine, error) {
	if err := policy.AdReward.Validate(); err != nil {
		return nil, fmt.Errorf("ad reward: %w", err)
	}
	if err := policy.DailyBonus.Validate(); err != nil {
		return nil, fmt.Errorf("daily bonus: %w", err)
	}
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	if rng == nil {
		rng = DefaultRandom
	}
	return &Engine{policy: policy, rng: rng}, nil
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Evaluate returns the delta an event applies to acc, or the reason it is rejected.
// task is only consulted for TaskComplete events and may be nil when the task does not exist.
func (e *Engine) Evaluate(acc domain.Account, event domain.EarningEvent, task *domain.Task, now time.Time) (domain.AccountDelta, error) {
	switch event.Kind {
	case domain.EarningAdWatch:
		return domain.AccountDelta{
			Kind:    domain.EarningAdWatch,
			Reward:  e.policy.AdReward.Draw(e.rng),
			AdTasks: 1,
		}, nil

	case domain.EarningTaskComplete:
		if task == nil || task.TaskID != event.TaskID || !task.IsActive || task.Reward <= 0 {
			return domain.AccountDelta{}, apperrors.ErrTaskNotEligible
		}
		if acc.CompletedTasks.Has(task.TaskID) {
			return domain.AccountDelta{}, apperrors.ErrTaskNotEligible
		}
		return domain.AccountDelta{
			Kind:            domain.EarningTaskComplete,
			Reward:          task.Reward,
			DynamicTasks:    1,
			CompletedTaskID: task.TaskID,
		}, nil

	case domain.EarningDailyBonus:
		if !CanClaimDailyBonus(acc.LastClaimAt, now, e.policy.Location) {
			return domain.AccountDelta{}, apperrors.ErrAlreadyClaimedToday
		}
		claimedAt := now
		return domain.AccountDelta{
			Kind:      domain.EarningDailyBonus,
			Reward:    e.policy.DailyBonus.Draw(e.rng),
			ClaimedAt: &claimedAt,
		}, nil

	default:
		return domain.AccountDelta{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidEvent, event.Kind)
	}
}

// CanClaimDailyBonus reports whether lastClaim is absent or falls on a calendar day
// strictly earlier than now's calendar day in loc.
func CanClaimDailyBonus(lastClaim *time.Time, now time.Time, loc *time.Location) bool {
	if lastClaim == nil || lastClaim.IsZero() {
		return true
	}
	return calendarDay(*lastClaim, loc).Before(calendarDay(now, loc))
}

func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
