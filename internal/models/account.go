package models

import (
	"database/sql"
	"time"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID             string       `db:"account_id"`
	Name                  string       `db:"name"`
	Mobile                string       `db:"mobile"`
	TelegramUsername      string       `db:"telegram_username"`
	Balance               int64        `db:"balance"`
	TotalEarned           int64        `db:"total_earned"`
	AdTasksCompleted      int64        `db:"ad_tasks_completed"`
	DynamicTasksCompleted int64        `db:"dynamic_tasks_completed"`
	LastClaimAt           sql.NullTime `db:"last_claim_at"`
	IsSuspended           bool         `db:"is_suspended"`
	JoinedAt              time.Time    `db:"joined_at"`
	AuditFields
}
