package models

import "time"

// Task is a row of the tasks table.
type Task struct {
	TaskID      string `db:"task_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Reward      int64  `db:"reward"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// CompletedTask is a row of the completed_tasks table.
type CompletedTask struct {
	AccountID   string    `db:"account_id"`
	TaskID      string    `db:"task_id"`
	Reward      int64     `db:"reward"`
	CompletedAt time.Time `db:"completed_at"`
}
