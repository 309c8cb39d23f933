package domain

import "time"

// Task is a catalog entry that pays a fixed reward once per account.
type Task struct {
	TaskID      string `json:"taskID"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      int64  `json:"reward"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// CompletedTask records the reward actually paid for a task, frozen at completion time.
type CompletedTask struct {
	AccountID   string    `json:"accountID"`
	TaskID      string    `json:"taskID"`
	Reward      int64     `json:"reward"`
	CompletedAt time.Time `json:"completedAt"`
}
