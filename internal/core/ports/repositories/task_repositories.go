package repositories

import (
	"context"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
)

// TaskReader defines read operations for the task catalog
type TaskReader interface {
	// FindTaskByID retrieves a task regardless of its active flag.
	FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error)

	// ListTasks retrieves tasks ordered by creation time. activeOnly hides inactive tasks.
	ListTasks(ctx context.Context, activeOnly bool) ([]domain.Task, error)
}

// TaskWriter defines write operations for the task catalog
type TaskWriter interface {
	SaveTask(ctx context.Context, task domain.Task) error
	UpdateTask(ctx context.Context, task domain.Task) error
	DeleteTask(ctx context.Context, taskID string) error
}

// TaskRepositoryFacade combines all task-related repository interfaces
type TaskRepositoryFacade interface {
	TaskReader
	TaskWriter
}
