package services

import (
	"context"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/dto"
)

// TaskReaderSvc defines read operations on the task catalog
type TaskReaderSvc interface {
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, activeOnly bool) ([]domain.Task, error)

	// ListTasksForAccount returns the active tasks and the account's completed set.
	ListTasksForAccount(ctx context.Context, accountID string) ([]domain.Task, domain.TaskIDSet, error)
}

// TaskWriterSvc defines admin operations on the task catalog
type TaskWriterSvc interface {
	CreateTask(ctx context.Context, req dto.CreateTaskRequest, adminID string) (*domain.Task, error)
	UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest, adminID string) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// TaskSvcFacade combines all task-related service interfaces
type TaskSvcFacade interface {
	TaskReaderSvc
	TaskWriterSvc
}
