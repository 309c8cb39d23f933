package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/google/uuid"
)

type taskService struct {
	BaseService
	taskRepo    portsrepo.TaskRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewTaskService creates the task catalog service.
func NewTaskService(taskRepo portsrepo.TaskRepositoryFacade, accountRepo portsrepo.AccountReader, options ...ServiceOption) portssvc.TaskSvcFacade {
	svc := &taskService{taskRepo: taskRepo, accountRepo: accountRepo}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.TaskSvcFacade = (*taskService)(nil)

func (s *taskService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find task", slog.String("task_id", taskID))
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, activeOnly bool) ([]domain.Task, error) {
	tasks, err := s.taskRepo.ListTasks(ctx, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tasks")
		return nil, err
	}
	return tasks, nil
}

func (s *taskService) ListTasksForAccount(ctx context.Context, accountID string) ([]domain.Task, domain.TaskIDSet, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.ListTasks(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	return tasks, account.CompletedTasks, nil
}

func (s *taskService) CreateTask(ctx context.Context, req dto.CreateTaskRequest, adminID string) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if req.Reward <= 0 {
		return nil, fmt.Errorf("%w: reward must be positive", apperrors.ErrInvalidAmount)
	}

	now := s.Now()
	task := domain.Task{
		TaskID:      uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Reward:      req.Reward,
		IsActive:    req.IsActive == nil || *req.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminID,
		},
	}
	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to save task", slog.String("task_id", task.TaskID))
		return nil, err
	}

	s.LogInfo(ctx, "Task created", slog.String("task_id", task.TaskID), slog.Int64("reward", task.Reward))
	return &task, nil
}

// UpdateTask applies the non-nil fields. Accounts that already completed the task keep
// the reward they were paid.
func (s *taskService) UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest, adminID string) (*domain.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be blank", apperrors.ErrValidation)
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Reward != nil {
		if *req.Reward <= 0 {
			return nil, fmt.Errorf("%w: reward must be positive", apperrors.ErrInvalidAmount)
		}
		task.Reward = *req.Reward
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}
	task.LastUpdatedAt = s.Now()
	task.LastUpdatedBy = adminID

	if err := s.taskRepo.UpdateTask(ctx, *task); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update task", slog.String("task_id", taskID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Task updated", slog.String("task_id", taskID), slog.Bool("active", task.IsActive))
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.taskRepo.DeleteTask(ctx, taskID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete task", slog.String("task_id", taskID))
		}
		return err
	}
	s.LogInfo(ctx, "Task deleted", slog.String("task_id", taskID))
	return nil
}
