package dto

import (
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
)

// CreateTaskRequest defines the data needed to add a task to the catalog.
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Reward      int64  `json:"reward" binding:"required,gt=0"`
	IsActive    *bool  `json:"isActive"` // defaults to true
}

// UpdateTaskRequest defines the fields an admin may change.
// Nil pointers leave the stored value untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Reward      *int64  `json:"reward" binding:"omitempty,gt=0"`
	IsActive    *bool   `json:"isActive"`
}

// TaskResponse defines the data returned for a task.
type TaskResponse struct {
	TaskID        string    `json:"taskID"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Reward        int64     `json:"reward"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// AccountTaskResponse is a task as seen by one account.
type AccountTaskResponse struct {
	TaskResponse
	Completed bool `json:"completed"`
}

// ToTaskResponse converts a domain.Task to TaskResponse DTO
func ToTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:        t.TaskID,
		Title:         t.Title,
		Description:   t.Description,
		Reward:        t.Reward,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		LastUpdatedAt: t.LastUpdatedAt,
	}
}

// ToListTaskResponse converts a slice of domain.Task to response DTOs
func ToListTaskResponse(tasks []domain.Task) []TaskResponse {
	res := make([]TaskResponse, len(tasks))
	for i := range tasks {
		res[i] = ToTaskResponse(&tasks[i])
	}
	return res
}

// ToAccountTaskResponses marks the tasks the account already completed.
func ToAccountTaskResponses(tasks []domain.Task, completed domain.TaskIDSet) []AccountTaskResponse {
	res := make([]AccountTaskResponse, len(tasks))
	for i := range tasks {
		res[i] = AccountTaskResponse{
			TaskResponse: ToTaskResponse(&tasks[i]),
			Completed:    completed.Has(tasks[i].TaskID),
		}
	}
	return res
}
