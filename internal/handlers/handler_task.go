package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// taskHandler serves the admin task catalog.
type taskHandler struct {
	taskService portssvc.TaskSvcFacade
}

func newTaskHandler(ts portssvc.TaskSvcFacade) *taskHandler {
	return &taskHandler{taskService: ts}
}

// createTask godoc
// @Summary Create a task
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /admin/tasks [post]
func (h *taskHandler) createTask(c *gin.Context) {
	adminID, ok := principal(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req, adminID)
	if err != nil {
		respondError(c, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

// listTasks godoc
// @Summary List tasks
// @Description Includes inactive tasks unless activeOnly is set
// @Tags admin
// @Produce  json
// @Param   activeOnly query bool false "Only active tasks"
// @Success 200 {array} dto.TaskResponse
// @Security BearerAuth
// @Router /admin/tasks [get]
func (h *taskHandler) listTasks(c *gin.Context) {
	activeOnly := c.Query("activeOnly") == "true"
	tasks, err := h.taskService.ListTasks(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err, "Failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTaskResponse(tasks))
}

// getTask godoc
// @Summary Get a task
// @Tags admin
// @Produce  json
// @Param   taskID path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} ErrorResponse "Task not found"
// @Security BearerAuth
// @Router /admin/tasks/{taskID} [get]
func (h *taskHandler) getTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), c.Param("taskID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve task")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// updateTask godoc
// @Summary Update a task
// @Description Omitted fields keep their value. A reward change does not affect accounts that already completed the task.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   taskID path string true "Task ID"
// @Param   task body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} ErrorResponse "Task not found"
// @Security BearerAuth
// @Router /admin/tasks/{taskID} [put]
func (h *taskHandler) updateTask(c *gin.Context) {
	adminID, ok := principal(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("taskID"), req, adminID)
	if err != nil {
		respondError(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// deleteTask godoc
// @Summary Delete a task
// @Description Completion history and ledger entries of the task are kept
// @Tags admin
// @Param   taskID path string true "Task ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Task not found"
// @Security BearerAuth
// @Router /admin/tasks/{taskID} [delete]
func (h *taskHandler) deleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("taskID")); err != nil {
		respondError(c, err, "Failed to delete task")
		return
	}
	c.Status(http.StatusNoContent)
}
