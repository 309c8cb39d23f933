package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/SscSPs/reward_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// earningHandler serves the earning endpoints of the account holder.
type earningHandler struct {
	earningService portssvc.EarningSvcFacade
	taskService    portssvc.TaskSvcFacade
	exponent       int32
}

func newEarningHandler(es portssvc.EarningSvcFacade, ts portssvc.TaskSvcFacade, exponent int32) *earningHandler {
	return &earningHandler{earningService: es, taskService: ts, exponent: exponent}
}

// startAdSession godoc
// @Summary Start an ad session
// @Description Issues a one-time token to present with the AD_WATCH earning once the ad has been shown
// @Tags me
// @Produce  json
// @Success 201 {object} dto.AdSessionResponse
// @Failure 403 {object} ErrorResponse "Account suspended"
// @Failure 404 {object} ErrorResponse "Not onboarded yet"
// @Security BearerAuth
// @Router /me/ad-sessions [post]
func (h *earningHandler) startAdSession(c *gin.Context) {
	accountID, ok := principal(c)
	if !ok {
		return
	}
	token, expiresAt, err := h.earningService.StartAdSession(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to start ad session")
		return
	}
	c.JSON(http.StatusCreated, dto.AdSessionResponse{Token: token, ExpiresAt: expiresAt})
}

// applyEarning godoc
// @Summary Apply an earning event
// @Description One entry point for AD_WATCH, TASK_COMPLETE and DAILY_BONUS
// @Tags me
// @Accept  json
// @Produce  json
// @Param   event body dto.EarningRequest true "Earning event"
// @Success 200 {object} dto.EarningResponse
// @Failure 400 {object} ErrorResponse "Unknown event kind"
// @Failure 403 {object} ErrorResponse "Account suspended"
// @Failure 409 {object} ErrorResponse "Task not eligible, already claimed today or ad session invalid"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Security BearerAuth
// @Router /me/earnings [post]
func (h *earningHandler) applyEarning(c *gin.Context) {
	accountID, ok := principal(c)
	if !ok {
		return
	}
	var req dto.EarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.earningService.ApplyEarning(c.Request.Context(), accountID, req.ToEvent())
	if err != nil {
		respondError(c, err, "Failed to apply earning")
		return
	}
	c.JSON(http.StatusOK, dto.EarningResponse{
		Kind:          res.Kind,
		Reward:        res.Reward,
		RewardDisplay: utils.FormatMinorUnits(res.Reward, h.exponent),
		Account:       dto.ToAccountResponse(&res.Account, h.exponent),
	})
}

// listMyTasks godoc
// @Summary List active tasks
// @Description Active tasks, each flagged with whether the caller already completed it
// @Tags me
// @Produce  json
// @Success 200 {array} dto.AccountTaskResponse
// @Security BearerAuth
// @Router /me/tasks [get]
func (h *earningHandler) listMyTasks(c *gin.Context) {
	accountID, ok := principal(c)
	if !ok {
		return
	}
	tasks, completed, err := h.taskService.ListTasksForAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountTaskResponses(tasks, completed))
}
