package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/SscSPs/reward_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ReplayedHeader is set on a withdrawal response that was answered from an earlier request
// with the same idempotency key.
const ReplayedHeader = "Idempotent-Replayed"

// withdrawalHandler serves both the account holder and the admin side of withdrawals.
type withdrawalHandler struct {
	withdrawalService portssvc.WithdrawalSvcFacade
	exponent          int32
	streamInterval    time.Duration
}

func newWithdrawalHandler(ws portssvc.WithdrawalSvcFacade, exponent int32, streamInterval time.Duration) *withdrawalHandler {
	if streamInterval <= 0 {
		streamInterval = 5 * time.Second
	}
	return &withdrawalHandler{withdrawalService: ws, exponent: exponent, streamInterval: streamInterval}
}

// createWithdrawal godoc
// @Summary Request a withdrawal
// @Description Escrows the amount from the balance and records a pending request. Retrying with the same Idempotency-Key returns the original request.
// @Tags me
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string true "Client-generated key, unique per request"
// @Param   body body dto.CreateWithdrawalRequest true "Amount and payout address"
// @Success 201 {object} dto.WithdrawalResponse
// @Success 200 {object} dto.WithdrawalResponse "Replay of an earlier request"
// @Failure 400 {object} ErrorResponse "Invalid amount or address"
// @Failure 403 {object} ErrorResponse "Account suspended"
// @Failure 409 {object} ErrorResponse "Insufficient balance or idempotency conflict"
// @Security BearerAuth
// @Router /me/withdrawals [post]
func (h *withdrawalHandler) createWithdrawal(c *gin.Context) {
	accountID, ok := principal(c)
	if !ok {
		return
	}
	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if key := strings.TrimSpace(c.GetHeader(dto.IdempotencyKeyHeader)); key != "" {
		req.IdempotencyKey = key
	}

	w, replayed, err := h.withdrawalService.CreateWithdrawal(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err, "Failed to create withdrawal")
		return
	}

	status := http.StatusCreated
	if replayed {
		c.Header(ReplayedHeader, "true")
		status = http.StatusOK
	}
	c.JSON(status, dto.ToWithdrawalResponse(w, h.exponent))
}

// listMyWithdrawals godoc
// @Summary List the caller's withdrawals
// @Tags me
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListWithdrawalsResponse
// @Security BearerAuth
// @Router /me/withdrawals [get]
func (h *withdrawalHandler) listMyWithdrawals(c *gin.Context) {
	accountID, ok := principal(c)
	if !ok {
		return
	}
	var params dto.ListWithdrawalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	ws, next, err := h.withdrawalService.ListAccountWithdrawals(c.Request.Context(), accountID, params)
	if err != nil {
		respondError(c, err, "Failed to list withdrawals")
		return
	}
	c.JSON(http.StatusOK, dto.ListWithdrawalsResponse{Withdrawals: dto.ToListWithdrawalResponse(ws, h.exponent), NextToken: next})
}

// listPending godoc
// @Summary List pending withdrawals
// @Description Oldest first
// @Tags admin
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListWithdrawalsResponse
// @Security BearerAuth
// @Router /admin/withdrawals/pending [get]
func (h *withdrawalHandler) listPending(c *gin.Context) {
	var params dto.ListWithdrawalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	ws, next, err := h.withdrawalService.ListPendingWithdrawals(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list pending withdrawals")
		return
	}
	c.JSON(http.StatusOK, dto.ListWithdrawalsResponse{Withdrawals: dto.ToListWithdrawalResponse(ws, h.exponent), NextToken: next})
}

// streamPending godoc
// @Summary Stream pending withdrawals
// @Description Server-sent events. A "pending" event carrying the first page of pending withdrawals is sent immediately and then on every poll interval.
// @Tags admin
// @Produce  text/event-stream
// @Success 200 {object} dto.ListWithdrawalsResponse
// @Security BearerAuth
// @Router /admin/withdrawals/pending/stream [get]
func (h *withdrawalHandler) streamPending(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()

	logger.Info("Pending withdrawal stream opened")
	first := true
	c.Stream(func(w io.Writer) bool {
		if !first {
			select {
			case <-ctx.Done():
				logger.Info("Pending withdrawal stream closed")
				return false
			case <-ticker.C:
			}
		}
		first = false

		ws, _, err := h.withdrawalService.ListPendingWithdrawals(ctx, dto.ListWithdrawalsParams{Limit: 100})
		if err != nil {
			logger.Warn("Pending withdrawal poll failed", slog.String("error", err.Error()))
			c.SSEvent("error", ErrorResponse{Error: "Failed to list pending withdrawals", Code: "STORAGE_UNAVAILABLE"})
			return true
		}
		c.SSEvent("pending", dto.ListWithdrawalsResponse{Withdrawals: dto.ToListWithdrawalResponse(ws, h.exponent)})
		return true
	})
}

// getWithdrawal godoc
// @Summary Get a withdrawal by ID
// @Tags admin
// @Produce  json
// @Param   withdrawalID path string true "Withdrawal ID"
// @Success 200 {object} dto.WithdrawalResponse
// @Failure 404 {object} ErrorResponse "Withdrawal not found"
// @Security BearerAuth
// @Router /admin/withdrawals/{withdrawalID} [get]
func (h *withdrawalHandler) getWithdrawal(c *gin.Context) {
	w, err := h.withdrawalService.GetWithdrawal(c.Request.Context(), c.Param("withdrawalID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve withdrawal")
		return
	}
	c.JSON(http.StatusOK, dto.ToWithdrawalResponse(w, h.exponent))
}

// approve godoc
// @Summary Approve a pending withdrawal
// @Tags admin
// @Produce  json
// @Param   withdrawalID path string true "Withdrawal ID"
// @Success 200 {object} dto.WithdrawalResponse
// @Failure 404 {object} ErrorResponse "Withdrawal not found"
// @Failure 409 {object} ErrorResponse "Already resolved"
// @Security BearerAuth
// @Router /admin/withdrawals/{withdrawalID}/approve [post]
func (h *withdrawalHandler) approve(c *gin.Context) {
	adminID, ok := principal(c)
	if !ok {
		return
	}
	w, err := h.withdrawalService.ApproveWithdrawal(c.Request.Context(), c.Param("withdrawalID"), adminID)
	if err != nil {
		respondError(c, err, "Failed to approve withdrawal")
		return
	}
	c.JSON(http.StatusOK, dto.ToWithdrawalResponse(w, h.exponent))
}

// reject godoc
// @Summary Reject a pending withdrawal
// @Description Refunds the escrowed amount to the account balance
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   withdrawalID path string true "Withdrawal ID"
// @Param   body body dto.RejectWithdrawalRequest false "Remarks shown to the account holder"
// @Success 200 {object} dto.WithdrawalResponse
// @Failure 404 {object} ErrorResponse "Withdrawal not found"
// @Failure 409 {object} ErrorResponse "Already resolved"
// @Security BearerAuth
// @Router /admin/withdrawals/{withdrawalID}/reject [post]
func (h *withdrawalHandler) reject(c *gin.Context) {
	adminID, ok := principal(c)
	if !ok {
		return
	}
	var req dto.RejectWithdrawalRequest
	// An empty body, chunked or not, means no remarks.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	w, err := h.withdrawalService.RejectWithdrawal(c.Request.Context(), c.Param("withdrawalID"), adminID, req.Remarks)
	if err != nil {
		respondError(c, err, "Failed to reject withdrawal")
		return
	}
	c.JSON(http.StatusOK, dto.ToWithdrawalResponse(w, h.exponent))
}
