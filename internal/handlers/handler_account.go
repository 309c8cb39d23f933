package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/SscSPs/reward_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	exponent       int32
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, exponent int32) *accountHandler {
	return &accountHandler{
		accountService: as,
		exponent:       exponent,
	}
}

// onboard godoc
// @Summary Onboard the calling Telegram user
// @Description Creates the account of the token's Telegram user with every counter at zero
// @Tags me
// @Accept  json
// @Produce  json
// @Param   profile body dto.OnboardRequest true "Profile"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Account already exists"
// @Security BearerAuth
// @Router /me/onboard [post]
func (h *accountHandler) onboard(c *gin.Context) {
	accountID, ok := principal(c)
	if !ok {
		return
	}
	var req dto.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.accountService.Onboard(c.Request.Context(), accountID, req.TelegramUsername, req)
	if err != nil {
		respondError(c, err, "Failed to onboard account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account, h.exponent))
}

// getMe godoc
// @Summary Get the caller's account
// @Tags me
// @Produce  json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not onboarded yet"
// @Security BearerAuth
// @Router /me [get]
func (h *accountHandler) getMe(c *gin.Context) {
	accountID, ok := principal(c)
	if !ok {
		return
	}
	h.respondAccount(c, accountID)
}

// listMyLedger godoc
// @Summary List the caller's ledger entries
// @Description Newest first. Pass nextToken from the previous page to continue.
// @Tags me
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Security BearerAuth
// @Router /me/ledger [get]
func (h *accountHandler) listMyLedger(c *gin.Context) {
	accountID, ok := principal(c)
	if !ok {
		return
	}
	h.respondLedger(c, accountID)
}

// listAccounts godoc
// @Summary List accounts
// @Tags admin
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.AccountResponse
// @Failure 403 {object} ErrorResponse "Not an admin"
// @Security BearerAuth
// @Router /admin/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts, h.exponent))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags admin
// @Produce  json
// @Param   accountID path string true "Account ID (Telegram user ID)"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /admin/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	h.respondAccount(c, c.Param("accountID"))
}

// listAccountLedger godoc
// @Summary List an account's ledger entries
// @Tags admin
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Security BearerAuth
// @Router /admin/accounts/{accountID}/ledger [get]
func (h *accountHandler) listAccountLedger(c *gin.Context) {
	h.respondLedger(c, c.Param("accountID"))
}

// setSuspension godoc
// @Summary Suspend or reinstate an account
// @Description Suspended accounts cannot earn or request withdrawals. The ledger is not touched.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   body body dto.UpdateSuspensionRequest true "Suspension flag"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /admin/accounts/{accountID}/suspension [put]
func (h *accountHandler) setSuspension(c *gin.Context) {
	adminID, ok := principal(c)
	if !ok {
		return
	}
	var req dto.UpdateSuspensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	accountID := c.Param("accountID")
	account, err := h.accountService.SetSuspended(c.Request.Context(), accountID, *req.Suspended, adminID)
	if err != nil {
		respondError(c, err, "Failed to update suspension")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account suspension changed",
		slog.String("account_id", accountID), slog.Bool("suspended", account.IsSuspended))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account, h.exponent))
}

func (h *accountHandler) respondAccount(c *gin.Context, accountID string) {
	account, err := h.accountService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account, h.exponent))
}

func (h *accountHandler) respondLedger(c *gin.Context, accountID string) {
	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	entries, next, err := h.accountService.ListLedgerEntries(c.Request.Context(), accountID, params)
	if err != nil {
		respondError(c, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries, h.exponent),
		NextToken: next,
	})
}
