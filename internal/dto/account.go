package dto

import (
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/utils"
)

// OnboardRequest defines the profile captured when a Telegram user first opens the mini-app.
type OnboardRequest struct {
	Name   string `json:"name" binding:"required,notblank,max=100"`
	Mobile string `json:"mobile" binding:"required,notblank,max=20"`
	// TelegramUsername is display-only; the account ID always comes from the access token.
	TelegramUsername string `json:"telegramUsername" binding:"max=64"`
}

// AccountResponse is the account snapshot returned after every ledger operation.
type AccountResponse struct {
	AccountID             string     `json:"accountID"`
	Name                  string     `json:"name"`
	Mobile                string     `json:"mobile"`
	TelegramUsername      string     `json:"telegramUsername"`
	Balance               int64      `json:"balance"`
	BalanceDisplay        string     `json:"balanceDisplay"`
	TotalEarned           int64      `json:"totalEarned"`
	TotalEarnedDisplay    string     `json:"totalEarnedDisplay"`
	AdTasksCompleted      int64      `json:"adTasksCompleted"`
	DynamicTasksCompleted int64      `json:"dynamicTasksCompleted"`
	CompletedTasks        []string   `json:"completedTasks"`
	LastClaimAt           *time.Time `json:"lastClaimAt,omitempty"`
	IsSuspended           bool       `json:"isSuspended"`
	JoinedAt              time.Time  `json:"joinedAt"`
}

// UpdateSuspensionRequest toggles the suspension flag of an account.
type UpdateSuspensionRequest struct {
	Suspended *bool `json:"suspended" binding:"required"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
// exponent is the number of decimal places of the display currency.
func ToAccountResponse(acc *domain.Account, exponent int32) AccountResponse {
	return AccountResponse{
		AccountID:             acc.AccountID,
		Name:                  acc.Name,
		Mobile:                acc.Mobile,
		TelegramUsername:      acc.TelegramUsername,
		Balance:               acc.Balance,
		BalanceDisplay:        utils.FormatMinorUnits(acc.Balance, exponent),
		TotalEarned:           acc.TotalEarned,
		TotalEarnedDisplay:    utils.FormatMinorUnits(acc.TotalEarned, exponent),
		AdTasksCompleted:      acc.AdTasksCompleted,
		DynamicTasksCompleted: acc.DynamicTasksCompleted,
		CompletedTasks:        acc.CompletedTasks.Slice(),
		LastClaimAt:           acc.LastClaimAt,
		IsSuspended:           acc.IsSuspended,
		JoinedAt:              acc.JoinedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account, exponent int32) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i], exponent)
	}
	return res
}
