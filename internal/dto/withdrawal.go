package dto

import (
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/utils"
)

// IdempotencyKeyHeader carries the client-generated key of a withdrawal request.
const IdempotencyKeyHeader = "Idempotency-Key"

// CreateWithdrawalRequest defines the data needed to request a payout.
// Amount and address are validated by the withdrawal service so the
// caller receives the specific ledger error.
type CreateWithdrawalRequest struct {
	Amount         int64  `json:"amount"`
	Address        string `json:"address" binding:"max=128"`
	IdempotencyKey string `json:"idempotencyKey" binding:"max=128"`
}

// RejectWithdrawalRequest carries optional admin remarks.
type RejectWithdrawalRequest struct {
	Remarks string `json:"remarks" binding:"max=500"`
}

// WithdrawalResponse defines the data returned for a withdrawal request.
type WithdrawalResponse struct {
	WithdrawalID  string                  `json:"withdrawalID"`
	AccountID     string                  `json:"accountID"`
	Amount        int64                   `json:"amount"`
	AmountDisplay string                  `json:"amountDisplay"`
	Address       string                  `json:"address"`
	Status        domain.WithdrawalStatus `json:"status"`
	Remarks       string                  `json:"remarks,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	ResolvedAt    *time.Time              `json:"resolvedAt,omitempty"`
	ResolvedBy    string                  `json:"resolvedBy,omitempty"`
}

// ListWithdrawalsParams defines query parameters for listing withdrawals.
type ListWithdrawalsParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListWithdrawalsResponse is a page of withdrawals plus the token of the next page.
type ListWithdrawalsResponse struct {
	Withdrawals []WithdrawalResponse `json:"withdrawals"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// ToWithdrawalResponse converts a domain.WithdrawalRequest to WithdrawalResponse DTO
func ToWithdrawalResponse(w *domain.WithdrawalRequest, exponent int32) WithdrawalResponse {
	return WithdrawalResponse{
		WithdrawalID:  w.WithdrawalID,
		AccountID:     w.AccountID,
		Amount:        w.Amount,
		AmountDisplay: utils.FormatMinorUnits(w.Amount, exponent),
		Address:       w.Address,
		Status:        w.Status,
		Remarks:       w.Remarks,
		CreatedAt:     w.CreatedAt,
		ResolvedAt:    w.ResolvedAt,
		ResolvedBy:    w.ResolvedBy,
	}
}

// ToListWithdrawalResponse converts a slice of withdrawals to response DTOs
func ToListWithdrawalResponse(ws []domain.WithdrawalRequest, exponent int32) []WithdrawalResponse {
	res := make([]WithdrawalResponse, len(ws))
	for i := range ws {
		res[i] = ToWithdrawalResponse(&ws[i], exponent)
	}
	return res
}
