package domain

import "time"

// WithdrawalStatus is the state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// DefaultRejectRemarks is stored when an admin rejects without remarks.
const DefaultRejectRemarks = "N/A"

// IsTerminal reports whether no further transition is allowed.
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalApproved || s == WithdrawalRejected
}

// WithdrawalRequest moves escrowed balance out of an account once an admin approves it.
type WithdrawalRequest struct {
	WithdrawalID   string           `json:"withdrawalID"`
	AccountID      string           `json:"accountID"`
	Amount         int64            `json:"amount"`
	Address        string           `json:"address"`
	Status         WithdrawalStatus `json:"status"`
	Remarks        string           `json:"remarks,omitempty"`
	IdempotencyKey string           `json:"-"`
	CreatedAt      time.Time        `json:"createdAt"`
	ResolvedAt     *time.Time       `json:"resolvedAt,omitempty"`
	ResolvedBy     string           `json:"resolvedBy,omitempty"`
}

// SamePayload reports whether a retried request carries the same amount and address.
func (w WithdrawalRequest) SamePayload(amount int64, address string) bool {
	return w.Amount == amount && w.Address == address
}
