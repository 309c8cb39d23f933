package mapping

import (
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/models"
)

// ToModelWithdrawal converts a domain WithdrawalRequest to a model WithdrawalRequest
func ToModelWithdrawal(d domain.WithdrawalRequest) models.WithdrawalRequest {
	return models.WithdrawalRequest{
		WithdrawalID:   d.WithdrawalID,
		AccountID:      d.AccountID,
		Amount:         d.Amount,
		Address:        d.Address,
		Status:         string(d.Status),
		Remarks:        toNullString(d.Remarks),
		IdempotencyKey: d.IdempotencyKey,
		CreatedAt:      d.CreatedAt,
		ResolvedAt:     toNullTime(d.ResolvedAt),
		ResolvedBy:     toNullString(d.ResolvedBy),
	}
}

// ToDomainWithdrawal converts a model WithdrawalRequest to a domain WithdrawalRequest
func ToDomainWithdrawal(m models.WithdrawalRequest) domain.WithdrawalRequest {
	return domain.WithdrawalRequest{
		WithdrawalID:   m.WithdrawalID,
		AccountID:      m.AccountID,
		Amount:         m.Amount,
		Address:        m.Address,
		Status:         domain.WithdrawalStatus(m.Status),
		Remarks:        m.Remarks.String,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
		ResolvedAt:     fromNullTime(m.ResolvedAt),
		ResolvedBy:     m.ResolvedBy.String,
	}
}
