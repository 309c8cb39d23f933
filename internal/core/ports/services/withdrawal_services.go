package services

import (
	"context"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/dto"
)

// WithdrawalReaderSvc defines the read-only withdrawal projections
type WithdrawalReaderSvc interface {
	GetWithdrawal(ctx context.Context, withdrawalID string) (*domain.WithdrawalRequest, error)
	ListPendingWithdrawals(ctx context.Context, params dto.ListWithdrawalsParams) ([]domain.WithdrawalRequest, *string, error)
	ListAccountWithdrawals(ctx context.Context, accountID string, params dto.ListWithdrawalsParams) ([]domain.WithdrawalRequest, *string, error)
}

// WithdrawalWorkflowSvc defines the state transitions of a withdrawal
type WithdrawalWorkflowSvc interface {
	// CreateWithdrawal escrows the amount and records a pending request.
	// replayed is true when an earlier request with the same idempotency key was returned.
	CreateWithdrawal(ctx context.Context, accountID string, req dto.CreateWithdrawalRequest) (w *domain.WithdrawalRequest, replayed bool, err error)

	// ApproveWithdrawal marks a pending request as paid out.
	ApproveWithdrawal(ctx context.Context, withdrawalID string, adminID string) (*domain.WithdrawalRequest, error)

	// RejectWithdrawal marks a pending request as rejected and refunds the escrow.
	RejectWithdrawal(ctx context.Context, withdrawalID string, adminID string, remarks string) (*domain.WithdrawalRequest, error)
}

// WithdrawalSvcFacade combines all withdrawal-related service interfaces
type WithdrawalSvcFacade interface {
	WithdrawalReaderSvc
	WithdrawalWorkflowSvc
}
