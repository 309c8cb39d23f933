package repositories

import (
	"context"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
)

// AdminRepositoryFacade defines persistence for admin operators
type AdminRepositoryFacade interface {
	FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error)
	FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
	SaveAdmin(ctx context.Context, admin domain.Admin) error
	CountAdmins(ctx context.Context) (int, error)
}
