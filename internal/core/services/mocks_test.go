package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SetSuspended(ctx context.Context, accountID string, suspended bool, actorID string, now time.Time) error {
	args := m.Called(ctx, accountID, suspended, actorID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyEarningInTx(ctx context.Context, tx pgx.Tx, accountID string, delta domain.AccountDelta, now time.Time) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID, delta, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) RecordCompletedTaskInTx(ctx context.Context, tx pgx.Tx, completed domain.CompletedTask) error {
	args := m.Called(ctx, tx, completed)
	return args.Error(0)
}

func (m *MockAccountRepository) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, amount int64, actorID string, now time.Time) (int64, error) {
	args := m.Called(ctx, tx, accountID, amount, actorID, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ListLedgerEntries(ctx context.Context, accountID string, limit int, after *portsrepo.PageCursor) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

// MockTaskRepository is a mock type for the TaskRepositoryFacade interface
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) ListTasks(ctx context.Context, activeOnly bool) ([]domain.Task, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteTask(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

// MockAdminRepository is a mock type for the AdminRepositoryFacade interface
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *MockAdminRepository) SaveAdmin(ctx context.Context, admin domain.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) CountAdmins(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var (
	_ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)
	_ portsrepo.LedgerRepositoryFacade  = (*MockLedgerRepository)(nil)
	_ portsrepo.TaskRepositoryFacade    = (*MockTaskRepository)(nil)
	_ portsrepo.AdminRepositoryFacade   = (*MockAdminRepository)(nil)
)
