package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListLedgerEntries(ctx context.Context, accountID string, params dto.ListLedgerParams) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountID, params)
	var next *string
	if n := args.Get(1); n != nil {
		next = n.(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), next, args.Error(2)
}

func (m *MockAccountService) Onboard(ctx context.Context, accountID string, telegramUsername string, req dto.OnboardRequest) (*domain.Account, error) {
	args := m.Called(ctx, accountID, telegramUsername, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) SetSuspended(ctx context.Context, accountID string, suspended bool, adminID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, suspended, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock EarningService ---
type MockEarningService struct {
	mock.Mock
}

func (m *MockEarningService) StartAdSession(ctx context.Context, accountID string) (string, time.Time, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockEarningService) ApplyEarning(ctx context.Context, accountID string, event domain.EarningEvent) (*domain.EarningResult, error) {
	args := m.Called(ctx, accountID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EarningResult), args.Error(1)
}

// --- Mock WithdrawalService ---
type MockWithdrawalService struct {
	mock.Mock
}

func (m *MockWithdrawalService) GetWithdrawal(ctx context.Context, withdrawalID string) (*domain.WithdrawalRequest, error) {
	args := m.Called(ctx, withdrawalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalService) ListPendingWithdrawals(ctx context.Context, params dto.ListWithdrawalsParams) ([]domain.WithdrawalRequest, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.WithdrawalRequest), nil, args.Error(2)
}

func (m *MockWithdrawalService) ListAccountWithdrawals(ctx context.Context, accountID string, params dto.ListWithdrawalsParams) ([]domain.WithdrawalRequest, *string, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.WithdrawalRequest), nil, args.Error(2)
}

func (m *MockWithdrawalService) CreateWithdrawal(ctx context.Context, accountID string, req dto.CreateWithdrawalRequest) (*domain.WithdrawalRequest, bool, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Bool(1), args.Error(2)
}

func (m *MockWithdrawalService) ApproveWithdrawal(ctx context.Context, withdrawalID string, adminID string) (*domain.WithdrawalRequest, error) {
	args := m.Called(ctx, withdrawalID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalService) RejectWithdrawal(ctx context.Context, withdrawalID string, adminID string, remarks string) (*domain.WithdrawalRequest, error) {
	args := m.Called(ctx, withdrawalID, adminID, remarks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Error(1)
}

// --- Mock TaskService ---
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, activeOnly bool) ([]domain.Task, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskService) ListTasksForAccount(ctx context.Context, accountID string) ([]domain.Task, domain.TaskIDSet, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Task), args.Get(1).(domain.TaskIDSet), args.Error(2)
}

func (m *MockTaskService) CreateTask(ctx context.Context, req dto.CreateTaskRequest, adminID string) (*domain.Task, error) {
	args := m.Called(ctx, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest, adminID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, taskID string) error {
	return m.Called(ctx, taskID).Error(0)
}

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) LoginWithTelegram(ctx context.Context, initData string) (*dto.LoginResponse, error) {
	args := m.Called(ctx, initData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) LoginAdmin(ctx context.Context, email string, password string) (*dto.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) LoginAdminByVerifiedEmail(ctx context.Context, email string) (*dto.LoginResponse, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) CreateAdmin(ctx context.Context, req dto.CreateAdminRequest, actorID string) (*domain.Admin, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *MockAuthService) EnsureBootstrapAdmin(ctx context.Context, email string, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

// --- Mock GoogleOAuthService ---
type MockGoogleOAuthService struct {
	mock.Mock
}

func (m *MockGoogleOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGoogleOAuthService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return m.Called(ctx, state).String(0)
}

func (m *MockGoogleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockGoogleOAuthService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	args := m.Called(ctx, idTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idtoken.Payload), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.AccountSvcFacade            = (*MockAccountService)(nil)
	_ portssvc.EarningSvcFacade            = (*MockEarningService)(nil)
	_ portssvc.WithdrawalSvcFacade         = (*MockWithdrawalService)(nil)
	_ portssvc.TaskSvcFacade               = (*MockTaskService)(nil)
	_ portssvc.AuthSvcFacade               = (*MockAuthService)(nil)
	_ portssvc.GoogleOAuthHandlerSvcFacade = (*MockGoogleOAuthService)(nil)
)
