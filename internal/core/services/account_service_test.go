package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/core/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/SscSPs/reward_ledger/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockAccountRepository
	mockLedger *MockLedgerRepository
	now        time.Time
	service    portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockLedger = new(MockLedgerRepository)
	suite.now = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	suite.service = services.NewAccountService(suite.mockRepo, suite.mockLedger,
		services.WithClock(func() time.Time { return suite.now }))
}

func (suite *AccountServiceTestSuite) TestOnboard_Success() {
	ctx := context.Background()
	req := dto.OnboardRequest{Name: "  Asha  ", Mobile: "9876543210"}

	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.AccountID == "42" && a.Name == "Asha" && a.Balance == 0 && a.TotalEarned == 0
	})).Return(nil).Once()

	acc, err := suite.service.Onboard(ctx, "42", "", req)

	suite.Require().NoError(err)
	suite.Equal(domain.DefaultTelegramUsername, acc.TelegramUsername)
	suite.Zero(acc.AdTasksCompleted)
	suite.Zero(acc.DynamicTasksCompleted)
	suite.Nil(acc.LastClaimAt)
	suite.NotNil(acc.CompletedTasks)
	suite.Equal(suite.now, acc.JoinedAt)
	suite.Equal("42", acc.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestOnboard_Duplicate() {
	ctx := context.Background()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	acc, err := suite.service.Onboard(ctx, "42", "asha", dto.OnboardRequest{Name: "Asha", Mobile: "1"})

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestOnboard_MissingFields() {
	_, err := suite.service.Onboard(context.Background(), "42", "asha", dto.OnboardRequest{Name: " ", Mobile: "1"})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccount_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "404").Return(nil, apperrors.ErrNotFound).Once()

	acc, err := suite.service.GetAccount(ctx, "404")

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts_DefaultsLimit() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx, 20, 0).Return([]domain.Account{{AccountID: "1"}}, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, dto.ListAccountsParams{})

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListLedgerEntries_Paging() {
	ctx := context.Background()
	t0 := suite.now
	rows := []domain.LedgerEntry{
		{EntryID: "e3", CreatedAt: t0.Add(2 * time.Minute)},
		{EntryID: "e2", CreatedAt: t0.Add(time.Minute)},
		{EntryID: "e1", CreatedAt: t0},
	}
	suite.mockLedger.On("ListLedgerEntries", ctx, "42", 3, mock.Anything).Return(rows, nil).Once()

	page, next, err := suite.service.ListLedgerEntries(ctx, "42", dto.ListLedgerParams{Limit: 2})

	suite.Require().NoError(err)
	suite.Len(page, 2)
	suite.Require().NotNil(next)
	createdAt, id, err := pagination.DecodeToken(*next)
	suite.Require().NoError(err)
	suite.Equal("e2", id)
	suite.True(createdAt.Equal(t0.Add(time.Minute)))
}

func (suite *AccountServiceTestSuite) TestListLedgerEntries_StorageError() {
	ctx := context.Background()
	suite.mockLedger.On("ListLedgerEntries", ctx, "42", 21, mock.Anything).Return(nil, assert.AnError).Once()

	_, _, err := suite.service.ListLedgerEntries(ctx, "42", dto.ListLedgerParams{})

	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestSetSuspended() {
	ctx := context.Background()
	suite.mockRepo.On("SetSuspended", ctx, "42", true, "admin-1", suite.now).Return(nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, "42").Return(&domain.Account{AccountID: "42", IsSuspended: true}, nil).Once()

	acc, err := suite.service.SetSuspended(ctx, "42", true, "admin-1")

	suite.Require().NoError(err)
	suite.True(acc.IsSuspended)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
