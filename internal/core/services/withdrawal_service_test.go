package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/core/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockWithdrawalNotifier is a mock type for the WithdrawalNotifier interface
type MockWithdrawalNotifier struct {
	mock.Mock
}

func (m *MockWithdrawalNotifier) NotifyWithdrawalResolvedTx(ctx context.Context, tx pgx.Tx, w domain.WithdrawalRequest) error {
	args := m.Called(ctx, tx, w)
	return args.Error(0)
}

type WithdrawalServiceTestSuite struct {
	suite.Suite
	store    *memStore
	notifier *MockWithdrawalNotifier
	clock    *testClock
	service  portssvc.WithdrawalSvcFacade
}

func (suite *WithdrawalServiceTestSuite) SetupTest() {
	suite.store = newMemStore()
	suite.notifier = new(MockWithdrawalNotifier)
	suite.clock = &testClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	suite.service = services.NewWithdrawalService(suite.store.provider(), 250,
		services.WithWithdrawalClock(suite.clock.Now),
		services.WithWithdrawalNotifier(suite.notifier))

	suite.store.seedAccount("42", 300)
}

func request(amount int64, address, key string) dto.CreateWithdrawalRequest {
	return dto.CreateWithdrawalRequest{Amount: amount, Address: address, IdempotencyKey: key}
}

func (suite *WithdrawalServiceTestSuite) TestCreateThenReject_RefundsEscrow() {
	ctx := context.Background()

	w, replayed, err := suite.service.CreateWithdrawal(ctx, "42", request(260, "upi@bank", "k1"))
	suite.Require().NoError(err)
	suite.False(replayed)
	suite.Equal(domain.WithdrawalPending, w.Status)
	suite.Equal(int64(40), suite.store.account("42").Balance)
	suite.Equal(int64(300), suite.store.account("42").TotalEarned)

	suite.notifier.On("NotifyWithdrawalResolvedTx", ctx, mock.Anything, mock.MatchedBy(func(r domain.WithdrawalRequest) bool {
		return r.WithdrawalID == w.WithdrawalID && r.Status == domain.WithdrawalRejected
	})).Return(nil).Once()

	rejected, err := suite.service.RejectWithdrawal(ctx, w.WithdrawalID, "admin-1", "bad address")
	suite.Require().NoError(err)
	suite.Equal(domain.WithdrawalRejected, rejected.Status)
	suite.Equal("bad address", rejected.Remarks)
	suite.Equal("admin-1", rejected.ResolvedBy)
	suite.Require().NotNil(rejected.ResolvedAt)
	suite.Equal(int64(300), suite.store.account("42").Balance)

	_, err = suite.service.ApproveWithdrawal(ctx, w.WithdrawalID, "admin-2")
	suite.ErrorIs(err, apperrors.ErrAlreadyResolved)
	suite.Equal(int64(300), suite.store.account("42").Balance)

	entries := suite.store.entries("42")
	suite.Require().Len(entries, 2)
	suite.Equal(domain.EntryWithdrawalEscrow, entries[0].EntryType)
	suite.Equal(int64(-260), entries[0].Amount)
	suite.Equal(int64(40), entries[0].BalanceAfter)
	suite.Equal(domain.EntryWithdrawalRefund, entries[1].EntryType)
	suite.Equal(int64(260), entries[1].Amount)
	suite.Equal(int64(300), entries[1].BalanceAfter)

	suite.notifier.AssertExpectations(suite.T())
}

func (suite *WithdrawalServiceTestSuite) TestApprove_KeepsBalance() {
	ctx := context.Background()
	w, _, err := suite.service.CreateWithdrawal(ctx, "42", request(250, "upi@bank", "k1"))
	suite.Require().NoError(err)

	suite.notifier.On("NotifyWithdrawalResolvedTx", ctx, mock.Anything, mock.AnythingOfType("domain.WithdrawalRequest")).Return(nil).Once()

	approved, err := suite.service.ApproveWithdrawal(ctx, w.WithdrawalID, "admin-1")
	suite.Require().NoError(err)
	suite.Equal(domain.WithdrawalApproved, approved.Status)
	suite.Empty(approved.Remarks)
	suite.Equal(int64(50), suite.store.account("42").Balance)
	suite.Len(suite.store.entries("42"), 1)

	_, err = suite.service.RejectWithdrawal(ctx, w.WithdrawalID, "admin-1", "")
	suite.ErrorIs(err, apperrors.ErrAlreadyResolved)
	suite.Equal(int64(50), suite.store.account("42").Balance)
}

func (suite *WithdrawalServiceTestSuite) TestReject_DefaultRemarks() {
	ctx := context.Background()
	w, _, err := suite.service.CreateWithdrawal(ctx, "42", request(250, "upi@bank", "k1"))
	suite.Require().NoError(err)
	suite.notifier.On("NotifyWithdrawalResolvedTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	rejected, err := suite.service.RejectWithdrawal(ctx, w.WithdrawalID, "admin-1", "   ")
	suite.Require().NoError(err)
	suite.Equal(domain.DefaultRejectRemarks, rejected.Remarks)
}

func (suite *WithdrawalServiceTestSuite) TestResolve_NotifierFailureRollsBack() {
	ctx := context.Background()
	w, _, err := suite.service.CreateWithdrawal(ctx, "42", request(260, "upi@bank", "k1"))
	suite.Require().NoError(err)

	suite.notifier.On("NotifyWithdrawalResolvedTx", ctx, mock.Anything, mock.Anything).Return(assert.AnError).Once()

	_, err = suite.service.RejectWithdrawal(ctx, w.WithdrawalID, "admin-1", "bad address")
	suite.Require().ErrorIs(err, assert.AnError)

	stored, err := suite.service.GetWithdrawal(ctx, w.WithdrawalID)
	suite.Require().NoError(err)
	suite.Equal(domain.WithdrawalPending, stored.Status)
	suite.Nil(stored.ResolvedAt)
	suite.Equal(int64(40), suite.store.account("42").Balance)
	suite.Len(suite.store.entries("42"), 1)
}

func (suite *WithdrawalServiceTestSuite) TestCreate_IdempotentReplay() {
	ctx := context.Background()

	first, replayed, err := suite.service.CreateWithdrawal(ctx, "42", request(260, "upi@bank", "k1"))
	suite.Require().NoError(err)
	suite.False(replayed)

	second, replayed, err := suite.service.CreateWithdrawal(ctx, "42", request(260, "upi@bank", "k1"))
	suite.Require().NoError(err)
	suite.True(replayed)
	suite.Equal(first.WithdrawalID, second.WithdrawalID)
	suite.Equal(int64(40), suite.store.account("42").Balance)

	_, _, err = suite.service.CreateWithdrawal(ctx, "42", request(270, "upi@bank", "k1"))
	suite.ErrorIs(err, apperrors.ErrIdempotencyConflict)
	suite.Equal(int64(40), suite.store.account("42").Balance)
}

func (suite *WithdrawalServiceTestSuite) TestCreate_ConcurrentRetriesEscrowOnce() {
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, _, err := suite.service.CreateWithdrawal(ctx, "42", request(260, "upi@bank", "same-key"))
			errs[i] = err
			if w != nil {
				ids[i] = w.WithdrawalID
			}
		}(i)
	}
	wg.Wait()

	for i := range n {
		suite.Require().NoError(errs[i])
		suite.Equal(ids[0], ids[i])
	}
	suite.Equal(int64(40), suite.store.account("42").Balance)
	suite.Len(suite.store.entries("42"), 1)
}

func (suite *WithdrawalServiceTestSuite) TestCreate_ConcurrentRequestsNeverOverdraw() {
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, key := range []string{"a", "b"} {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			_, _, errs[i] = suite.service.CreateWithdrawal(ctx, "42", request(250, "upi@bank", key))
		}(i, key)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
			failures++
		}
	}
	suite.Equal(1, failures)
	suite.Equal(int64(50), suite.store.account("42").Balance)
}

func (suite *WithdrawalServiceTestSuite) TestCreate_Rejections() {
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.CreateWithdrawalRequest
		err  error
	}{
		{"zero amount", request(0, "upi@bank", "k"), apperrors.ErrInvalidAmount},
		{"negative amount", request(-5, "upi@bank", "k"), apperrors.ErrInvalidAmount},
		{"below minimum", request(249, "upi@bank", "k"), apperrors.ErrInvalidAmount},
		{"blank address", request(260, "  ", "k"), apperrors.ErrInvalidAddress},
		{"missing key", request(260, "upi@bank", ""), apperrors.ErrValidation},
		{"more than balance", request(301, "upi@bank", "k"), apperrors.ErrInsufficientBalance},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, _, err := suite.service.CreateWithdrawal(ctx, "42", tt.req)
			suite.ErrorIs(err, tt.err)
			suite.Equal(int64(300), suite.store.account("42").Balance)
		})
	}
}

func (suite *WithdrawalServiceTestSuite) TestCreate_SuspendedAccount() {
	ctx := context.Background()
	_, _, err := suite.service.CreateWithdrawal(ctx, "42", request(260, "upi@bank", "k1"))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.SetSuspended(ctx, "42", true, "admin-1", suite.clock.Now()))

	// a replay of an accepted request still answers
	_, replayed, err := suite.service.CreateWithdrawal(ctx, "42", request(260, "upi@bank", "k1"))
	suite.Require().NoError(err)
	suite.True(replayed)

	_, _, err = suite.service.CreateWithdrawal(ctx, "42", request(250, "upi@bank", "k2"))
	suite.ErrorIs(err, apperrors.ErrAccountSuspended)
}

func (suite *WithdrawalServiceTestSuite) TestResolve_UnknownWithdrawal() {
	_, err := suite.service.ApproveWithdrawal(context.Background(), "missing", "admin-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *WithdrawalServiceTestSuite) TestListPending_OldestFirstWithPaging() {
	ctx := context.Background()
	suite.store.seedAccount("43", 1000)
	for _, key := range []string{"k1", "k2", "k3"} {
		_, _, err := suite.service.CreateWithdrawal(ctx, "43", request(250, "upi@bank", key))
		suite.Require().NoError(err)
		suite.clock.Advance(time.Minute)
	}

	page, next, err := suite.service.ListPendingWithdrawals(ctx, dto.ListWithdrawalsParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page, 2)
	suite.True(page[0].CreatedAt.Before(page[1].CreatedAt))
	suite.Require().NotNil(next)

	rest, next, err := suite.service.ListPendingWithdrawals(ctx, dto.ListWithdrawalsParams{Limit: 2, NextToken: *next})
	suite.Require().NoError(err)
	suite.Len(rest, 1)
	suite.Nil(next)

	_, _, err = suite.service.ListPendingWithdrawals(ctx, dto.ListWithdrawalsParams{NextToken: "%%%"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WithdrawalServiceTestSuite) TestSuspendedAccount_KeepsReadAccess() {
	ctx := context.Background()
	_, _, err := suite.service.CreateWithdrawal(ctx, "42", request(260, "upi@bank", "k1"))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.SetSuspended(ctx, "42", true, "admin-1", suite.clock.Now()))

	_, _, err = suite.service.CreateWithdrawal(ctx, "42", request(30, "upi@bank", "k2"))
	suite.ErrorIs(err, apperrors.ErrAccountSuspended)
	suite.Equal(int64(40), suite.store.account("42").Balance)

	list, _, err := suite.service.ListAccountWithdrawals(ctx, "42", dto.ListWithdrawalsParams{Limit: 10})
	suite.Require().NoError(err)
	suite.Len(list, 1)
}

func TestWithdrawalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WithdrawalServiceTestSuite))
}
