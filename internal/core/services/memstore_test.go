package services_test

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// memTx stands in for a pgx transaction. Row locks taken through it are held until
// Commit or Rollback, and Rollback replays the undo log.
type memTx struct {
	pgx.Tx
	locks []*sync.Mutex
	undo  []func()
	done  bool
}

// memStore is an in-memory implementation of every ledger repository with
// SELECT ... FOR UPDATE semantics on account and withdrawal rows.
type memStore struct {
	mu          sync.Mutex
	rowLocks    map[string]*sync.Mutex
	accounts    map[string]*domain.Account
	tasks       map[string]domain.Task
	completed   map[string]domain.CompletedTask
	withdrawals map[string]*domain.WithdrawalRequest
	ledger      []domain.LedgerEntry
	sessions    map[string]*domain.AdSession
	commits     int
	rollbacks   int
}

func newMemStore() *memStore {
	return &memStore{
		rowLocks:    map[string]*sync.Mutex{},
		accounts:    map[string]*domain.Account{},
		tasks:       map[string]domain.Task{},
		completed:   map[string]domain.CompletedTask{},
		withdrawals: map[string]*domain.WithdrawalRequest{},
		sessions:    map[string]*domain.AdSession{},
	}
}

func (s *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      s,
		AccountRepo:    s,
		TaskRepo:       s,
		WithdrawalRepo: s,
		LedgerRepo:     s,
		AdSessionRepo:  s,
	}
}

func (s *memStore) seedAccount(id string, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[id] = &domain.Account{
		AccountID:        id,
		Name:             "User " + id,
		Mobile:           "9999999999",
		TelegramUsername: "user" + id,
		Balance:          balance,
		TotalEarned:      balance,
		CompletedTasks:   domain.TaskIDSet{},
	}
}

func (s *memStore) account(id string) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAccount(s.accounts[id])
}

func (s *memStore) entries(accountID string) []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range s.ledger {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out
}

func cloneAccount(a *domain.Account) domain.Account {
	c := *a
	c.CompletedTasks = domain.NewTaskIDSet(a.CompletedTasks.Slice()...)
	return c
}

func (s *memStore) lockRow(tx pgx.Tx, key string) {
	s.mu.Lock()
	l, ok := s.rowLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	mt := tx.(*memTx)
	mt.locks = append(mt.locks, l)
}

// record must be called with s.mu held.
func record(tx pgx.Tx, undo func()) {
	mt := tx.(*memTx)
	mt.undo = append(mt.undo, undo)
}

// --- TransactionManager ---

func (s *memStore) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{}, nil
}

func (s *memStore) Commit(ctx context.Context, tx pgx.Tx) error {
	mt := tx.(*memTx)
	if mt.done {
		return nil
	}
	mt.done = true
	s.mu.Lock()
	s.commits++
	s.mu.Unlock()
	release(mt)
	return nil
}

func (s *memStore) Rollback(ctx context.Context, tx pgx.Tx) error {
	mt := tx.(*memTx)
	if mt.done {
		return nil
	}
	mt.done = true
	s.mu.Lock()
	for i := len(mt.undo) - 1; i >= 0; i-- {
		mt.undo[i]()
	}
	s.rollbacks++
	s.mu.Unlock()
	release(mt)
	return nil
}

func release(mt *memTx) {
	for i := len(mt.locks) - 1; i >= 0; i-- {
		mt.locks[i].Unlock()
	}
	mt.locks = nil
}

// --- Accounts ---

func (s *memStore) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := cloneAccount(a)
	return &c, nil
}

func (s *memStore) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.After(out[j].JoinedAt) })
	if offset >= len(out) {
		return []domain.Account{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountID]; ok {
		return apperrors.ErrDuplicate
	}
	c := cloneAccount(&account)
	s.accounts[account.AccountID] = &c
	return nil
}

func (s *memStore) SetSuspended(ctx context.Context, accountID string, suspended bool, actorID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.IsSuspended = suspended
	a.LastUpdatedBy = actorID
	a.LastUpdatedAt = now
	return nil
}

func (s *memStore) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	s.lockRow(tx, "account:"+accountID)
	return s.FindAccountByID(ctx, accountID)
}

func (s *memStore) ApplyEarningInTx(ctx context.Context, tx pgx.Tx, accountID string, delta domain.AccountDelta, now time.Time) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	before := cloneAccount(a)
	record(tx, func() { *a = before })

	a.Balance += delta.Reward
	a.TotalEarned += delta.Reward
	a.AdTasksCompleted += delta.AdTasks
	a.DynamicTasksCompleted += delta.DynamicTasks
	if delta.ClaimedAt != nil {
		claimed := *delta.ClaimedAt
		a.LastClaimAt = &claimed
	}
	a.LastUpdatedAt = now
	a.LastUpdatedBy = domain.SystemActor

	c := cloneAccount(a)
	c.CompletedTasks = nil
	return &c, nil
}

func (s *memStore) RecordCompletedTaskInTx(ctx context.Context, tx pgx.Tx, completed domain.CompletedTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := completed.AccountID + "/" + completed.TaskID
	if _, ok := s.completed[key]; ok {
		return apperrors.ErrTaskNotEligible
	}
	s.completed[key] = completed
	a := s.accounts[completed.AccountID]
	a.CompletedTasks[completed.TaskID] = struct{}{}
	record(tx, func() {
		delete(s.completed, key)
		delete(a.CompletedTasks, completed.TaskID)
	})
	return nil
}

func (s *memStore) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, amount int64, actorID string, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	if a.Balance+amount < 0 {
		return 0, apperrors.ErrInsufficientBalance
	}
	prev := a.Balance
	record(tx, func() { a.Balance = prev })
	a.Balance += amount
	return a.Balance, nil
}

// --- Tasks ---

func (s *memStore) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (s *memStore) ListTasks(ctx context.Context, activeOnly bool) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Task{}
	for _, t := range s.tasks {
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) SaveTask(ctx context.Context, task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.TaskID]; ok {
		return apperrors.ErrDuplicate
	}
	s.tasks[task.TaskID] = task
	return nil
}

func (s *memStore) UpdateTask(ctx context.Context, task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.TaskID]; !ok {
		return apperrors.ErrNotFound
	}
	s.tasks[task.TaskID] = task
	return nil
}

func (s *memStore) DeleteTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[taskID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

// --- Withdrawals ---

func (s *memStore) FindWithdrawalByID(ctx context.Context, withdrawalID string) (*domain.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[withdrawalID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *w
	return &c, nil
}

func (s *memStore) listWithdrawals(match func(*domain.WithdrawalRequest) bool, asc bool, limit int) []domain.WithdrawalRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.WithdrawalRequest{}
	for _, w := range s.withdrawals {
		if match(w) {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *memStore) ListWithdrawalsByStatus(ctx context.Context, status domain.WithdrawalStatus, limit int, after *portsrepo.PageCursor) ([]domain.WithdrawalRequest, error) {
	return s.listWithdrawals(func(w *domain.WithdrawalRequest) bool {
		return w.Status == status && (after == nil || w.CreatedAt.After(after.CreatedAt))
	}, true, limit), nil
}

func (s *memStore) ListWithdrawalsByAccount(ctx context.Context, accountID string, limit int, after *portsrepo.PageCursor) ([]domain.WithdrawalRequest, error) {
	return s.listWithdrawals(func(w *domain.WithdrawalRequest) bool {
		return w.AccountID == accountID && (after == nil || w.CreatedAt.Before(after.CreatedAt))
	}, false, limit), nil
}

func (s *memStore) FindWithdrawalByIDForUpdate(ctx context.Context, tx pgx.Tx, withdrawalID string) (*domain.WithdrawalRequest, error) {
	s.lockRow(tx, "withdrawal:"+withdrawalID)
	return s.FindWithdrawalByID(ctx, withdrawalID)
}

func (s *memStore) FindWithdrawalByIdempotencyKeyInTx(ctx context.Context, tx pgx.Tx, accountID string, key string) (*domain.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.withdrawals {
		if w.AccountID == accountID && w.IdempotencyKey == key {
			c := *w
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) SaveWithdrawalInTx(ctx context.Context, tx pgx.Tx, w domain.WithdrawalRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.withdrawals[w.WithdrawalID]; ok {
		return apperrors.ErrDuplicate
	}
	c := w
	s.withdrawals[w.WithdrawalID] = &c
	record(tx, func() { delete(s.withdrawals, w.WithdrawalID) })
	return nil
}

func (s *memStore) ResolveWithdrawalInTx(ctx context.Context, tx pgx.Tx, withdrawalID string, status domain.WithdrawalStatus, remarks string, actorID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[withdrawalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if w.Status != domain.WithdrawalPending {
		return apperrors.ErrAlreadyResolved
	}
	before := *w
	record(tx, func() { *w = before })
	w.Status = status
	w.Remarks = remarks
	w.ResolvedAt = &now
	w.ResolvedBy = actorID
	return nil
}

// --- Ledger ---

func (s *memStore) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append(s.ledger, entry)
	record(tx, func() {
		s.ledger = slices.DeleteFunc(s.ledger, func(e domain.LedgerEntry) bool { return e.EntryID == entry.EntryID })
	})
	return nil
}

func (s *memStore) ListLedgerEntries(ctx context.Context, accountID string, limit int, after *portsrepo.PageCursor) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.LedgerEntry{}
	for i := len(s.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		e := s.ledger[i]
		if e.AccountID == accountID && (after == nil || e.CreatedAt.Before(after.CreatedAt)) {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- Ad sessions ---

func (s *memStore) SaveAdSession(ctx context.Context, session domain.AdSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := session
	s.sessions[session.TokenHash] = &c
	return nil
}

func (s *memStore) ConsumeAdSessionInTx(ctx context.Context, tx pgx.Tx, accountID string, tokenHash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[tokenHash]
	if !ok || sess.AccountID != accountID || sess.ConsumedAt != nil || !now.Before(sess.ExpiresAt) {
		return apperrors.ErrAdSessionInvalid
	}
	consumed := now
	sess.ConsumedAt = &consumed
	record(tx, func() { sess.ConsumedAt = nil })
	return nil
}
