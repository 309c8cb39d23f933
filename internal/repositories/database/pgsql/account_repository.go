package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/reward_ledger/internal/models"
	"github.com/SscSPs/reward_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, name, mobile, telegram_username, balance, total_earned,
	ad_tasks_completed, dynamic_tasks_completed, last_claim_at, is_suspended, joined_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

// SaveAccount inserts a newly onboarded account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.Name, m.Mobile, m.TelegramUsername, m.Balance, m.TotalEarned,
		m.AdTasksCompleted, m.DynamicTasksCompleted, m.LastClaimAt, m.IsSuspended, m.JoinedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return storageError(fmt.Sprintf("save account %s", m.AccountID), err)
	}
	return nil
}

// FindAccountByID retrieves an account and its completed task set.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findAccount(ctx, r.Pool, accountID, false)
}

// FindAccountByIDForUpdate is FindAccountByID under a row lock held until tx ends.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	return r.findAccount(ctx, tx, accountID, true)
}

func (r *PgxAccountRepository) findAccount(ctx context.Context, q querier, accountID string, forUpdate bool) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, accountID)
	if err != nil {
		return nil, storageError("query account", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, queryError(fmt.Sprintf("find account %s", accountID), err)
	}

	completed, err := r.completedTasks(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	acc := mapping.ToDomainAccount(m, completed)
	return &acc, nil
}

func (r *PgxAccountRepository) completedTasks(ctx context.Context, q querier, accountID string) (domain.TaskIDSet, error) {
	rows, err := q.Query(ctx, `SELECT task_id FROM completed_tasks WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, storageError("query completed tasks", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storageError("scan completed tasks", err)
	}
	return domain.NewTaskIDSet(ids...), nil
}

// ListAccounts retrieves a page of accounts, newest first. Completed task sets are not loaded.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY joined_at DESC, account_id DESC LIMIT $1 OFFSET $2`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, storageError("list accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, storageError("scan accounts", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// SetSuspended toggles the suspension flag.
func (r *PgxAccountRepository) SetSuspended(ctx context.Context, accountID string, suspended bool, actorID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounts SET is_suspended = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1`, accountID, suspended, now, actorID)
	if err != nil {
		return storageError("update suspension", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyEarningInTx increments the counters server-side so the row never regresses
// even if the caller's snapshot is stale.
func (r *PgxAccountRepository) ApplyEarningInTx(ctx context.Context, tx pgx.Tx, accountID string, delta domain.AccountDelta, now time.Time) (*domain.Account, error) {
	query := `
		UPDATE accounts SET
			balance = balance + $2,
			total_earned = total_earned + $2,
			ad_tasks_completed = ad_tasks_completed + $3,
			dynamic_tasks_completed = dynamic_tasks_completed + $4,
			last_claim_at = COALESCE($5, last_claim_at),
			last_updated_at = $6,
			last_updated_by = $7
		WHERE account_id = $1
		RETURNING ` + accountColumns

	rows, err := tx.Query(ctx, query, accountID, delta.Reward, delta.AdTasks, delta.DynamicTasks, delta.ClaimedAt, now, domain.SystemActor)
	if err != nil {
		return nil, storageError("apply earning", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, queryError(fmt.Sprintf("apply earning to %s", accountID), err)
	}
	acc := mapping.ToDomainAccount(m, nil)
	return &acc, nil
}

// RecordCompletedTaskInTx inserts into completed_tasks. The primary key on (account_id, task_id)
// turns a second credit of the same task into ErrTaskNotEligible.
func (r *PgxAccountRepository) RecordCompletedTaskInTx(ctx context.Context, tx pgx.Tx, completed domain.CompletedTask) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO completed_tasks (account_id, task_id, reward, completed_at)
		VALUES ($1, $2, $3, $4)`,
		completed.AccountID, completed.TaskID, completed.Reward, completed.CompletedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: task %s already completed", apperrors.ErrTaskNotEligible, completed.TaskID)
		}
		return storageError("record completed task", err)
	}
	return nil
}

// AdjustBalanceInTx adds a signed amount to the balance. The guard in the WHERE clause
// keeps the balance non-negative without relying on the caller's snapshot.
func (r *PgxAccountRepository) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, amount int64, actorID string, now time.Time) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, `
		UPDATE accounts SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND balance + $2 >= 0
		RETURNING balance`, accountID, amount, now, actorID).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errorsIsNoRows(err) {
		return 0, storageError("adjust balance", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`, accountID).Scan(&exists); err != nil {
		return 0, storageError("check account", err)
	}
	if !exists {
		return 0, apperrors.ErrNotFound
	}
	return 0, apperrors.ErrInsufficientBalance
}
