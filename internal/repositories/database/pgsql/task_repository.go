package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/reward_ledger/internal/models"
	"github.com/SscSPs/reward_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `task_id, title, description, reward, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxTaskRepository struct {
	BaseRepository
}

func newPgxTaskRepository(pool *pgxpool.Pool) portsrepo.TaskRepositoryFacade {
	return &PgxTaskRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaskRepositoryFacade = (*PgxTaskRepository)(nil)

func (r *PgxTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.TaskID, m.Title, m.Description, m.Reward, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: task %s already exists", apperrors.ErrDuplicate, m.TaskID)
		}
		return storageError("save task", err)
	}
	return nil
}

func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE task_id = $1`, taskID)
	if err != nil {
		return nil, storageError("query task", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Task])
	if err != nil {
		return nil, queryError(fmt.Sprintf("find task %s", taskID), err)
	}
	t := mapping.ToDomainTask(m)
	return &t, nil
}

func (r *PgxTaskRepository) ListTasks(ctx context.Context, activeOnly bool) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at ASC, task_id ASC`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, storageError("list tasks", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Task])
	if err != nil {
		return nil, storageError("scan tasks", err)
	}
	return mapping.ToDomainTaskSlice(ms), nil
}

// UpdateTask overwrites the mutable fields. A reward change never touches
// completed_tasks, whose reward column keeps what was actually paid.
func (r *PgxTaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE tasks SET title = $2, description = $3, reward = $4, is_active = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE task_id = $1`,
		m.TaskID, m.Title, m.Description, m.Reward, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return storageError("update task", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTaskRepository) DeleteTask(ctx context.Context, taskID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM tasks WHERE task_id = $1`, taskID)
	if err != nil {
		return storageError("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
