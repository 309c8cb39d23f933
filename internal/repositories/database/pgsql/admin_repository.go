package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/reward_ledger/internal/models"
	"github.com/SscSPs/reward_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const adminColumns = `admin_id, email, name, password_hash, role, created_at, created_by, last_updated_at, last_updated_by`

type PgxAdminRepository struct {
	BaseRepository
}

func newPgxAdminRepository(pool *pgxpool.Pool) portsrepo.AdminRepositoryFacade {
	return &PgxAdminRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AdminRepositoryFacade = (*PgxAdminRepository)(nil)

func (r *PgxAdminRepository) FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	return r.findOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE admin_id = $1`, adminID)
}

// FindAdminByEmail matches case-insensitively.
func (r *PgxAdminRepository) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.findOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, strings.ToLower(email))
}

func (r *PgxAdminRepository) findOne(ctx context.Context, query string, arg string) (*domain.Admin, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, storageError("query admin", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Admin])
	if err != nil {
		return nil, queryError("find admin", err)
	}
	a := mapping.ToDomainAdmin(m)
	return &a, nil
}

func (r *PgxAdminRepository) SaveAdmin(ctx context.Context, admin domain.Admin) error {
	m := mapping.ToModelAdmin(admin)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO admins (`+adminColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.AdminID, strings.ToLower(m.Email), m.Name, m.PasswordHash, m.Role,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: admin with email %s already exists", apperrors.ErrDuplicate, m.Email)
		}
		return storageError("save admin", err)
	}
	return nil
}

func (r *PgxAdminRepository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, storageError("count admins", err)
	}
	return n, nil
}
