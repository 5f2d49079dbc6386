package systems

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lanave/cuadre/internal/masterdata/shared"
	"github.com/lanave/cuadre/internal/platform/httpx"
)

const columns = `id, name, code, parent_system_id, has_subcategories, is_active, created_at, updated_at`

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]System, int, error)
	Get(ctx context.Context, id string) (System, error)
	Create(ctx context.Context, system System) (System, error)
	Update(ctx context.Context, id string, system System) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]System, int, error) {
	query := `SELECT ` + columns + ` FROM lottery_systems WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM lottery_systems WHERE 1=1`
	args := []any{}
	where := ""

	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		where += ` AND is_active = $` + strconv.Itoa(len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR code ILIKE $` + n + `)`
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, query+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []System
	for rows.Next() {
		s, err := scanSystem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (System, error) {
	row := r.db.QueryRow(ctx, `SELECT `+columns+` FROM lottery_systems WHERE id = $1`, id)
	s, err := scanSystem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return System{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, system System) (System, error) {
	system.ID = uuid.NewString()
	err := r.db.QueryRow(ctx,
		`INSERT INTO lottery_systems (id, name, code, parent_system_id, has_subcategories, is_active) VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`,
		system.ID, system.Name, system.Code, system.ParentSystemID, system.HasSubcategories, system.IsActive).
		Scan(&system.CreatedAt, &system.UpdatedAt)
	if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
		return System{}, httpx.ErrDuplicate
	}
	return system, err
}

func (r *repository) Update(ctx context.Context, id string, system System) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE lottery_systems SET name = $1, code = $2, parent_system_id = $3, has_subcategories = $4, is_active = $5, updated_at = now() WHERE id = $6`,
		system.Name, system.Code, system.ParentSystemID, system.HasSubcategories, system.IsActive, id)
	if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	if err == nil && tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM lottery_systems WHERE id = $1`, id)
	if err == nil && tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return err
}

func scanSystem(row pgx.Row) (System, error) {
	var s System
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.ParentSystemID, &s.HasSubcategories, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
