package agencies

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lanave/cuadre/internal/masterdata/shared"
	"github.com/lanave/cuadre/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Agency, int, error)
	Get(ctx context.Context, id string) (Agency, error)
	Create(ctx context.Context, agency Agency) (Agency, error)
	Update(ctx context.Context, id string, agency Agency) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Agency, int, error) {
	query := `SELECT id, name, COALESCE(phone,''), COALESCE(address,''), group_id, is_active, created_at, updated_at FROM agencies WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM agencies WHERE 1=1`
	args := []any{}
	where := ""

	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		where += ` AND is_active = $` + strconv.Itoa(len(args))
	}
	if filters.GroupID != nil {
		args = append(args, *filters.GroupID)
		where += ` AND group_id = $` + strconv.Itoa(len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Agency
	for rows.Next() {
		var a Agency
		if err := rows.Scan(&a.ID, &a.Name, &a.Phone, &a.Address, &a.GroupID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Agency, error) {
	const query = `SELECT id, name, COALESCE(phone,''), COALESCE(address,''), group_id, is_active, created_at, updated_at FROM agencies WHERE id = $1`
	var a Agency
	err := r.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Phone, &a.Address, &a.GroupID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Agency{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *repository) Create(ctx context.Context, agency Agency) (Agency, error) {
	agency.ID = uuid.NewString()
	const query = `INSERT INTO agencies (id, name, phone, address, group_id, is_active) VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query, agency.ID, agency.Name, agency.Phone, agency.Address, agency.GroupID, agency.IsActive).
		Scan(&agency.CreatedAt, &agency.UpdatedAt)
	return agency, err
}

func (r *repository) Update(ctx context.Context, id string, agency Agency) error {
	const query = `UPDATE agencies SET name = $1, phone = $2, address = $3, group_id = $4, is_active = $5, updated_at = now() WHERE id = $6`
	tag, err := r.db.Exec(ctx, query, agency.Name, agency.Phone, agency.Address, agency.GroupID, agency.IsActive, id)
	if err == nil && tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM agencies WHERE id = $1`, id)
	if err == nil && tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return err
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
