package employees

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

const columns = `id, agency_id, full_name, role, weekly_salary_bs, is_active, created_at, updated_at`

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, employee Employee) (Employee, error)
	Update(ctx context.Context, id string, employee Employee) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Employee, error) {
	query := `SELECT ` + columns + ` FROM employees WHERE 1=1`
	args := []any{}
	if filters.AgencyID != nil {
		args = append(args, *filters.AgencyID)
		query += ` AND agency_id = $` + strconv.Itoa(len(args))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		query += ` AND is_active = $` + strconv.Itoa(len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		query += ` AND full_name ILIKE $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY full_name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.AgencyID, &e.FullName, &e.Role, &e.WeeklySalary, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Employee, error) {
	var e Employee
	err := r.db.QueryRow(ctx, `SELECT `+columns+` FROM employees WHERE id = $1`, id).
		Scan(&e.ID, &e.AgencyID, &e.FullName, &e.Role, &e.WeeklySalary, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, httpx.ErrNotFound
	}
	return e, err
}

func (r *repository) Create(ctx context.Context, employee Employee) (Employee, error) {
	employee.ID = uuid.NewString()
	err := r.db.QueryRow(ctx,
		`INSERT INTO employees (id, agency_id, full_name, role, weekly_salary_bs, is_active) VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`,
		employee.ID, employee.AgencyID, employee.FullName, employee.Role, employee.WeeklySalary, employee.IsActive).
		Scan(&employee.CreatedAt, &employee.UpdatedAt)
	return employee, err
}

func (r *repository) Update(ctx context.Context, id string, employee Employee) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE employees SET agency_id = $1, full_name = $2, role = $3, weekly_salary_bs = $4, is_active = $5, updated_at = now() WHERE id = $6`,
		employee.AgencyID, employee.FullName, employee.Role, employee.WeeklySalary, employee.IsActive, id)
	if err == nil && tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err == nil && tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return err
}
