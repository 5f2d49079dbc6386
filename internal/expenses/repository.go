package expenses

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
)

const columns = `id, agency_id, session_id, category, description, amount_bs, amount_usd, is_paid, transaction_date, created_at, updated_at`

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Expense, error)
	Get(ctx context.Context, id string) (Expense, error)
	Create(ctx context.Context, exp Expense) (Expense, error)
	Update(ctx context.Context, exp Expense) (Expense, error)
	SetPaid(ctx context.Context, id string, paid bool) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Expense, error) {
	query := `SELECT ` + columns + ` FROM expenses WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filters.AgencyID != nil {
		query += ` AND agency_id = ` + arg(*filters.AgencyID)
	}
	if filters.Category != nil {
		query += ` AND category = ` + arg(string(*filters.Category))
	}
	if filters.IsPaid != nil {
		query += ` AND is_paid = ` + arg(*filters.IsPaid)
	}
	if filters.DateFrom != "" {
		query += ` AND transaction_date >= ` + arg(filters.DateFrom)
	}
	if filters.DateTo != "" {
		query += ` AND transaction_date <= ` + arg(filters.DateTo)
	}
	query += ` ORDER BY transaction_date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Expense, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM expenses WHERE id = $1`, id)
	exp, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, httpx.ErrNotFound
	}
	return exp, err
}

func (r *repository) Create(ctx context.Context, exp Expense) (Expense, error) {
	exp.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO expenses (id, agency_id, session_id, category, description, amount_bs, amount_usd, is_paid, transaction_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`,
		exp.ID, exp.AgencyID, exp.SessionID, string(exp.Category), exp.Description,
		exp.AmountBs, exp.AmountUsd, exp.IsPaid, exp.TransactionDate).
		Scan(&exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		return Expense{}, err
	}
	return exp, nil
}

func (r *repository) Update(ctx context.Context, exp Expense) (Expense, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE expenses
		 SET category = $2, description = $3, amount_bs = $4, amount_usd = $5, transaction_date = $6, updated_at = now()
		 WHERE id = $1 RETURNING agency_id, session_id, is_paid, created_at, updated_at`,
		exp.ID, string(exp.Category), exp.Description, exp.AmountBs, exp.AmountUsd, exp.TransactionDate).
		Scan(&exp.AgencyID, &exp.SessionID, &exp.IsPaid, &exp.CreatedAt, &exp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, httpx.ErrNotFound
	}
	if err != nil {
		return Expense{}, err
	}
	return exp, nil
}

func (r *repository) SetPaid(ctx context.Context, id string, paid bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET is_paid = $2, updated_at = now() WHERE id = $1`, id, paid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (Expense, error) {
	var exp Expense
	var category string
	err := row.Scan(&exp.ID, &exp.AgencyID, &exp.SessionID, &category, &exp.Description,
		&exp.AmountBs, &exp.AmountUsd, &exp.IsPaid, &exp.TransactionDate, &exp.CreatedAt, &exp.UpdatedAt)
	exp.Category = shared.ExpenseCategory(category)
	return exp, err
}
