package bankexpenses

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lanave/cuadre/internal/platform/db"
	"github.com/lanave/cuadre/internal/platform/httpx"
)

const columns = `id, group_id, category, description, amount_bs, week_start, week_end, is_fixed, created_at, updated_at`

type Repository interface {
	ListWeek(ctx context.Context, weekStart, weekEnd string) ([]BankExpense, error)
	Get(ctx context.Context, id string) (BankExpense, error)
	Create(ctx context.Context, exp BankExpense) (BankExpense, error)
	Update(ctx context.Context, exp BankExpense) (BankExpense, error)
	Delete(ctx context.Context, id string) error
	// EnsureFixed inserts any missing fixed-commission rows for the week.
	EnsureFixed(ctx context.Context, weekStart, weekEnd string, seeds []BankExpense) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListWeek(ctx context.Context, weekStart, weekEnd string) ([]BankExpense, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM weekly_bank_expenses WHERE week_start = $1 AND week_end = $2 ORDER BY is_fixed DESC, description`,
		weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BankExpense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (BankExpense, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM weekly_bank_expenses WHERE id = $1`, id)
	exp, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return BankExpense{}, httpx.ErrNotFound
	}
	return exp, err
}

func (r *repository) Create(ctx context.Context, exp BankExpense) (BankExpense, error) {
	exp.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO weekly_bank_expenses (id, group_id, category, description, amount_bs, week_start, week_end, is_fixed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`,
		exp.ID, exp.GroupID, exp.Category, exp.Description, exp.AmountBs, exp.WeekStart, exp.WeekEnd, exp.IsFixed).
		Scan(&exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		return BankExpense{}, err
	}
	return exp, nil
}

func (r *repository) Update(ctx context.Context, exp BankExpense) (BankExpense, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE weekly_bank_expenses
		 SET group_id = $2, category = $3, description = $4, amount_bs = $5, updated_at = now()
		 WHERE id = $1 RETURNING created_at, updated_at`,
		exp.ID, exp.GroupID, exp.Category, exp.Description, exp.AmountBs).
		Scan(&exp.CreatedAt, &exp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return BankExpense{}, httpx.ErrNotFound
	}
	if err != nil {
		return BankExpense{}, err
	}
	return exp, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM weekly_bank_expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) EnsureFixed(ctx context.Context, weekStart, weekEnd string, seeds []BankExpense) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, seed := range seeds {
			_, err := tx.Exec(ctx,
				`INSERT INTO weekly_bank_expenses (id, group_id, category, description, amount_bs, week_start, week_end, is_fixed)
				 SELECT $1, NULL, $2, $3, 0, $4, $5, true
				 WHERE NOT EXISTS (
					 SELECT 1 FROM weekly_bank_expenses
					 WHERE week_start = $4 AND description = $3 AND is_fixed
				 )`,
				uuid.NewString(), seed.Category, seed.Description, weekStart, weekEnd)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func scanExpense(row pgx.Row) (BankExpense, error) {
	var exp BankExpense
	err := row.Scan(&exp.ID, &exp.GroupID, &exp.Category, &exp.Description, &exp.AmountBs,
		&exp.WeekStart, &exp.WeekEnd, &exp.IsFixed, &exp.CreatedAt, &exp.UpdatedAt)
	return exp, err
}
