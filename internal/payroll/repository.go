package payroll

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lanave/cuadre/internal/platform/db"
	"github.com/lanave/cuadre/internal/platform/httpx"
)

const columns = `id, employee_id, week_start_date, week_end_date, weekly_base_salary, sunday_payment, bonuses_extras, absences_deductions, other_deductions, exchange_rate, total_usd, total_bs, created_at, updated_at`

type Repository interface {
	ListWeek(ctx context.Context, weekStart string) ([]Entry, error)
	// UpsertWeek writes the whole sheet, keyed by (employee, week start).
	UpsertWeek(ctx context.Context, entries []Entry) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListWeek(ctx context.Context, weekStart string) ([]Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM weekly_payroll WHERE week_start_date = $1 ORDER BY created_at`,
		weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.EmployeeID, &e.WeekStart, &e.WeekEnd, &e.WeeklyBaseSalary,
			&e.SundayPayment, &e.BonusesExtras, &e.AbsencesDeductions, &e.OtherDeductions,
			&e.ExchangeRate, &e.TotalUsd, &e.TotalBs, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) UpsertWeek(ctx context.Context, entries []Entry) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, e := range entries {
			_, err := tx.Exec(ctx,
				`INSERT INTO weekly_payroll (id, employee_id, week_start_date, week_end_date, weekly_base_salary, sunday_payment, bonuses_extras, absences_deductions, other_deductions, exchange_rate, total_usd, total_bs)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				 ON CONFLICT (employee_id, week_start_date) DO UPDATE SET
					 week_end_date = EXCLUDED.week_end_date,
					 weekly_base_salary = EXCLUDED.weekly_base_salary,
					 sunday_payment = EXCLUDED.sunday_payment,
					 bonuses_extras = EXCLUDED.bonuses_extras,
					 absences_deductions = EXCLUDED.absences_deductions,
					 other_deductions = EXCLUDED.other_deductions,
					 exchange_rate = EXCLUDED.exchange_rate,
					 total_usd = EXCLUDED.total_usd,
					 total_bs = EXCLUDED.total_bs,
					 updated_at = now()`,
				uuid.NewString(), e.EmployeeID, e.WeekStart, e.WeekEnd, e.WeeklyBaseSalary,
				e.SundayPayment, e.BonusesExtras, e.AbsencesDeductions, e.OtherDeductions,
				e.ExchangeRate, e.TotalUsd, e.TotalBs)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM weekly_payroll WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
