package loans

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

const columns = `id, from_agency_id, to_agency_id, amount_bs, amount_usd, loan_date, due_date, reason, status, created_at, updated_at`

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Loan, error)
	Get(ctx context.Context, id string) (Loan, error)
	Create(ctx context.Context, loan Loan) (Loan, error)
	Update(ctx context.Context, loan Loan) (Loan, error)
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	// PendingInRange lists pendiente loans whose loan_date falls in the
	// date window.
	PendingInRange(ctx context.Context, from, to string) ([]Loan, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Loan, error) {
	query := `SELECT ` + columns + ` FROM inter_agency_loans WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filters.AgencyID != nil {
		p := arg(*filters.AgencyID)
		query += ` AND (from_agency_id = ` + p + ` OR to_agency_id = ` + p + `)`
	}
	if filters.Status != nil {
		query += ` AND status = ` + arg(*filters.Status)
	}
	if filters.DateFrom != "" {
		query += ` AND loan_date >= ` + arg(filters.DateFrom)
	}
	if filters.DateTo != "" {
		query += ` AND loan_date <= ` + arg(filters.DateTo)
	}
	query += ` ORDER BY loan_date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repository) Get(ctx context.Context, id string) (Loan, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM inter_agency_loans WHERE id = $1`, id)
	loan, err := scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, httpx.ErrNotFound
	}
	return loan, err
}

func (r *repository) Create(ctx context.Context, loan Loan) (Loan, error) {
	loan.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO inter_agency_loans (id, from_agency_id, to_agency_id, amount_bs, amount_usd, loan_date, due_date, reason, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`,
		loan.ID, loan.FromAgencyID, loan.ToAgencyID, loan.AmountBs, loan.AmountUsd,
		loan.LoanDate, loan.DueDate, loan.Reason, loan.Status).
		Scan(&loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		return Loan{}, err
	}
	return loan, nil
}

func (r *repository) Update(ctx context.Context, loan Loan) (Loan, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE inter_agency_loans
		 SET amount_bs = $2, amount_usd = $3, loan_date = $4, due_date = $5, reason = $6, updated_at = now()
		 WHERE id = $1 RETURNING from_agency_id, to_agency_id, status, created_at, updated_at`,
		loan.ID, loan.AmountBs, loan.AmountUsd, loan.LoanDate, loan.DueDate, loan.Reason).
		Scan(&loan.FromAgencyID, &loan.ToAgencyID, &loan.Status, &loan.CreatedAt, &loan.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, httpx.ErrNotFound
	}
	if err != nil {
		return Loan{}, err
	}
	return loan, nil
}

func (r *repository) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE inter_agency_loans SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inter_agency_loans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) PendingInRange(ctx context.Context, from, to string) ([]Loan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM inter_agency_loans
		 WHERE status = $1 AND loan_date BETWEEN $2 AND $3 ORDER BY loan_date`,
		shared.LoanStatusPendiente, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Loan, error) {
	var out []Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loan)
	}
	return out, rows.Err()
}

func scanLoan(row pgx.Row) (Loan, error) {
	var loan Loan
	err := row.Scan(&loan.ID, &loan.FromAgencyID, &loan.ToAgencyID, &loan.AmountBs, &loan.AmountUsd,
		&loan.LoanDate, &loan.DueDate, &loan.Reason, &loan.Status, &loan.CreatedAt, &loan.UpdatedAt)
	return loan, err
}
