package cuadre

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository exposes the raw reads the weekly aggregation needs. All date
// arguments are inclusive YYYY-MM-DD strings.
type Repository interface {
	ActiveAgencies(ctx context.Context) ([]AgencyRef, error)
	ActiveSystems(ctx context.Context) ([]SystemRef, error)
	DetailRows(ctx context.Context, start, end string) ([]DetailRow, error)
	SummaryRows(ctx context.Context, start, end string) ([]SummaryRow, error)
	ExpenseRows(ctx context.Context, start, end string) ([]ExpenseRow, error)
	PendingLoanRows(ctx context.Context, start, end string) ([]LoanRow, error)
	SessionRows(ctx context.Context, start, end string) ([]SessionRow, error)
	Profiles(ctx context.Context) ([]ProfileRow, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ActiveAgencies(ctx context.Context) ([]AgencyRef, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, group_id FROM agencies WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AgencyRef
	for rows.Next() {
		var a AgencyRef
		if err := rows.Scan(&a.ID, &a.Name, &a.GroupID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) ActiveSystems(ctx context.Context) ([]SystemRef, error) {
	// Leaf systems only. Parent systems with subcategories aggregate their
	// children and would be counted twice.
	rows, err := r.db.Query(ctx, `SELECT id, name FROM lottery_systems WHERE is_active AND NOT has_subcategories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SystemRef
	for rows.Next() {
		var s SystemRef
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) DetailRows(ctx context.Context, start, end string) ([]DetailRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT agency_id, session_date, lottery_system_id, sales_bs, sales_usd, prizes_bs, prizes_usd
		 FROM encargada_cuadre_details
		 WHERE session_date >= $1 AND session_date <= $2`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DetailRow
	for rows.Next() {
		var d DetailRow
		if err := rows.Scan(&d.AgencyID, &d.SessionDate, &d.LotterySystemID, &d.SalesBs, &d.SalesUsd, &d.PrizesBs, &d.PrizesUsd); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repository) SummaryRows(ctx context.Context, start, end string) ([]SummaryRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT agency_id, session_date, total_banco_bs, pending_prizes, exchange_rate,
		        total_sales_bs, total_sales_usd, total_prizes_bs, total_prizes_usd,
		        created_at, updated_at
		 FROM daily_cuadres_summary
		 WHERE session_id IS NULL AND agency_id IS NOT NULL
		   AND session_date >= $1 AND session_date <= $2`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var s SummaryRow
		if err := rows.Scan(&s.AgencyID, &s.SessionDate, &s.TotalBancoBs, &s.PendingPrizes, &s.ExchangeRate,
			&s.TotalSalesBs, &s.TotalSalesUsd, &s.TotalPrizesBs, &s.TotalPrizesUsd,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) ExpenseRows(ctx context.Context, start, end string) ([]ExpenseRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, agency_id, session_id, category, description, amount_bs, amount_usd, is_paid, transaction_date
		 FROM expenses
		 WHERE transaction_date >= $1 AND transaction_date <= $2`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseRow
	for rows.Next() {
		var e ExpenseRow
		if err := rows.Scan(&e.ID, &e.AgencyID, &e.SessionID, &e.Category, &e.Description, &e.AmountBs, &e.AmountUsd, &e.IsPaid, &e.TransactionDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) PendingLoanRows(ctx context.Context, start, end string) ([]LoanRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT l.id, l.to_agency_id, a.name, l.amount_bs, l.amount_usd, l.loan_date
		 FROM inter_agency_loans l
		 JOIN agencies a ON a.id = l.from_agency_id
		 WHERE l.status = 'pendiente' AND l.loan_date >= $1 AND l.loan_date <= $2`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LoanRow
	for rows.Next() {
		var l LoanRow
		if err := rows.Scan(&l.ID, &l.ToAgencyID, &l.FromAgencyName, &l.AmountBs, &l.AmountUsd, &l.LoanDate); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repository) SessionRows(ctx context.Context, start, end string) ([]SessionRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id FROM daily_sessions WHERE session_date >= $1 AND session_date <= $2`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var s SessionRow
		if err := rows.Scan(&s.ID, &s.UserID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) Profiles(ctx context.Context) ([]ProfileRow, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, agency_id FROM profiles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProfileRow
	for rows.Next() {
		var p ProfileRow
		if err := rows.Scan(&p.UserID, &p.AgencyID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
