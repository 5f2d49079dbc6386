package commissions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lanave/cuadre/internal/platform/db"
	"github.com/lanave/cuadre/internal/platform/httpx"
)

const columns = `id, lottery_system_id, commission_percentage, commission_percentage_usd, utility_percentage, utility_percentage_usd, is_active, created_at, updated_at`

type Repository interface {
	ListActive(ctx context.Context) ([]Rate, error)
	Get(ctx context.Context, id string) (Rate, error)
	// Replace deactivates any active rate for the system and inserts the
	// new one, keeping the one-active-rate-per-system invariant.
	Replace(ctx context.Context, rate Rate) (Rate, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListActive(ctx context.Context) ([]Rate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM system_commission_rates WHERE is_active ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rate)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Rate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM system_commission_rates WHERE id = $1`, id)
	rate, err := scanRate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{}, httpx.ErrNotFound
	}
	return rate, err
}

func (r *repository) Replace(ctx context.Context, rate Rate) (Rate, error) {
	rate.ID = uuid.NewString()
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE system_commission_rates SET is_active = false, updated_at = now() WHERE lottery_system_id = $1 AND is_active`,
			rate.LotterySystemID); err != nil {
			return err
		}
		return tx.QueryRow(ctx,
			`INSERT INTO system_commission_rates (id, lottery_system_id, commission_percentage, commission_percentage_usd, utility_percentage, utility_percentage_usd, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6, true) RETURNING created_at, updated_at`,
			rate.ID, rate.LotterySystemID, rate.CommissionPercentage, rate.CommissionPercentageUsd, rate.UtilityPercentage, rate.UtilityPercentageUsd).
			Scan(&rate.CreatedAt, &rate.UpdatedAt)
	})
	if err != nil {
		return Rate{}, err
	}
	rate.IsActive = true
	return rate, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM system_commission_rates WHERE id = $1`, id)
	if err == nil && tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return err
}

func scanRate(row pgx.Row) (Rate, error) {
	var rate Rate
	err := row.Scan(&rate.ID, &rate.LotterySystemID, &rate.CommissionPercentage, &rate.CommissionPercentageUsd,
		&rate.UtilityPercentage, &rate.UtilityPercentageUsd, &rate.IsActive, &rate.CreatedAt, &rate.UpdatedAt)
	return rate, err
}
