package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Vendor identifiers in the agency mapping table.
const (
	VendorMaxPlayGo   = "maxplaygo"
	VendorSalesReport = "sources"
)

// SyncStore resolves vendor names to agencies and writes the daily
// summary rows the weekly aggregator's fallback path reads.
type SyncStore interface {
	// AgencyMapping returns vendor_name -> agency_id for one vendor.
	AgencyMapping(ctx context.Context, vendor string) (map[string]string, error)
	SystemIDByCode(ctx context.Context, codes ...string) (string, error)
	// UpsertSummary writes one agency/date/system row with a null
	// session, keyed on (agency_id, session_date, lottery_system_id).
	UpsertSummary(ctx context.Context, agencyID, sessionDate, systemID string, salesBs, prizesBs float64) error
}

type syncStore struct {
	pool *pgxpool.Pool
}

func NewSyncStore(pool *pgxpool.Pool) SyncStore {
	return &syncStore{pool: pool}
}

func (s *syncStore) AgencyMapping(ctx context.Context, vendor string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT vendor_name, agency_id FROM vendor_agency_mappings WHERE vendor = $1`, vendor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, agencyID string
		if err := rows.Scan(&name, &agencyID); err != nil {
			return nil, err
		}
		out[name] = agencyID
	}
	return out, rows.Err()
}

func (s *syncStore) SystemIDByCode(ctx context.Context, codes ...string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM lottery_systems WHERE code = ANY($1) AND is_active LIMIT 1`, codes).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("jobs: no active lottery system with code %v", codes)
	}
	return id, err
}

func (s *syncStore) UpsertSummary(ctx context.Context, agencyID, sessionDate, systemID string, salesBs, prizesBs float64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO daily_cuadres_summary (id, agency_id, session_id, session_date, lottery_system_id, total_sales_bs, total_prizes_bs, balance_bs)
		 VALUES ($1, $2, NULL, $3, $4, $5, $6, $7)
		 ON CONFLICT (agency_id, session_date, lottery_system_id) DO UPDATE SET
			 total_sales_bs = EXCLUDED.total_sales_bs,
			 total_prizes_bs = EXCLUDED.total_prizes_bs,
			 balance_bs = EXCLUDED.balance_bs,
			 updated_at = now()`,
		uuid.NewString(), agencyID, sessionDate, systemID, salesBs, prizesBs, salesBs-prizesBs)
	return err
}
