package cuadre

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lanave/cuadre/internal/shared"
	_ "github.com/lanave/cuadre/testing"
)

type memoryRepo struct {
	agencies  []AgencyRef
	systems   []SystemRef
	details   []DetailRow
	summaries []SummaryRow
	expenses  []ExpenseRow
	loans     []LoanRow
	sessions  []SessionRow
	profiles  []ProfileRow

	failDetails error
}

func (r *memoryRepo) ActiveAgencies(ctx context.Context) ([]AgencyRef, error) {
	return r.agencies, nil
}
func (r *memoryRepo) ActiveSystems(ctx context.Context) ([]SystemRef, error) {
	return r.systems, nil
}
func (r *memoryRepo) DetailRows(ctx context.Context, start, end string) ([]DetailRow, error) {
	if r.failDetails != nil {
		return nil, r.failDetails
	}
	return r.details, nil
}
func (r *memoryRepo) SummaryRows(ctx context.Context, start, end string) ([]SummaryRow, error) {
	return r.summaries, nil
}
func (r *memoryRepo) ExpenseRows(ctx context.Context, start, end string) ([]ExpenseRow, error) {
	return r.expenses, nil
}
func (r *memoryRepo) PendingLoanRows(ctx context.Context, start, end string) ([]LoanRow, error) {
	return r.loans, nil
}
func (r *memoryRepo) SessionRows(ctx context.Context, start, end string) ([]SessionRow, error) {
	return r.sessions, nil
}
func (r *memoryRepo) Profiles(ctx context.Context) ([]ProfileRow, error) {
	return r.profiles, nil
}

func testWeek(t *testing.T) shared.Week {
	t.Helper()
	w, err := shared.ParseWeekStart("2025-04-14")
	require.NoError(t, err)
	return w
}

func strPtr(s string) *string { return &s }

func newTestService(repo Repository) *Service {
	return NewService(slog.Default(), repo)
}

func TestAggregateCoversEveryAgencyAndSystem(t *testing.T) {
	repo := &memoryRepo{
		agencies: []AgencyRef{{ID: "ag-1", Name: "Baralt"}, {ID: "ag-2", Name: "Candelaria"}},
		systems:  []SystemRef{{ID: "sys-1", Name: "Figuras"}, {ID: "sys-2", Name: "Loterias"}},
		details: []DetailRow{
			{AgencyID: "ag-1", SessionDate: "2025-04-15", LotterySystemID: "sys-1", SalesBs: 100, PrizesBs: 40},
		},
	}

	out, err := newTestService(repo).Aggregate(context.Background(), testWeek(t))
	require.NoError(t, err)
	require.Len(t, out.Summaries, 2)

	for _, summary := range out.Summaries {
		require.Len(t, summary.PerSystem, 2, "every active system must be present, zero-filled")
	}

	// ag-2 had no activity anywhere and still appears, all zeros.
	idle := out.Summaries[1]
	require.Equal(t, "Candelaria", idle.AgencyName)
	require.Zero(t, idle.TotalSalesBs)
	require.Zero(t, idle.PerSystem[0].SalesBs)
	require.Zero(t, idle.PerSystem[1].SalesBs)
}

func TestAggregateAdditivity(t *testing.T) {
	repo := &memoryRepo{
		agencies: []AgencyRef{{ID: "ag-1", Name: "Baralt"}},
		systems:  []SystemRef{{ID: "sys-1", Name: "Figuras"}, {ID: "sys-2", Name: "Loterias"}},
		details: []DetailRow{
			{AgencyID: "ag-1", SessionDate: "2025-04-14", LotterySystemID: "sys-1", SalesBs: 100, SalesUsd: 3, PrizesBs: 40, PrizesUsd: 1},
			{AgencyID: "ag-1", SessionDate: "2025-04-15", LotterySystemID: "sys-1", SalesBs: 50, PrizesBs: 10},
			{AgencyID: "ag-1", SessionDate: "2025-04-15", LotterySystemID: "sys-2", SalesBs: 200, SalesUsd: 7, PrizesBs: 80, PrizesUsd: 2},
		},
	}

	out, err := newTestService(repo).Aggregate(context.Background(), testWeek(t))
	require.NoError(t, err)
	ag := out.Summaries[0]

	var salesBs, salesUsd, prizesBs, prizesUsd float64
	for _, cell := range ag.PerSystem {
		salesBs += cell.SalesBs
		salesUsd += cell.SalesUsd
		prizesBs += cell.PrizesBs
		prizesUsd += cell.PrizesUsd
	}
	require.Equal(t, salesBs, ag.TotalSalesBs)
	require.Equal(t, salesUsd, ag.TotalSalesUsd)
	require.Equal(t, prizesBs, ag.TotalPrizesBs)
	require.Equal(t, prizesUsd, ag.TotalPrizesUsd)
	require.Equal(t, ag.TotalSalesBs-ag.TotalPrizesBs, ag.TotalCuadreBs)
	require.Equal(t, ag.TotalSalesUsd-ag.TotalPrizesUsd, ag.TotalCuadreUsd)
	require.Equal(t, SourceDetail, ag.Source)
}

func TestAggregateSummaryFallbackIsExclusive(t *testing.T) {
	repo := &memoryRepo{
		agencies: []AgencyRef{{ID: "ag-1", Name: "Baralt"}, {ID: "ag-2", Name: "Candelaria"}},
		systems:  []SystemRef{{ID: "sys-1", Name: "Figuras"}},
		details: []DetailRow{
			// ag-1 has detail activity; ag-2 has none.
			{AgencyID: "ag-1", SessionDate: "2025-04-15", LotterySystemID: "sys-1", SalesBs: 500, PrizesBs: 100},
		},
		summaries: []SummaryRow{
			{AgencyID: "ag-1", SessionDate: "2025-04-15", TotalSalesBs: 9999, TotalPrizesBs: 9999},
			{AgencyID: "ag-2", SessionDate: "2025-04-15", TotalSalesBs: 300, TotalSalesUsd: 5, TotalPrizesBs: 120, TotalPrizesUsd: 2},
			{AgencyID: "ag-2", SessionDate: "2025-04-16", TotalSalesBs: 200, TotalPrizesBs: 30},
		},
	}

	out, err := newTestService(repo).Aggregate(context.Background(), testWeek(t))
	require.NoError(t, err)

	withDetail := out.Summaries[0]
	require.Equal(t, "Baralt", withDetail.AgencyName)
	require.Equal(t, SourceDetail, withDetail.Source)
	// Summary sales must never leak into an agency with detail rows.
	require.Equal(t, 500.0, withDetail.TotalSalesBs)
	require.Equal(t, 100.0, withDetail.TotalPrizesBs)

	fallback := out.Summaries[1]
	require.Equal(t, "Candelaria", fallback.AgencyName)
	require.Equal(t, SourceSummaryFallback, fallback.Source)
	require.Equal(t, 500.0, fallback.TotalSalesBs)
	require.Equal(t, 5.0, fallback.TotalSalesUsd)
	require.Equal(t, 150.0, fallback.TotalPrizesBs)
	require.Equal(t, 350.0, fallback.TotalCuadreBs)
}

func TestAggregateBankFiguresDeduplicatePerDate(t *testing.T) {
	base := time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC)
	repo := &memoryRepo{
		agencies: []AgencyRef{{ID: "ag-1", Name: "Baralt"}},
		systems:  []SystemRef{{ID: "sys-1", Name: "Figuras"}},
		summaries: []SummaryRow{
			// Two rows for the same date; the later update wins.
			{AgencyID: "ag-1", SessionDate: "2025-04-15", TotalBancoBs: 100, PendingPrizes: 10, CreatedAt: base, UpdatedAt: base},
			{AgencyID: "ag-1", SessionDate: "2025-04-15", TotalBancoBs: 250, PendingPrizes: 25, CreatedAt: base, UpdatedAt: base.Add(time.Hour)},
			{AgencyID: "ag-1", SessionDate: "2025-04-16", TotalBancoBs: 50, PendingPrizes: 5, CreatedAt: base.AddDate(0, 0, 1), UpdatedAt: base.AddDate(0, 0, 1)},
			// Sunday row carries the week's closing exchange rate.
			{AgencyID: "ag-1", SessionDate: "2025-04-20", TotalBancoBs: 30, ExchangeRate: 41.5, CreatedAt: base.AddDate(0, 0, 5), UpdatedAt: base.AddDate(0, 0, 5)},
		},
	}

	out, err := newTestService(repo).Aggregate(context.Background(), testWeek(t))
	require.NoError(t, err)
	ag := out.Summaries[0]

	require.Equal(t, 330.0, ag.TotalBancoBs)
	require.Equal(t, 30.0, ag.PremiosPorPagarBs)
	require.Equal(t, 41.5, ag.SundayExchangeRate)
}

func TestAggregateDefaultExchangeRateWithoutSundayRow(t *testing.T) {
	repo := &memoryRepo{
		agencies: []AgencyRef{{ID: "ag-1", Name: "Baralt"}},
		systems:  []SystemRef{{ID: "sys-1", Name: "Figuras"}},
	}

	out, err := newTestService(repo).Aggregate(context.Background(), testWeek(t))
	require.NoError(t, err)
	require.Equal(t, float64(defaultExchangeRate), out.Summaries[0].SundayExchangeRate)
}

func TestAggregateExpenseRouting(t *testing.T) {
	repo := &memoryRepo{
		agencies: []AgencyRef{{ID: "ag-1", Name: "Baralt"}},
		systems:  []SystemRef{{ID: "sys-1", Name: "Figuras"}},
		sessions: []SessionRow{{ID: "sess-1", UserID: "user-1"}},
		profiles: []ProfileRow{{UserID: "user-1", AgencyID: strPtr("ag-1")}},
		expenses: []ExpenseRow{
			{ID: "e1", AgencyID: strPtr("ag-1"), Category: "deuda", AmountBs: 100, AmountUsd: 2, TransactionDate: "2025-04-15"},
			{ID: "e2", AgencyID: strPtr("ag-1"), Category: "deuda", AmountBs: 999, IsPaid: true, TransactionDate: "2025-04-15"},
			{ID: "e3", SessionID: strPtr("sess-1"), Category: "gasto_operativo", AmountBs: 70, TransactionDate: "2025-04-16"},
			{ID: "e4", AgencyID: strPtr("ag-1"), Category: "operativo", AmountBs: 30, TransactionDate: "2025-04-16"},
			{ID: "e5", AgencyID: strPtr("ag-1"), Category: "otros", AmountBs: 555, TransactionDate: "2025-04-17"},
		},
	}

	out, err := newTestService(repo).Aggregate(context.Background(), testWeek(t))
	require.NoError(t, err)
	ag := out.Summaries[0]

	require.Equal(t, 100.0, ag.TotalDeudasBs)
	require.Equal(t, 2.0, ag.TotalDeudasUsd)
	require.Len(t, ag.DeudasDetails, 1, "paid debts stay out of the rollup")

	// Session-routed plus alias-spelled operative expenses.
	require.Equal(t, 100.0, ag.TotalGastosBs)
	require.Len(t, ag.GastosDetails, 2)

	// Category otros never lands in either bucket.
	for _, d := range append(ag.DeudasDetails, ag.GastosDetails...) {
		require.NotEqual(t, "e5", d.ID)
	}
}

func TestAggregatePendingLoansCountAsReceiverDebt(t *testing.T) {
	repo := &memoryRepo{
		agencies: []AgencyRef{{ID: "ag-1", Name: "Baralt"}, {ID: "ag-2", Name: "Candelaria"}},
		systems:  []SystemRef{{ID: "sys-1", Name: "Figuras"}},
		loans: []LoanRow{
			{ID: "l1", ToAgencyID: "ag-1", FromAgencyName: "Candelaria", AmountBs: 250, AmountUsd: 5, LoanDate: "2025-04-16"},
		},
		expenses: []ExpenseRow{
			{ID: "e1", AgencyID: strPtr("ag-1"), Category: "deuda", AmountBs: 100, TransactionDate: "2025-04-15"},
		},
	}

	out, err := newTestService(repo).Aggregate(context.Background(), testWeek(t))
	require.NoError(t, err)

	receiver := out.Summaries[0]
	require.Equal(t, "Baralt", receiver.AgencyName)
	require.Equal(t, 350.0, receiver.TotalDeudasBs)
	require.Equal(t, 5.0, receiver.TotalDeudasUsd)
	require.Len(t, receiver.DeudasDetails, 2)

	// The lender carries nothing.
	lender := out.Summaries[1]
	require.Zero(t, lender.TotalDeudasBs)
}

func TestAggregateQueryFailureAbortsRun(t *testing.T) {
	repo := &memoryRepo{
		agencies:    []AgencyRef{{ID: "ag-1", Name: "Baralt"}},
		systems:     []SystemRef{{ID: "sys-1", Name: "Figuras"}},
		failDetails: context.DeadlineExceeded,
	}

	out, err := newTestService(repo).Aggregate(context.Background(), testWeek(t))
	require.Error(t, err)
	require.Nil(t, out, "no partial results on failure")
}

func TestAggregateIsIdempotent(t *testing.T) {
	repo := &memoryRepo{
		agencies: []AgencyRef{{ID: "ag-1", Name: "Baralt"}, {ID: "ag-2", Name: "Ávila"}},
		systems:  []SystemRef{{ID: "sys-1", Name: "Figuras"}, {ID: "sys-2", Name: "Loterias"}},
		details: []DetailRow{
			{AgencyID: "ag-1", SessionDate: "2025-04-15", LotterySystemID: "sys-2", SalesBs: 120, PrizesBs: 20},
		},
		expenses: []ExpenseRow{
			{ID: "e1", AgencyID: strPtr("ag-2"), Category: "gasto", AmountBs: 15, TransactionDate: "2025-04-15"},
		},
	}
	svc := newTestService(repo)

	first, err := svc.Aggregate(context.Background(), testWeek(t))
	require.NoError(t, err)
	second, err := svc.Aggregate(context.Background(), testWeek(t))
	require.NoError(t, err)
	require.Equal(t, first, second)
}
