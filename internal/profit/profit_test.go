package profit

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanave/cuadre/internal/bankexpenses"
	"github.com/lanave/cuadre/internal/cuadre"
	"github.com/lanave/cuadre/internal/masterdata/commissions"
	"github.com/lanave/cuadre/internal/masterdata/groups"
	"github.com/lanave/cuadre/internal/shared"
	_ "github.com/lanave/cuadre/testing"
)

func groupPtr(id string) *string { return &id }

func threeGroups() []groups.Group {
	return []groups.Group{
		{ID: "g1", Name: "Grupo 1"},
		{ID: "g2", Name: "Grupo 2"},
		{ID: "g3", Name: "Grupo 3"},
	}
}

// agenciesFor builds n zero-activity summaries assigned to a group.
func agenciesFor(groupID string, n int) []cuadre.AgencyWeeklySummary {
	out := make([]cuadre.AgencyWeeklySummary, n)
	for i := range out {
		out[i] = cuadre.AgencyWeeklySummary{
			AgencyID: groupID + "-ag", AgencyName: "Agencia", GroupID: groupPtr(groupID),
		}
	}
	return out
}

func TestBuildDistributionGlobalAllocation(t *testing.T) {
	var summaries []cuadre.AgencyWeeklySummary
	summaries = append(summaries, agenciesFor("g1", 2)...)
	summaries = append(summaries, agenciesFor("g2", 3)...)
	summaries = append(summaries, agenciesFor("g3", 5)...)

	in := DistributionInput{
		Summaries: summaries,
		Groups:    threeGroups(),
		Expenses: []bankexpenses.BankExpense{
			{Category: bankexpenses.CategoryComisionBancaria, Description: "Comisión bancaria", AmountBs: 600},
			{Category: bankexpenses.CategoryComisionFija, Description: "Comisión fija Banesco", AmountBs: 400},
			{Category: "gasto", Description: "Servicio contable", AmountBs: 500},
		},
	}

	out := BuildDistribution(in, Options{})
	require.Equal(t, 1000.0, out.FixedCommissionsBs)
	require.Equal(t, 500.0, out.GlobalExpensesBs)
	require.Equal(t, 150.0, out.PerAgencyShareBs)

	require.Len(t, out.Groups, 3)
	require.Equal(t, 300.0, out.Groups[0].AllocatedGlobalBs)
	require.Equal(t, 450.0, out.Groups[1].AllocatedGlobalBs)
	require.Equal(t, 750.0, out.Groups[2].AllocatedGlobalBs)
}

func TestBuildDistributionStakeholderFormula(t *testing.T) {
	// One agency per group with sales sized so gross profit at 10%
	// commission lands on 100, 80 and 60.
	rates := map[string]commissions.Rate{
		"sys-1": {LotterySystemID: "sys-1", CommissionPercentage: 10},
	}
	sales := map[string]float64{"g1": 1000, "g2": 800, "g3": 600}
	var summaries []cuadre.AgencyWeeklySummary
	for gid, amount := range sales {
		summaries = append(summaries, cuadre.AgencyWeeklySummary{
			AgencyID: gid + "-ag", GroupID: groupPtr(gid),
			PerSystem: []cuadre.PerSystemTotals{{SystemID: "sys-1", SalesBs: amount}},
		})
	}

	out := BuildDistribution(DistributionInput{
		Summaries: summaries,
		Rates:     rates,
		Groups:    threeGroups(),
	}, Options{})

	require.Equal(t, 100.0, out.Groups[0].FinalProfitBs)
	require.Equal(t, 80.0, out.Groups[1].FinalProfitBs)
	require.Equal(t, 60.0, out.Groups[2].FinalProfitBs)
	require.Equal(t, 240.0, out.TotalFinalProfitBs)

	shares := make(map[string]float64, len(out.Stakeholders))
	for _, s := range out.Stakeholders {
		shares[s.Name] = s.ShareBs
	}
	require.Equal(t, 60.0, shares["Denis"])
	require.Equal(t, 60.0, shares["Jonathan"])
	require.Equal(t, 40.0, shares["Byjer"])
	require.Equal(t, 40.0, shares["Daniela"])
	require.Equal(t, 40.0, shares["Jorge"])
}

func TestBuildDistributionDollarSkipsDeductions(t *testing.T) {
	rates := map[string]commissions.Rate{
		"sys-1": {LotterySystemID: "sys-1", CommissionPercentage: 10, CommissionPercentageUsd: 10},
	}
	summaries := []cuadre.AgencyWeeklySummary{{
		AgencyID: "ag-1", GroupID: groupPtr("g1"),
		PerSystem: []cuadre.PerSystemTotals{{SystemID: "sys-1", SalesBs: 1000, SalesUsd: 200}},
	}}
	gid := "g1"

	out := BuildDistribution(DistributionInput{
		Summaries: summaries,
		Rates:     rates,
		Groups:    []groups.Group{{ID: "g1", Name: "Grupo 1"}},
		Expenses: []bankexpenses.BankExpense{
			{Category: bankexpenses.CategoryComisionFija, Description: "Comisión fija Banesco", AmountBs: 50},
			{GroupID: &gid, Category: "gasto", Description: "Alquiler", AmountBs: 10},
		},
	}, Options{})

	g := out.Groups[0]
	require.Equal(t, 100.0, g.GrossProfitBs)
	require.Equal(t, 50.0, g.NetProfitBs)
	require.Equal(t, 40.0, g.FinalProfitBs)
	// Dollar figures ignore every deduction tier.
	require.Equal(t, 20.0, g.GrossProfitUsd)
	require.Equal(t, 20.0, g.FinalProfitUsd)
	require.Len(t, g.GroupExpenses, 1)
	require.Equal(t, 10.0, g.GroupExpensesBs)
}

func TestBuildParticipation(t *testing.T) {
	rates := map[string]commissions.Rate{
		"sys-1": {LotterySystemID: "sys-1", CommissionPercentage: 10, CommissionPercentageUsd: 10},
	}
	summaries := []cuadre.AgencyWeeklySummary{{
		AgencyID: "ag-1", AgencyName: "Baralt",
		PerSystem: []cuadre.PerSystemTotals{
			{SystemID: "sys-1", SystemName: "Figuras", SalesBs: 1000, PrizesBs: 200},
			// Without a configured rate the system produces no row.
			{SystemID: "sys-2", SystemName: "Loterias", SalesBs: 9999},
		},
	}}

	out := BuildParticipation(summaries, rates, Options{})
	require.Len(t, out.Rows, 1)

	row := out.Rows[0]
	require.Equal(t, 80.0, row.SubtotalBs)
	require.Equal(t, 24.0, row.CommissionBs)
	require.Equal(t, 56.0, row.ResultBs)

	require.Equal(t, 80.0, out.TotalSubtotalBs)
	require.Equal(t, 24.0, out.TotalCommissionBs)
	require.Equal(t, 56.0, out.TotalResultBs)
}

type fakeAggregator struct{ summaries []cuadre.AgencyWeeklySummary }

func (f fakeAggregator) Aggregate(ctx context.Context, week shared.Week) (*cuadre.WeeklySummaries, error) {
	return &cuadre.WeeklySummaries{
		WeekStart: week.StartDate(), WeekEnd: week.EndDate(), Summaries: f.summaries,
	}, nil
}

type fakeRates map[string]commissions.Rate

func (f fakeRates) ActiveMap(ctx context.Context) (map[string]commissions.Rate, error) {
	return f, nil
}

type fakeExpenses []bankexpenses.BankExpense

func (f fakeExpenses) ListWeek(ctx context.Context, week shared.Week) ([]bankexpenses.BankExpense, error) {
	return f, nil
}

type fakeGroups []groups.Group

func (f fakeGroups) List(ctx context.Context) ([]groups.Group, error) {
	return f, nil
}

func TestServiceDistribution(t *testing.T) {
	week, err := shared.ParseWeekStart("2025-04-14")
	require.NoError(t, err)

	svc := NewService(slog.Default(),
		fakeAggregator{summaries: []cuadre.AgencyWeeklySummary{{
			AgencyID: "ag-1", GroupID: groupPtr("g1"),
			PerSystem: []cuadre.PerSystemTotals{{SystemID: "sys-1", SalesBs: 500}},
		}}},
		fakeRates{"sys-1": {LotterySystemID: "sys-1", CommissionPercentage: 20}},
		fakeExpenses{},
		fakeGroups{{ID: "g1", Name: "Grupo 1"}},
		Options{})

	out, err := svc.Distribution(context.Background(), week)
	require.NoError(t, err)
	require.Equal(t, "2025-04-14", out.WeekStart)
	require.Equal(t, "2025-04-20", out.WeekEnd)
	require.Equal(t, 100.0, out.Groups[0].FinalProfitBs)
	require.Equal(t, 100.0, out.TotalFinalProfitBs)
}
