package reports

import (
	"testing"

	"github.com/lanave/cuadre/internal/cuadre"
	"github.com/lanave/cuadre/internal/masterdata/commissions"
	_ "github.com/lanave/cuadre/testing"
)

func sampleSummaries() []cuadre.AgencyWeeklySummary {
	return []cuadre.AgencyWeeklySummary{
		{
			AgencyID:   "ag-1",
			AgencyName: "Baralt",
			PerSystem: []cuadre.PerSystemTotals{
				{SystemID: "sys-1", SystemName: "Figuras", SalesBs: 1000, SalesUsd: 20, PrizesBs: 200, PrizesUsd: 5},
				{SystemID: "sys-2", SystemName: "Loterias", SalesBs: 500, PrizesBs: 100},
			},
		},
		{
			AgencyID:   "ag-2",
			AgencyName: "Candelaria",
			PerSystem: []cuadre.PerSystemTotals{
				{SystemID: "sys-1", SystemName: "Figuras", SalesBs: 400, PrizesBs: 150},
				{SystemID: "sys-2", SystemName: "Loterias"},
			},
		},
	}
}

func sampleRates() map[string]commissions.Rate {
	return map[string]commissions.Rate{
		"sys-1": {LotterySystemID: "sys-1", CommissionPercentage: 10, CommissionPercentageUsd: 8, UtilityPercentage: 5, UtilityPercentageUsd: 4},
	}
}

func TestBuildSystemsSummary(t *testing.T) {
	out := BuildSystemsSummary(sampleSummaries(), sampleRates())
	if len(out.Rows) != 2 {
		t.Fatalf("expected 2 system rows, got %d", len(out.Rows))
	}

	figuras := out.Rows[0]
	if figuras.SystemName != "Figuras" {
		t.Fatalf("expected Figuras first, got %s", figuras.SystemName)
	}
	if figuras.SalesBs != 1400 {
		t.Fatalf("unexpected sales: %v", figuras.SalesBs)
	}
	if figuras.NetBs != 1050 {
		t.Fatalf("unexpected net: %v", figuras.NetBs)
	}
	if figuras.TotalBs != 105 {
		t.Fatalf("unexpected total: %v", figuras.TotalBs)
	}
	if figuras.NetUsd != 15 {
		t.Fatalf("unexpected net usd: %v", figuras.NetUsd)
	}
	if figuras.TotalUsd != 1.2 {
		t.Fatalf("unexpected total usd: %v", figuras.TotalUsd)
	}

	// No rate configured for Loterias: zero commission, not an error.
	loterias := out.Rows[1]
	if loterias.NetBs != 400 {
		t.Fatalf("unexpected loterias net: %v", loterias.NetBs)
	}
	if loterias.TotalBs != 0 {
		t.Fatalf("expected zero commission without a rate, got %v", loterias.TotalBs)
	}

	if out.GrandTotal.SalesBs != 1900 {
		t.Fatalf("unexpected grand sales: %v", out.GrandTotal.SalesBs)
	}
	if out.GrandTotal.NetBs != 1450 {
		t.Fatalf("unexpected grand net: %v", out.GrandTotal.NetBs)
	}
	if out.GrandTotal.TotalBs != 105 {
		t.Fatalf("unexpected grand total: %v", out.GrandTotal.TotalBs)
	}
}

func TestBuildAgencySystemsTable(t *testing.T) {
	rows := BuildAgencySystemsTable(sampleSummaries(), sampleRates())
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.AgencyName != "Baralt" || first.SystemName != "Figuras" {
		t.Fatalf("unexpected first row: %s / %s", first.AgencyName, first.SystemName)
	}
	if first.NetBs != 800 {
		t.Fatalf("unexpected net: %v", first.NetBs)
	}
	if first.CommissionBs != 80 {
		t.Fatalf("unexpected commission: %v", first.CommissionBs)
	}
	if first.UtilityBs != 40 {
		t.Fatalf("unexpected utility: %v", first.UtilityBs)
	}
	if first.CommissionUsd != 1.2 {
		t.Fatalf("unexpected usd commission: %v", first.CommissionUsd)
	}

	// Zero-activity cell still produces a row with zero amounts.
	idle := rows[3]
	if idle.AgencyName != "Candelaria" || idle.SystemName != "Loterias" {
		t.Fatalf("unexpected last row: %s / %s", idle.AgencyName, idle.SystemName)
	}
	if idle.NetBs != 0 || idle.CommissionBs != 0 {
		t.Fatalf("expected zero row, got net %v commission %v", idle.NetBs, idle.CommissionBs)
	}
}
