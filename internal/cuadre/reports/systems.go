// Package reports builds tabular projections over aggregated weekly
// summaries. Builders are pure: they never touch the store.
package reports

import (
	"sort"
	"strings"

	"github.com/lanave/cuadre/internal/cuadre"
	"github.com/lanave/cuadre/internal/masterdata/commissions"
)

// SystemTotalsRow is the weekly total for one lottery system across all
// agencies, with the commission applied to the net figure.
type SystemTotalsRow struct {
	SystemID   string  `json:"system_id"`
	SystemName string  `json:"system_name"`
	SalesBs    float64 `json:"sales_bs"`
	SalesUsd   float64 `json:"sales_usd"`
	PrizesBs   float64 `json:"prizes_bs"`
	PrizesUsd  float64 `json:"prizes_usd"`
	NetBs      float64 `json:"net_bs"`
	NetUsd     float64 `json:"net_usd"`
	TotalBs    float64 `json:"total_bs"`
	TotalUsd   float64 `json:"total_usd"`
}

// SystemsSummary is the system-level weekly table plus its grand-total row.
type SystemsSummary struct {
	Rows       []SystemTotalsRow `json:"rows"`
	GrandTotal SystemTotalsRow   `json:"grand_total"`
}

// BuildSystemsSummary flattens the per-agency system vectors into one row
// per system. Net is sales minus prizes; total applies the system's
// commission percentage to the net in each currency. Systems without a
// configured rate contribute zero commission, never an error.
func BuildSystemsSummary(summaries []cuadre.AgencyWeeklySummary, rates map[string]commissions.Rate) SystemsSummary {
	bySystem := make(map[string]*SystemTotalsRow)
	for _, ag := range summaries {
		for _, cell := range ag.PerSystem {
			row, ok := bySystem[cell.SystemID]
			if !ok {
				row = &SystemTotalsRow{SystemID: cell.SystemID, SystemName: cell.SystemName}
				bySystem[cell.SystemID] = row
			}
			row.SalesBs += cell.SalesBs
			row.SalesUsd += cell.SalesUsd
			row.PrizesBs += cell.PrizesBs
			row.PrizesUsd += cell.PrizesUsd
		}
	}

	out := SystemsSummary{Rows: make([]SystemTotalsRow, 0, len(bySystem))}
	for _, row := range bySystem {
		rate := rates[row.SystemID]
		row.NetBs = row.SalesBs - row.PrizesBs
		row.NetUsd = row.SalesUsd - row.PrizesUsd
		row.TotalBs = row.NetBs * rate.CommissionPercentage / 100
		row.TotalUsd = row.NetUsd * rate.CommissionPercentageUsd / 100

		out.GrandTotal.SalesBs += row.SalesBs
		out.GrandTotal.SalesUsd += row.SalesUsd
		out.GrandTotal.PrizesBs += row.PrizesBs
		out.GrandTotal.PrizesUsd += row.PrizesUsd
		out.GrandTotal.NetBs += row.NetBs
		out.GrandTotal.NetUsd += row.NetUsd
		out.GrandTotal.TotalBs += row.TotalBs
		out.GrandTotal.TotalUsd += row.TotalUsd

		out.Rows = append(out.Rows, *row)
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		return strings.ToLower(out.Rows[i].SystemName) < strings.ToLower(out.Rows[j].SystemName)
	})
	out.GrandTotal.SystemName = "Total"
	return out
}

// AgencySystemRow is one agency x system line of the detailed systems
// table, with commission and utility applied to the agency's net.
type AgencySystemRow struct {
	AgencyID      string  `json:"agency_id"`
	AgencyName    string  `json:"agency_name"`
	SystemID      string  `json:"system_id"`
	SystemName    string  `json:"system_name"`
	SalesBs       float64 `json:"sales_bs"`
	SalesUsd      float64 `json:"sales_usd"`
	PrizesBs      float64 `json:"prizes_bs"`
	PrizesUsd     float64 `json:"prizes_usd"`
	NetBs         float64 `json:"net_bs"`
	NetUsd        float64 `json:"net_usd"`
	CommissionPct float64 `json:"commission_pct"`
	CommissionBs  float64 `json:"commission_bs"`
	CommissionUsd float64 `json:"commission_usd"`
	UtilityBs     float64 `json:"utility_bs"`
	UtilityUsd    float64 `json:"utility_usd"`
}

// BuildAgencySystemsTable expands every agency's system vector into table
// rows. Rows keep the aggregator's ordering: agencies and systems arrive
// already collated.
func BuildAgencySystemsTable(summaries []cuadre.AgencyWeeklySummary, rates map[string]commissions.Rate) []AgencySystemRow {
	var rows []AgencySystemRow
	for _, ag := range summaries {
		for _, cell := range ag.PerSystem {
			rate := rates[cell.SystemID]
			row := AgencySystemRow{
				AgencyID:      ag.AgencyID,
				AgencyName:    ag.AgencyName,
				SystemID:      cell.SystemID,
				SystemName:    cell.SystemName,
				SalesBs:       cell.SalesBs,
				SalesUsd:      cell.SalesUsd,
				PrizesBs:      cell.PrizesBs,
				PrizesUsd:     cell.PrizesUsd,
				CommissionPct: rate.CommissionPercentage,
			}
			row.NetBs = row.SalesBs - row.PrizesBs
			row.NetUsd = row.SalesUsd - row.PrizesUsd
			row.CommissionBs = row.NetBs * rate.CommissionPercentage / 100
			row.CommissionUsd = row.NetUsd * rate.CommissionPercentageUsd / 100
			row.UtilityBs = row.NetBs * rate.UtilityPercentage / 100
			row.UtilityUsd = row.NetUsd * rate.UtilityPercentageUsd / 100
			rows = append(rows, row)
		}
	}
	return rows
}
