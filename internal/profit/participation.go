package profit

import (
	"github.com/lanave/cuadre/internal/cuadre"
	"github.com/lanave/cuadre/internal/masterdata/commissions"
)

// BuildParticipation computes the participation-profit table: for every
// agency x system with a configured commission rate, the subtotal applies
// the commission to net (sales minus prizes), and the participation
// commission retains a flat share of that subtotal. This is a separate
// profit model from the waterfall and is never reconciled with it.
func BuildParticipation(summaries []cuadre.AgencyWeeklySummary, rates map[string]commissions.Rate, opts Options) Participation {
	retained := opts.participationRate()

	var out Participation
	for _, ag := range summaries {
		for _, cell := range ag.PerSystem {
			rate, ok := rates[cell.SystemID]
			if !ok {
				continue
			}
			row := ParticipationRow{
				AgencyID:      ag.AgencyID,
				AgencyName:    ag.AgencyName,
				SystemID:      cell.SystemID,
				SystemName:    cell.SystemName,
				CommissionPct: rate.CommissionPercentage,
			}
			row.SubtotalBs = (cell.SalesBs - cell.PrizesBs) * rate.CommissionPercentage / 100
			row.SubtotalUsd = (cell.SalesUsd - cell.PrizesUsd) * rate.CommissionPercentageUsd / 100
			row.CommissionBs = row.SubtotalBs * retained
			row.CommissionUsd = row.SubtotalUsd * retained
			row.ResultBs = row.SubtotalBs - row.CommissionBs
			row.ResultUsd = row.SubtotalUsd - row.CommissionUsd

			out.TotalSubtotalBs += row.SubtotalBs
			out.TotalSubtotalUsd += row.SubtotalUsd
			out.TotalCommissionBs += row.CommissionBs
			out.TotalCommissionUsd += row.CommissionUsd
			out.TotalResultBs += row.ResultBs
			out.TotalResultUsd += row.ResultUsd
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
