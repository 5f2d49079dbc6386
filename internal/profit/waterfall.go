package profit

import (
	"github.com/lanave/cuadre/internal/bankexpenses"
	"github.com/lanave/cuadre/internal/cuadre"
	"github.com/lanave/cuadre/internal/masterdata/commissions"
	"github.com/lanave/cuadre/internal/masterdata/groups"
)

// DistributionInput carries everything the waterfall needs, already
// fetched. Groups must arrive in their canonical order: the stakeholder
// allocation terms index into it.
type DistributionInput struct {
	WeekStart string
	WeekEnd   string
	Summaries []cuadre.AgencyWeeklySummary
	Rates     map[string]commissions.Rate
	Groups    []groups.Group
	// Expenses is the week's full bank-expense set, global and
	// group-scoped rows alike.
	Expenses []bankexpenses.BankExpense
}

// BuildDistribution computes the four-tier waterfall: gross commission
// profit per group, pooled fixed-commission and global-expense deductions
// allocated equally per active agency, group-specific expense deductions,
// and the stakeholder split of the final profits.
func BuildDistribution(in DistributionInput, opts Options) Distribution {
	out := Distribution{WeekStart: in.WeekStart, WeekEnd: in.WeekEnd}

	// Gross profit applies commission percentages to sales only, not to
	// sales minus prizes.
	type grossTotals struct {
		bs, usd float64
		count   int
	}
	byGroup := make(map[string]*grossTotals, len(in.Groups))
	for _, g := range in.Groups {
		byGroup[g.ID] = &grossTotals{}
	}

	totalAgencies := 0
	for _, ag := range in.Summaries {
		totalAgencies++
		var bs, usd float64
		for _, cell := range ag.PerSystem {
			rate := in.Rates[cell.SystemID]
			bs += cell.SalesBs * rate.CommissionPercentage / 100
			usd += cell.SalesUsd * rate.CommissionPercentageUsd / 100
		}
		if ag.GroupID == nil {
			continue
		}
		if totals, ok := byGroup[*ag.GroupID]; ok {
			totals.bs += bs
			totals.usd += usd
			totals.count++
		}
	}

	groupExpenses := make(map[string][]bankexpenses.BankExpense)
	for _, exp := range in.Expenses {
		switch {
		case exp.GroupID != nil:
			groupExpenses[*exp.GroupID] = append(groupExpenses[*exp.GroupID], exp)
		case bankexpenses.IsFixedCommissionCategory(exp.Category):
			out.FixedCommissionsBs += exp.AmountBs
		default:
			out.GlobalExpensesBs += exp.AmountBs
		}
	}

	// Fixed commissions and global expenses are pooled and split equally
	// across every active agency; each group then carries as many shares
	// as it has agencies.
	if totalAgencies > 0 {
		out.PerAgencyShareBs = (out.FixedCommissionsBs + out.GlobalExpensesBs) / float64(totalAgencies)
	}

	out.Groups = make([]GroupProfit, 0, len(in.Groups))
	for _, g := range in.Groups {
		totals := byGroup[g.ID]
		gp := GroupProfit{
			GroupID:        g.ID,
			GroupName:      g.Name,
			AgencyCount:    totals.count,
			GrossProfitBs:  totals.bs,
			GrossProfitUsd: totals.usd,
		}
		gp.AllocatedGlobalBs = out.PerAgencyShareBs * float64(totals.count)
		for _, exp := range groupExpenses[g.ID] {
			gp.GroupExpensesBs += exp.AmountBs
			gp.GroupExpenses = append(gp.GroupExpenses, ExpenseLine{Description: exp.Description, AmountBs: exp.AmountBs})
		}
		gp.NetProfitBs = gp.GrossProfitBs - gp.AllocatedGlobalBs
		gp.FinalProfitBs = gp.NetProfitBs - gp.GroupExpensesBs
		gp.FinalProfitUsd = gp.GrossProfitUsd

		out.TotalFinalProfitBs += gp.FinalProfitBs
		out.TotalFinalProfitUsd += gp.FinalProfitUsd
		out.Groups = append(out.Groups, gp)
	}

	for _, rule := range opts.allocation() {
		share := StakeholderShare{Name: rule.Name}
		for _, term := range rule.Terms {
			if term.GroupIndex < 0 || term.GroupIndex >= len(out.Groups) || term.Divisor == 0 {
				continue
			}
			share.ShareBs += out.Groups[term.GroupIndex].FinalProfitBs / term.Divisor
			share.ShareUsd += out.Groups[term.GroupIndex].FinalProfitUsd / term.Divisor
		}
		out.Stakeholders = append(out.Stakeholders, share)
	}

	return out
}
