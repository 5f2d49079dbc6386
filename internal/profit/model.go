// Package profit derives the weekly profit waterfall and its distribution
// across agency groups and stakeholders.
package profit

// DefaultParticipationRate is the commission retained on participation
// subtotals. Kept as a default, overridable through Options.
const DefaultParticipationRate = 0.30

// AllocationTerm is one additive term of a stakeholder's share: the final
// profit of the group at GroupIndex divided by Divisor.
type AllocationTerm struct {
	GroupIndex int     `json:"group_index"`
	Divisor    float64 `json:"divisor"`
}

// StakeholderRule names a stakeholder and the terms composing their share.
type StakeholderRule struct {
	Name  string           `json:"name"`
	Terms []AllocationTerm `json:"terms"`
}

// AllocationTable is the ordered set of stakeholder rules. The default
// preserves the historical hand-written formula over the first three
// groups.
type AllocationTable []StakeholderRule

// DefaultAllocationTable returns the historical five-person distribution.
func DefaultAllocationTable() AllocationTable {
	full := []AllocationTerm{{0, 5}, {1, 4}, {2, 3}}
	return AllocationTable{
		{Name: "Denis", Terms: full},
		{Name: "Jonathan", Terms: full},
		{Name: "Byjer", Terms: []AllocationTerm{{0, 5}, {2, 3}}},
		{Name: "Daniela", Terms: []AllocationTerm{{0, 5}, {1, 4}}},
		{Name: "Jorge", Terms: []AllocationTerm{{0, 5}, {1, 4}}},
	}
}

// Options tune the builders; zero values fall back to the defaults.
type Options struct {
	ParticipationRate float64
	Allocation        AllocationTable
}

func (o Options) participationRate() float64 {
	if o.ParticipationRate > 0 {
		return o.ParticipationRate
	}
	return DefaultParticipationRate
}

func (o Options) allocation() AllocationTable {
	if len(o.Allocation) > 0 {
		return o.Allocation
	}
	return DefaultAllocationTable()
}

// ExpenseLine is one group-specific bank expense listed in the waterfall.
type ExpenseLine struct {
	Description string  `json:"description"`
	AmountBs    float64 `json:"amount_bs"`
}

// GroupProfit is the waterfall result for one agency group.
type GroupProfit struct {
	GroupID     string `json:"group_id"`
	GroupName   string `json:"group_name"`
	AgencyCount int    `json:"agency_count"`

	GrossProfitBs  float64 `json:"gross_profit_bs"`
	GrossProfitUsd float64 `json:"gross_profit_usd"`

	AllocatedGlobalBs float64       `json:"allocated_global_bs"`
	GroupExpensesBs   float64       `json:"group_expenses_bs"`
	GroupExpenses     []ExpenseLine `json:"group_expenses"`

	NetProfitBs float64 `json:"net_profit_bs"`
	// Dollar profits skip the fixed-commission and global-expense
	// deductions: final USD equals gross USD.
	FinalProfitBs  float64 `json:"final_profit_bs"`
	FinalProfitUsd float64 `json:"final_profit_usd"`
}

// StakeholderShare is one stakeholder's computed cut of the final profits.
type StakeholderShare struct {
	Name     string  `json:"name"`
	ShareBs  float64 `json:"share_bs"`
	ShareUsd float64 `json:"share_usd"`
}

// Distribution is the full weekly waterfall output.
type Distribution struct {
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`

	FixedCommissionsBs float64 `json:"fixed_commissions_bs"`
	GlobalExpensesBs   float64 `json:"global_expenses_bs"`
	PerAgencyShareBs   float64 `json:"per_agency_share_bs"`

	Groups []GroupProfit `json:"groups"`

	TotalFinalProfitBs  float64 `json:"total_final_profit_bs"`
	TotalFinalProfitUsd float64 `json:"total_final_profit_usd"`

	Stakeholders []StakeholderShare `json:"stakeholders"`
}

// ParticipationRow is one agency x system participation line. Only
// systems with a configured commission rate produce rows.
type ParticipationRow struct {
	AgencyID   string `json:"agency_id"`
	AgencyName string `json:"agency_name"`
	SystemID   string `json:"system_id"`
	SystemName string `json:"system_name"`

	CommissionPct float64 `json:"commission_pct"`

	SubtotalBs    float64 `json:"subtotal_bs"`
	SubtotalUsd   float64 `json:"subtotal_usd"`
	CommissionBs  float64 `json:"commission_bs"`
	CommissionUsd float64 `json:"commission_usd"`
	ResultBs      float64 `json:"result_bs"`
	ResultUsd     float64 `json:"result_usd"`
}

// Participation is the participation-profit table plus grand totals.
type Participation struct {
	Rows []ParticipationRow `json:"rows"`

	TotalSubtotalBs    float64 `json:"total_subtotal_bs"`
	TotalSubtotalUsd   float64 `json:"total_subtotal_usd"`
	TotalCommissionBs  float64 `json:"total_commission_bs"`
	TotalCommissionUsd float64 `json:"total_commission_usd"`
	TotalResultBs      float64 `json:"total_result_bs"`
	TotalResultUsd     float64 `json:"total_result_usd"`
}
