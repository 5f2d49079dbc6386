// Package bankexpenses manages the weekly bank-level expense rows that
// feed the profit-distribution deductions.
package bankexpenses

import "time"

// Fixed-commission categories. Global rows in these categories are
// deducted as "fixed commissions" in the profit waterfall.
const (
	CategoryComisionBancaria = "comision_bancaria"
	CategoryComisionFija     = "comision_fija"
)

// BankExpense is one weekly bank expense. GroupID nil means the expense
// is global and gets allocated across all agencies; otherwise it belongs
// to one agency group. Fixed rows are seeded per week and only their
// amount may change.
type BankExpense struct {
	ID          string    `json:"id"`
	GroupID     *string   `json:"group_id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	AmountBs    float64   `json:"amount_bs"`
	WeekStart   string    `json:"week_start"`
	WeekEnd     string    `json:"week_end"`
	IsFixed     bool      `json:"is_fixed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// fixedSeeds are the commission rows every week must carry. They are
// created global with a zero amount when missing and cannot be deleted.
var fixedSeeds = []BankExpense{
	{Category: CategoryComisionBancaria, Description: "Comisión bancaria"},
	{Category: CategoryComisionFija, Description: "Comisión fija Banesco"},
	{Category: CategoryComisionFija, Description: "Comisión fija Mercantil"},
}

// IsFixedCommissionCategory reports whether a category counts as a fixed
// commission for profit deduction purposes.
func IsFixedCommissionCategory(category string) bool {
	return category == CategoryComisionBancaria || category == CategoryComisionFija
}
