// Package payroll manages the weekly payroll sheet. Entries are priced
// in dollars and converted to bolivars with the week's exchange rate.
package payroll

import "time"

// Entry is one employee's payroll line for a week. Totals are derived,
// never accepted from the client.
type Entry struct {
	ID                 string    `json:"id"`
	EmployeeID         string    `json:"employee_id"`
	WeekStart          string    `json:"week_start"`
	WeekEnd            string    `json:"week_end"`
	WeeklyBaseSalary   float64   `json:"weekly_base_salary"`
	SundayPayment      float64   `json:"sunday_payment"`
	BonusesExtras      float64   `json:"bonuses_extras"`
	AbsencesDeductions float64   `json:"absences_deductions"`
	OtherDeductions    float64   `json:"other_deductions"`
	ExchangeRate       float64   `json:"exchange_rate"`
	TotalUsd           float64   `json:"total_usd"`
	TotalBs            float64   `json:"total_bs"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// computeTotals derives the dollar total and its bolivar conversion.
func (e *Entry) computeTotals() {
	e.TotalUsd = e.WeeklyBaseSalary + e.SundayPayment + e.BonusesExtras -
		e.AbsencesDeductions - e.OtherDeductions
	e.TotalBs = e.TotalUsd * e.ExchangeRate
}

// WeekSheet is the payroll for one week with sheet-level totals.
type WeekSheet struct {
	WeekStart string  `json:"week_start"`
	WeekEnd   string  `json:"week_end"`
	Entries   []Entry `json:"entries"`
	TotalUsd  float64 `json:"total_usd"`
	TotalBs   float64 `json:"total_bs"`
}
