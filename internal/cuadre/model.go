package cuadre

import "time"

// Source tags which table an agency's weekly sales/prizes totals came from.
// Detail rows and summary rows are never mixed for one agency in one week.
type Source string

const (
	// SourceDetail means totals were summed from per-system detail rows.
	SourceDetail Source = "detail"
	// SourceSummaryFallback means no detail sales existed and the totals
	// were taken from the rolled-up daily summary rows instead.
	SourceSummaryFallback Source = "summary_fallback"
)

// defaultExchangeRate is used when no summary row carries a rate for the
// week's closing Sunday. Historical default carried over from the previous
// system.
const defaultExchangeRate = 36

// AgencyRef is the slice of the agency row the aggregator needs.
type AgencyRef struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	GroupID *string `json:"group_id"`
}

// SystemRef is the slice of the lottery system row the aggregator needs.
// Only leaf systems appear here; parent systems with subcategories would
// double-count their children.
type SystemRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DetailRow is one per-agency, per-system, per-day sales/prizes record.
type DetailRow struct {
	AgencyID        string
	SessionDate     string
	LotterySystemID string
	SalesBs         float64
	SalesUsd        float64
	PrizesBs        float64
	PrizesUsd       float64
}

// SummaryRow is an encargada-level daily reconciliation summary
// (session_id null). It is the only source of bank balance and pending
// prizes, and the fallback source of sales/prizes.
type SummaryRow struct {
	AgencyID       string
	SessionDate    string
	TotalBancoBs   float64
	PendingPrizes  float64
	ExchangeRate   float64
	TotalSalesBs   float64
	TotalSalesUsd  float64
	TotalPrizesBs  float64
	TotalPrizesUsd float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ExpenseRow is one expense or debt record in the week window.
type ExpenseRow struct {
	ID              string
	AgencyID        *string
	SessionID       *string
	Category        string
	Description     string
	AmountBs        float64
	AmountUsd       float64
	IsPaid          bool
	TransactionDate string
}

// LoanRow is a pending inter-agency loan overlapping the week. It counts
// toward the receiving agency's debt total.
type LoanRow struct {
	ID             string
	ToAgencyID     string
	FromAgencyName string
	AmountBs       float64
	AmountUsd      float64
	LoanDate       string
}

// SessionRow resolves a taquillera session to its user.
type SessionRow struct {
	ID     string
	UserID string
}

// ProfileRow resolves a user to its agency.
type ProfileRow struct {
	UserID   string
	AgencyID *string
}

// PerSystemTotals is the weekly sales/prizes vector entry for one system.
type PerSystemTotals struct {
	SystemID   string  `json:"system_id"`
	SystemName string  `json:"system_name"`
	SalesBs    float64 `json:"sales_bs"`
	SalesUsd   float64 `json:"sales_usd"`
	PrizesBs   float64 `json:"prizes_bs"`
	PrizesUsd  float64 `json:"prizes_usd"`
}

// ExpenseDetail is one itemised expense or debt in the weekly rollup.
type ExpenseDetail struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	AmountBs    float64 `json:"amount_bs"`
	AmountUsd   float64 `json:"amount_usd"`
	Date        string  `json:"date"`
}

// AgencyWeeklySummary is the aggregated weekly cuadre for one agency.
type AgencyWeeklySummary struct {
	AgencyID   string  `json:"agency_id"`
	AgencyName string  `json:"agency_name"`
	GroupID    *string `json:"group_id"`
	Source     Source  `json:"source"`

	TotalSalesBs   float64 `json:"total_sales_bs"`
	TotalSalesUsd  float64 `json:"total_sales_usd"`
	TotalPrizesBs  float64 `json:"total_prizes_bs"`
	TotalPrizesUsd float64 `json:"total_prizes_usd"`
	TotalCuadreBs  float64 `json:"total_cuadre_bs"`
	TotalCuadreUsd float64 `json:"total_cuadre_usd"`

	TotalDeudasBs  float64 `json:"total_deudas_bs"`
	TotalDeudasUsd float64 `json:"total_deudas_usd"`
	TotalGastosBs  float64 `json:"total_gastos_bs"`
	TotalGastosUsd float64 `json:"total_gastos_usd"`

	PremiosPorPagarBs  float64 `json:"premios_por_pagar_bs"`
	TotalBancoBs       float64 `json:"total_banco_bs"`
	SundayExchangeRate float64 `json:"sunday_exchange_rate"`

	PerSystem     []PerSystemTotals `json:"per_system"`
	DeudasDetails []ExpenseDetail   `json:"deudas_details"`
	GastosDetails []ExpenseDetail   `json:"gastos_details"`
}

// WeeklySummaries is the aggregator output for one week.
type WeeklySummaries struct {
	WeekStart string                `json:"week_start"`
	WeekEnd   string                `json:"week_end"`
	Agencies  []AgencyRef           `json:"agencies"`
	Systems   []SystemRef           `json:"systems"`
	Summaries []AgencyWeeklySummary `json:"summaries"`
}
