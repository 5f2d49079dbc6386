// Package expenses manages agency expense and debt records. Rows are
// scoped to an agency directly or through the taquillera session that
// created them.
package expenses

import (
	"time"

	"github.com/lanave/cuadre/internal/shared"
)

// Expense is one expense or debt row. Category is stored canonically;
// synonym spellings are normalized on the way in.
type Expense struct {
	ID              string                 `json:"id"`
	AgencyID        *string                `json:"agency_id"`
	SessionID       *string                `json:"session_id"`
	Category        shared.ExpenseCategory `json:"category"`
	Description     string                 `json:"description"`
	AmountBs        float64                `json:"amount_bs"`
	AmountUsd       float64                `json:"amount_usd"`
	IsPaid          bool                   `json:"is_paid"`
	TransactionDate string                 `json:"transaction_date"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ListFilters narrow an expense listing.
type ListFilters struct {
	AgencyID *string
	Category *shared.ExpenseCategory
	IsPaid   *bool
	DateFrom string
	DateTo   string
}
