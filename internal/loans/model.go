// Package loans manages inter-agency loans and their status lifecycle.
package loans

import "time"

// Loan reasons accepted on creation.
const (
	ReasonEfectivo    = "prestamo_efectivo"
	ReasonPagoPremios = "pago_premios"
	ReasonCobertura   = "cobertura_banco"
	ReasonOtro        = "otro"
)

var validReasons = map[string]bool{
	ReasonEfectivo:    true,
	ReasonPagoPremios: true,
	ReasonCobertura:   true,
	ReasonOtro:        true,
}

// Loan is one inter-agency loan. While pendiente it counts against the
// receiving agency's debt for weeks overlapping the loan date.
type Loan struct {
	ID           string    `json:"id"`
	FromAgencyID string    `json:"from_agency_id"`
	ToAgencyID   string    `json:"to_agency_id"`
	AmountBs     float64   `json:"amount_bs"`
	AmountUsd    float64   `json:"amount_usd"`
	LoanDate     string    `json:"loan_date"`
	DueDate      *string   `json:"due_date"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListFilters narrow a loan listing.
type ListFilters struct {
	AgencyID *string
	Status   *string
	DateFrom string
	DateTo   string
}
