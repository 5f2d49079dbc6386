package shared

import "errors"

// Loan statuses reused outside the loans module.
const (
	LoanStatusPendiente = "pendiente"
	LoanStatusPagado    = "pagado"
	LoanStatusVencido   = "vencido"
)

// ErrInvalidLoanTransition indicates a status change that is not allowed.
var ErrInvalidLoanTransition = errors.New("loan transition invalid")

// ValidateLoanTransition checks status transitions according to policy.
// A settled loan never reopens.
func ValidateLoanTransition(current, target string) error {
	if current == target {
		return nil
	}
	switch current {
	case LoanStatusPendiente:
		if target == LoanStatusPagado || target == LoanStatusVencido {
			return nil
		}
	case LoanStatusVencido:
		if target == LoanStatusPagado {
			return nil
		}
	}
	return ErrInvalidLoanTransition
}
