package loans

import (
	"context"
	"errors"
	"fmt"

	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
)

// Invalidator drops cached weekly aggregations. Pending loans count as
// debt in the weekly cuadre, so loan writes bump it.
type Invalidator interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo  Repository
	cache Invalidator
}

// NewService builds the loan service. A nil cache disables invalidation.
func NewService(repo Repository, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// invalidate is best effort; the cache TTL still bounds staleness when
// the bump fails.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Bump(ctx)
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Loan, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Loan, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, loan Loan) (Loan, error) {
	if err := validateLoan(loan); err != nil {
		return Loan{}, err
	}
	loan.Status = shared.LoanStatusPendiente
	created, err := s.repo.Create(ctx, loan)
	if err != nil {
		return Loan{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, loan Loan) (Loan, error) {
	if err := validateLoan(loan); err != nil {
		return Loan{}, err
	}
	updated, err := s.repo.Update(ctx, loan)
	if err != nil {
		return Loan{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// SetStatus applies a lifecycle transition. A settled loan never reopens.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	loan, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := shared.ValidateLoanTransition(loan.Status, status); err != nil {
		if errors.Is(err, shared.ErrInvalidLoanTransition) {
			return fmt.Errorf("%w: cannot move loan from %s to %s", httpx.ErrValidation, loan.Status, status)
		}
		return err
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// PendingForWeek lists pendiente loans dated inside the week. They count
// against the receiving agency's debt in the weekly views.
func (s *Service) PendingForWeek(ctx context.Context, week shared.Week) ([]Loan, error) {
	return s.repo.PendingInRange(ctx, week.StartDate(), week.EndDate())
}

func validateLoan(loan Loan) error {
	if loan.FromAgencyID == "" || loan.ToAgencyID == "" {
		return fmt.Errorf("%w: both agencies are required", httpx.ErrValidation)
	}
	if loan.FromAgencyID == loan.ToAgencyID {
		return fmt.Errorf("%w: an agency cannot lend to itself", httpx.ErrValidation)
	}
	if loan.AmountBs < 0 || loan.AmountUsd < 0 {
		return fmt.Errorf("%w: amounts must not be negative", httpx.ErrValidation)
	}
	if loan.AmountBs == 0 && loan.AmountUsd == 0 {
		return fmt.Errorf("%w: loan amount is required", httpx.ErrValidation)
	}
	if loan.LoanDate == "" {
		return fmt.Errorf("%w: loan date is required", httpx.ErrValidation)
	}
	if !validReasons[loan.Reason] {
		return fmt.Errorf("%w: unknown loan reason %q", httpx.ErrValidation, loan.Reason)
	}
	return nil
}
