package bankexpenses

import (
	"context"
	"fmt"
	"strings"

	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListWeek returns the week's bank expenses, seeding the fixed-commission
// rows first so they always exist.
func (s *Service) ListWeek(ctx context.Context, week shared.Week) ([]BankExpense, error) {
	start, end := week.StartDate(), week.EndDate()
	if err := s.repo.EnsureFixed(ctx, start, end, fixedSeeds); err != nil {
		return nil, fmt.Errorf("bankexpenses: seed fixed rows: %w", err)
	}
	return s.repo.ListWeek(ctx, start, end)
}

// GlobalForWeek returns only the global (group-less) rows, the input to
// the profit waterfall's deductions.
func (s *Service) GlobalForWeek(ctx context.Context, week shared.Week) ([]BankExpense, error) {
	all, err := s.ListWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	out := make([]BankExpense, 0, len(all))
	for _, exp := range all {
		if exp.GroupID == nil {
			out = append(out, exp)
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, exp BankExpense) (BankExpense, error) {
	if err := validateExpense(exp); err != nil {
		return BankExpense{}, err
	}
	exp.IsFixed = false
	return s.repo.Create(ctx, exp)
}

// Update applies changes to a row. Fixed rows only accept a new amount;
// touching their category, description, or group is rejected.
func (s *Service) Update(ctx context.Context, exp BankExpense) (BankExpense, error) {
	existing, err := s.repo.Get(ctx, exp.ID)
	if err != nil {
		return BankExpense{}, err
	}
	if existing.IsFixed {
		if exp.Category != existing.Category || exp.Description != existing.Description ||
			!sameGroup(exp.GroupID, existing.GroupID) {
			return BankExpense{}, fmt.Errorf("%w: fixed commission rows only accept amount changes", httpx.ErrImmutable)
		}
	}
	if err := validateExpense(exp); err != nil {
		return BankExpense{}, err
	}
	exp.WeekStart, exp.WeekEnd = existing.WeekStart, existing.WeekEnd
	exp.IsFixed = existing.IsFixed
	return s.repo.Update(ctx, exp)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsFixed {
		return fmt.Errorf("%w: fixed commission rows cannot be deleted", httpx.ErrImmutable)
	}
	return s.repo.Delete(ctx, id)
}

func validateExpense(exp BankExpense) error {
	if strings.TrimSpace(exp.Description) == "" {
		return fmt.Errorf("%w: description is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(exp.Category) == "" {
		return fmt.Errorf("%w: category is required", httpx.ErrValidation)
	}
	if exp.AmountBs < 0 {
		return fmt.Errorf("%w: amount must not be negative", httpx.ErrValidation)
	}
	return nil
}

func sameGroup(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
