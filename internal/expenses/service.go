package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
)

// Invalidator drops cached weekly aggregations. Every expense write
// feeds the weekly cuadre, so mutations bump it.
type Invalidator interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo  Repository
	cache Invalidator
}

// NewService builds the expense service. A nil cache disables
// invalidation.
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

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Expense, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Expense, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, exp Expense) (Expense, error) {
	normalized, err := s.validate(exp)
	if err != nil {
		return Expense{}, err
	}
	if normalized.AgencyID == nil && normalized.SessionID == nil {
		return Expense{}, fmt.Errorf("%w: an expense needs an agency or a session", httpx.ErrValidation)
	}
	created, err := s.repo.Create(ctx, normalized)
	if err != nil {
		return Expense{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, exp Expense) (Expense, error) {
	normalized, err := s.validate(exp)
	if err != nil {
		return Expense{}, err
	}
	updated, err := s.repo.Update(ctx, normalized)
	if err != nil {
		return Expense{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) SetPaid(ctx context.Context, id string, paid bool) error {
	if err := s.repo.SetPaid(ctx, id, paid); err != nil {
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

func (s *Service) validate(exp Expense) (Expense, error) {
	category, err := shared.NormalizeCategory(string(exp.Category))
	if errors.Is(err, shared.ErrUnknownCategory) {
		return Expense{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	if err != nil {
		return Expense{}, err
	}
	exp.Category = category

	if strings.TrimSpace(exp.Description) == "" {
		return Expense{}, fmt.Errorf("%w: description is required", httpx.ErrValidation)
	}
	if exp.AmountBs < 0 || exp.AmountUsd < 0 {
		return Expense{}, fmt.Errorf("%w: amounts must not be negative", httpx.ErrValidation)
	}
	if exp.TransactionDate == "" {
		return Expense{}, fmt.Errorf("%w: transaction date is required", httpx.ErrValidation)
	}
	return exp, nil
}
