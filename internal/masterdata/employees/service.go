package employees

import (
	"context"
	"fmt"
	"strings"

	"github.com/lanave/cuadre/internal/masterdata/shared"
	"github.com/lanave/cuadre/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Employee, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	if id == "" {
		return Employee{}, fmt.Errorf("%w: employee id required", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, employee Employee) (Employee, error) {
	if err := s.validate(employee); err != nil {
		return Employee{}, err
	}
	return s.repo.Create(ctx, employee)
}

func (s *Service) Update(ctx context.Context, id string, employee Employee) error {
	if id == "" {
		return fmt.Errorf("%w: employee id required", httpx.ErrValidation)
	}
	if err := s.validate(employee); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, employee)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: employee id required", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(e Employee) error {
	if e.AgencyID == "" {
		return fmt.Errorf("%w: agency is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(e.FullName) == "" {
		return fmt.Errorf("%w: employee name is required", httpx.ErrValidation)
	}
	if e.WeeklySalary < 0 {
		return fmt.Errorf("%w: weekly salary cannot be negative", httpx.ErrValidation)
	}
	return nil
}
