package systems

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]System, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (System, error) {
	if id == "" {
		return System{}, fmt.Errorf("%w: system id required", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, system System) (System, error) {
	if err := s.validate(system); err != nil {
		return System{}, err
	}
	return s.repo.Create(ctx, system)
}

func (s *Service) Update(ctx context.Context, id string, system System) error {
	if id == "" {
		return fmt.Errorf("%w: system id required", httpx.ErrValidation)
	}
	if err := s.validate(system); err != nil {
		return err
	}
	if system.ParentSystemID != nil && *system.ParentSystemID == id {
		return fmt.Errorf("%w: a system cannot be its own parent", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, system)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: system id required", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(sys System) error {
	if strings.TrimSpace(sys.Name) == "" {
		return fmt.Errorf("%w: system name is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(sys.Code) == "" {
		return fmt.Errorf("%w: system code is required", httpx.ErrValidation)
	}
	return nil
}
