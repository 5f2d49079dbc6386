package agencies

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Agency, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Agency, error) {
	if id == "" {
		return Agency{}, fmt.Errorf("%w: agency id required", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, agency Agency) (Agency, error) {
	if err := s.validate(agency); err != nil {
		return Agency{}, err
	}
	return s.repo.Create(ctx, agency)
}

func (s *Service) Update(ctx context.Context, id string, agency Agency) error {
	if id == "" {
		return fmt.Errorf("%w: agency id required", httpx.ErrValidation)
	}
	if err := s.validate(agency); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, agency)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: agency id required", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(a Agency) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: agency name is required", httpx.ErrValidation)
	}
	return nil
}
