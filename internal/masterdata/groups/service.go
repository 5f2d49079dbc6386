package groups

import (
	"context"
	"fmt"
	"strings"

	"github.com/lanave/cuadre/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Group, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Group, error) {
	if id == "" {
		return Group{}, fmt.Errorf("%w: group id required", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, group Group) (Group, error) {
	if strings.TrimSpace(group.Name) == "" {
		return Group{}, fmt.Errorf("%w: group name is required", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, group)
}

func (s *Service) Update(ctx context.Context, id string, group Group) error {
	if id == "" {
		return fmt.Errorf("%w: group id required", httpx.ErrValidation)
	}
	if strings.TrimSpace(group.Name) == "" {
		return fmt.Errorf("%w: group name is required", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, group)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: group id required", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
