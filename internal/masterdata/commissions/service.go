package commissions

import (
	"context"
	"fmt"

	"github.com/lanave/cuadre/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ActiveMap loads every active rate keyed by lottery system id. A system
// with no entry carries zero commission; callers must not treat absence as
// an error.
func (s *Service) ActiveMap(ctx context.Context) (map[string]Rate, error) {
	rates, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("commissions: load active rates: %w", err)
	}
	bySystem := make(map[string]Rate, len(rates))
	for _, rate := range rates {
		bySystem[rate.LotterySystemID] = rate
	}
	return bySystem, nil
}

func (s *Service) ListActive(ctx context.Context) ([]Rate, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Rate, error) {
	if id == "" {
		return Rate{}, fmt.Errorf("%w: rate id required", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Set replaces the active rate for a lottery system.
func (s *Service) Set(ctx context.Context, rate Rate) (Rate, error) {
	if rate.LotterySystemID == "" {
		return Rate{}, fmt.Errorf("%w: lottery system is required", httpx.ErrValidation)
	}
	for name, pct := range map[string]float64{
		"commission_percentage":     rate.CommissionPercentage,
		"commission_percentage_usd": rate.CommissionPercentageUsd,
		"utility_percentage":        rate.UtilityPercentage,
		"utility_percentage_usd":    rate.UtilityPercentageUsd,
	} {
		if pct < 0 || pct > 100 {
			return Rate{}, fmt.Errorf("%w: %s must be between 0 and 100", httpx.ErrValidation, name)
		}
	}
	return s.repo.Replace(ctx, rate)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: rate id required", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
