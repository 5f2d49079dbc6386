package commissions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/lanave/cuadre/testing"
)

type memoryRateRepo struct {
	rates  map[string]Rate
	nextID int
}

func newMemoryRateRepo() *memoryRateRepo {
	return &memoryRateRepo{rates: make(map[string]Rate)}
}

func (r *memoryRateRepo) ListActive(ctx context.Context) ([]Rate, error) {
	var out []Rate
	for _, rate := range r.rates {
		if rate.IsActive {
			out = append(out, rate)
		}
	}
	return out, nil
}

func (r *memoryRateRepo) Get(ctx context.Context, id string) (Rate, error) {
	return r.rates[id], nil
}

func (r *memoryRateRepo) Replace(ctx context.Context, rate Rate) (Rate, error) {
	for id, existing := range r.rates {
		if existing.LotterySystemID == rate.LotterySystemID && existing.IsActive {
			existing.IsActive = false
			r.rates[id] = existing
		}
	}
	r.nextID++
	rate.ID = string(rune('a' + r.nextID))
	rate.IsActive = true
	r.rates[rate.ID] = rate
	return rate, nil
}

func (r *memoryRateRepo) Delete(ctx context.Context, id string) error {
	delete(r.rates, id)
	return nil
}

func TestSetKeepsOneActiveRatePerSystem(t *testing.T) {
	repo := newMemoryRateRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Set(ctx, Rate{LotterySystemID: "sys-1", CommissionPercentage: 10})
	require.NoError(t, err)
	_, err = svc.Set(ctx, Rate{LotterySystemID: "sys-1", CommissionPercentage: 12})
	require.NoError(t, err)

	bySystem, err := svc.ActiveMap(ctx)
	require.NoError(t, err)
	require.Len(t, bySystem, 1)
	require.Equal(t, 12.0, bySystem["sys-1"].CommissionPercentage)
}

func TestSetRejectsOutOfRangePercentages(t *testing.T) {
	svc := NewService(newMemoryRateRepo())
	ctx := context.Background()

	_, err := svc.Set(ctx, Rate{LotterySystemID: "sys-1", CommissionPercentage: 101})
	require.Error(t, err)

	_, err = svc.Set(ctx, Rate{LotterySystemID: "sys-1", CommissionPercentageUsd: -1})
	require.Error(t, err)
}

func TestActiveMapAbsentSystemIsZero(t *testing.T) {
	svc := NewService(newMemoryRateRepo())

	bySystem, err := svc.ActiveMap(context.Background())
	require.NoError(t, err)

	// Absent entries read as the zero rate, never an error.
	require.Zero(t, bySystem["unknown"].CommissionPercentage)
	require.Zero(t, bySystem["unknown"].CommissionPercentageUsd)
}
