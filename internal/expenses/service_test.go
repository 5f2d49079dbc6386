package expenses

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
	_ "github.com/lanave/cuadre/testing"
)

type memoryRepo struct {
	rows   map[string]Expense
	nextID int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]Expense)}
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Expense, error) {
	var out []Expense
	for _, exp := range r.rows {
		if filters.Category != nil && exp.Category != *filters.Category {
			continue
		}
		if filters.IsPaid != nil && exp.IsPaid != *filters.IsPaid {
			continue
		}
		out = append(out, exp)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Expense, error) {
	exp, ok := r.rows[id]
	if !ok {
		return Expense{}, httpx.ErrNotFound
	}
	return exp, nil
}

func (r *memoryRepo) Create(ctx context.Context, exp Expense) (Expense, error) {
	r.nextID++
	exp.ID = strconv.Itoa(r.nextID)
	r.rows[exp.ID] = exp
	return exp, nil
}

func (r *memoryRepo) Update(ctx context.Context, exp Expense) (Expense, error) {
	existing, ok := r.rows[exp.ID]
	if !ok {
		return Expense{}, httpx.ErrNotFound
	}
	exp.AgencyID, exp.SessionID, exp.IsPaid = existing.AgencyID, existing.SessionID, existing.IsPaid
	r.rows[exp.ID] = exp
	return exp, nil
}

func (r *memoryRepo) SetPaid(ctx context.Context, id string, paid bool) error {
	exp, ok := r.rows[id]
	if !ok {
		return httpx.ErrNotFound
	}
	exp.IsPaid = paid
	r.rows[id] = exp
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func agencyPtr() *string {
	id := "22222222-2222-2222-2222-222222222222"
	return &id
}

func TestCreateNormalizesCategoryAliases(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	exp, err := svc.Create(context.Background(), Expense{
		AgencyID:        agencyPtr(),
		Category:        "operativo",
		Description:     "Recarga de impresora",
		AmountBs:        120,
		TransactionDate: "2025-04-15",
	})
	require.NoError(t, err)
	require.Equal(t, shared.CategoryGastoOperativo, exp.Category)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Create(context.Background(), Expense{
		AgencyID:        agencyPtr(),
		Category:        "misc",
		Description:     "x",
		TransactionDate: "2025-04-15",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRequiresAgencyOrSession(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Create(context.Background(), Expense{
		Category:        "deuda",
		Description:     "Préstamo taquilla",
		AmountBs:        50,
		TransactionDate: "2025-04-15",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSetPaidToggle(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	exp, err := svc.Create(context.Background(), Expense{
		AgencyID:        agencyPtr(),
		Category:        "deuda",
		Description:     "Deuda proveedor",
		AmountBs:        200,
		TransactionDate: "2025-04-15",
	})
	require.NoError(t, err)
	require.False(t, exp.IsPaid)

	require.NoError(t, svc.SetPaid(context.Background(), exp.ID, true))
	got, err := svc.Get(context.Background(), exp.ID)
	require.NoError(t, err)
	require.True(t, got.IsPaid)

	require.ErrorIs(t, svc.SetPaid(context.Background(), "missing", true), httpx.ErrNotFound)
}

type countingInvalidator struct{ bumps int }

func (c *countingInvalidator) Bump(context.Context) error {
	c.bumps++
	return nil
}

func TestWritesInvalidateWeeklyCache(t *testing.T) {
	inv := &countingInvalidator{}
	svc := NewService(newMemoryRepo(), inv)
	ctx := context.Background()

	exp, err := svc.Create(ctx, Expense{
		AgencyID:        agencyPtr(),
		Category:        "deuda",
		Description:     "Deuda proveedor",
		AmountBs:        200,
		TransactionDate: "2025-04-15",
	})
	require.NoError(t, err)
	require.Equal(t, 1, inv.bumps)

	exp.AmountBs = 250
	_, err = svc.Update(ctx, exp)
	require.NoError(t, err)
	require.NoError(t, svc.SetPaid(ctx, exp.ID, true))
	require.NoError(t, svc.Delete(ctx, exp.ID))
	require.Equal(t, 4, inv.bumps)

	// Reads and rejected writes leave the cache alone.
	_, err = svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Expense{Category: "misc"})
	require.Error(t, err)
	require.Equal(t, 4, inv.bumps)
}
