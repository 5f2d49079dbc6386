package loans

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
	rows   map[string]Loan
	nextID int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]Loan)}
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Loan, error) {
	var out []Loan
	for _, loan := range r.rows {
		out = append(out, loan)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Loan, error) {
	loan, ok := r.rows[id]
	if !ok {
		return Loan{}, httpx.ErrNotFound
	}
	return loan, nil
}

func (r *memoryRepo) Create(ctx context.Context, loan Loan) (Loan, error) {
	r.nextID++
	loan.ID = strconv.Itoa(r.nextID)
	r.rows[loan.ID] = loan
	return loan, nil
}

func (r *memoryRepo) Update(ctx context.Context, loan Loan) (Loan, error) {
	existing, ok := r.rows[loan.ID]
	if !ok {
		return Loan{}, httpx.ErrNotFound
	}
	loan.FromAgencyID, loan.ToAgencyID, loan.Status = existing.FromAgencyID, existing.ToAgencyID, existing.Status
	r.rows[loan.ID] = loan
	return loan, nil
}

func (r *memoryRepo) SetStatus(ctx context.Context, id, status string) error {
	loan, ok := r.rows[id]
	if !ok {
		return httpx.ErrNotFound
	}
	loan.Status = status
	r.rows[id] = loan
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryRepo) PendingInRange(ctx context.Context, from, to string) ([]Loan, error) {
	var out []Loan
	for _, loan := range r.rows {
		if loan.Status == shared.LoanStatusPendiente && loan.LoanDate >= from && loan.LoanDate <= to {
			out = append(out, loan)
		}
	}
	return out, nil
}

func newLoan() Loan {
	return Loan{
		FromAgencyID: "ag-1",
		ToAgencyID:   "ag-2",
		AmountBs:     500,
		LoanDate:     "2025-04-15",
		Reason:       ReasonEfectivo,
	}
}

func TestCreateStartsPendiente(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	loan, err := svc.Create(context.Background(), newLoan())
	require.NoError(t, err)
	require.Equal(t, shared.LoanStatusPendiente, loan.Status)
}

func TestCreateRejectsSelfLoan(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	bad := newLoan()
	bad.ToAgencyID = bad.FromAgencyID
	_, err := svc.Create(context.Background(), bad)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRejectsUnknownReason(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	bad := newLoan()
	bad.Reason = "porque si"
	_, err := svc.Create(context.Background(), bad)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestStatusTransitions(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	loan, err := svc.Create(ctx, newLoan())
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(ctx, loan.ID, shared.LoanStatusVencido))
	require.NoError(t, svc.SetStatus(ctx, loan.ID, shared.LoanStatusPagado))

	// A settled loan never reopens.
	err = svc.SetStatus(ctx, loan.ID, shared.LoanStatusPendiente)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestPendingForWeek(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	inWeek, err := svc.Create(ctx, newLoan())
	require.NoError(t, err)

	outOfWeek := newLoan()
	outOfWeek.LoanDate = "2025-04-22"
	_, err = svc.Create(ctx, outOfWeek)
	require.NoError(t, err)

	paid, err := svc.Create(ctx, newLoan())
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(ctx, paid.ID, shared.LoanStatusPagado))

	week, err := shared.ParseWeekStart("2025-04-14")
	require.NoError(t, err)
	pending, err := svc.PendingForWeek(ctx, week)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, inWeek.ID, pending[0].ID)
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

	loan, err := svc.Create(ctx, newLoan())
	require.NoError(t, err)
	require.Equal(t, 1, inv.bumps)

	loan.AmountBs = 900
	_, err = svc.Update(ctx, loan)
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(ctx, loan.ID, shared.LoanStatusPagado))
	require.NoError(t, svc.Delete(ctx, loan.ID))
	require.Equal(t, 4, inv.bumps)

	// Reads and rejected writes leave the cache alone.
	_, err = svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	bad := newLoan()
	bad.ToAgencyID = bad.FromAgencyID
	_, err = svc.Create(ctx, bad)
	require.Error(t, err)
	require.Equal(t, 4, inv.bumps)
}
