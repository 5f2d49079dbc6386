package payroll

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
	_ "github.com/lanave/cuadre/testing"
)

type memoryRepo struct {
	// keyed by employee_id + week start
	rows map[string]Entry
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]Entry)}
}

func (r *memoryRepo) ListWeek(ctx context.Context, weekStart string) ([]Entry, error) {
	var out []Entry
	for _, e := range r.rows {
		if e.WeekStart == weekStart {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryRepo) UpsertWeek(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		r.rows[e.EmployeeID+"/"+e.WeekStart] = e
	}
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	return httpx.ErrNotFound
}

func testWeek(t *testing.T) shared.Week {
	t.Helper()
	w, err := shared.ParseWeekStart("2025-04-14")
	require.NoError(t, err)
	return w
}

func TestSaveDerivesTotals(t *testing.T) {
	svc := NewService(newMemoryRepo())

	saved, err := svc.Save(context.Background(), testWeek(t), 40, []Entry{{
		EmployeeID:         "emp-1",
		WeeklyBaseSalary:   100,
		SundayPayment:      20,
		BonusesExtras:      10,
		AbsencesDeductions: 5,
		OtherDeductions:    5,
		// Client-sent totals are ignored.
		TotalUsd: 9999,
		TotalBs:  9999,
	}})
	require.NoError(t, err)

	e := saved[0]
	require.Equal(t, 120.0, e.TotalUsd)
	require.Equal(t, 4800.0, e.TotalBs)
	require.Equal(t, "2025-04-14", e.WeekStart)
	require.Equal(t, "2025-04-20", e.WeekEnd)
	require.Equal(t, 40.0, e.ExchangeRate)
}

func TestSaveUpsertsPerEmployeeWeek(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	week := testWeek(t)

	_, err := svc.Save(context.Background(), week, 40, []Entry{{EmployeeID: "emp-1", WeeklyBaseSalary: 100}})
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), week, 42, []Entry{{EmployeeID: "emp-1", WeeklyBaseSalary: 110}})
	require.NoError(t, err)

	sheet, err := svc.Sheet(context.Background(), week)
	require.NoError(t, err)
	require.Len(t, sheet.Entries, 1)
	require.Equal(t, 110.0, sheet.Entries[0].WeeklyBaseSalary)
	require.Equal(t, 110.0, sheet.TotalUsd)
	require.Equal(t, 4620.0, sheet.TotalBs)
}

func TestSaveRejectsBadInput(t *testing.T) {
	svc := NewService(newMemoryRepo())
	week := testWeek(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, week, 0, []Entry{{EmployeeID: "emp-1"}})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Save(ctx, week, 40, []Entry{{EmployeeID: ""}})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Save(ctx, week, 40, []Entry{{EmployeeID: "emp-1", OtherDeductions: -1}})
	require.ErrorIs(t, err, httpx.ErrValidation)
}
