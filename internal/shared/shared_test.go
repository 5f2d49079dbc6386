package shared

import (
	"testing"
	"time"

	_ "github.com/lanave/cuadre/testing"
)

func TestWeekContainingStartsOnMonday(t *testing.T) {
	// Wednesday 2025-04-16 in Caracas.
	loc, _ := time.LoadLocation(TimezoneName)
	wed := time.Date(2025, 4, 16, 15, 30, 0, 0, loc)

	w := WeekContaining(wed)
	if w.StartDate() != "2025-04-14" {
		t.Fatalf("expected week start 2025-04-14, got %s", w.StartDate())
	}
	if w.EndDate() != "2025-04-20" {
		t.Fatalf("expected week end 2025-04-20, got %s", w.EndDate())
	}
	if w.Start.Weekday() != time.Monday {
		t.Fatalf("week must start on Monday, got %s", w.Start.Weekday())
	}
}

func TestWeekContainingOnSundayStaysInWeek(t *testing.T) {
	loc, _ := time.LoadLocation(TimezoneName)
	sun := time.Date(2025, 4, 20, 23, 50, 0, 0, loc)

	w := WeekContaining(sun)
	if w.StartDate() != "2025-04-14" || w.EndDate() != "2025-04-20" {
		t.Fatalf("unexpected boundaries %s..%s", w.StartDate(), w.EndDate())
	}
}

func TestAddWeeksNavigates(t *testing.T) {
	w, err := ParseWeekStart("2025-04-14")
	if err != nil {
		t.Fatal(err)
	}
	next := AddWeeks(w, 1)
	if next.StartDate() != "2025-04-21" {
		t.Fatalf("expected next week start 2025-04-21, got %s", next.StartDate())
	}
	prev := AddWeeks(w, -1)
	if prev.StartDate() != "2025-04-07" {
		t.Fatalf("expected prev week start 2025-04-07, got %s", prev.StartDate())
	}
}

func TestNormalizeCategoryAliases(t *testing.T) {
	cases := map[string]ExpenseCategory{
		"deuda":           CategoryDeuda,
		"gasto_operativo": CategoryGastoOperativo,
		"operativo":       CategoryGastoOperativo,
		"GASTO":           CategoryGastoOperativo,
		"otros":           CategoryOtros,
	}
	for raw, want := range cases {
		got, err := NormalizeCategory(raw)
		if err != nil {
			t.Fatalf("normalize %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("normalize %q: expected %s got %s", raw, want, got)
		}
	}
	if _, err := NormalizeCategory("propina"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestValidateLoanTransition(t *testing.T) {
	allowed := [][2]string{
		{LoanStatusPendiente, LoanStatusPagado},
		{LoanStatusPendiente, LoanStatusVencido},
		{LoanStatusVencido, LoanStatusPagado},
		{LoanStatusPagado, LoanStatusPagado},
	}
	for _, c := range allowed {
		if err := ValidateLoanTransition(c[0], c[1]); err != nil {
			t.Fatalf("expected %s -> %s allowed: %v", c[0], c[1], err)
		}
	}
	denied := [][2]string{
		{LoanStatusPagado, LoanStatusPendiente},
		{LoanStatusPagado, LoanStatusVencido},
		{LoanStatusVencido, LoanStatusPendiente},
	}
	for _, c := range denied {
		if err := ValidateLoanTransition(c[0], c[1]); err == nil {
			t.Fatalf("expected %s -> %s denied", c[0], c[1])
		}
	}
}
