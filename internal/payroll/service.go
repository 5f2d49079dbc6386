package payroll

import (
	"context"
	"fmt"

	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Sheet loads the week's payroll with sheet totals.
func (s *Service) Sheet(ctx context.Context, week shared.Week) (WeekSheet, error) {
	entries, err := s.repo.ListWeek(ctx, week.StartDate())
	if err != nil {
		return WeekSheet{}, fmt.Errorf("payroll: load week %s: %w", week.StartDate(), err)
	}
	sheet := WeekSheet{WeekStart: week.StartDate(), WeekEnd: week.EndDate(), Entries: entries}
	for _, e := range entries {
		sheet.TotalUsd += e.TotalUsd
		sheet.TotalBs += e.TotalBs
	}
	return sheet, nil
}

// Save upserts the week's entries. Totals are recomputed here regardless
// of what the client sent.
func (s *Service) Save(ctx context.Context, week shared.Week, exchangeRate float64, entries []Entry) ([]Entry, error) {
	if exchangeRate <= 0 {
		return nil, fmt.Errorf("%w: exchange rate must be positive", httpx.ErrValidation)
	}
	for i := range entries {
		if entries[i].EmployeeID == "" {
			return nil, fmt.Errorf("%w: every entry needs an employee", httpx.ErrValidation)
		}
		if entries[i].WeeklyBaseSalary < 0 || entries[i].SundayPayment < 0 || entries[i].BonusesExtras < 0 ||
			entries[i].AbsencesDeductions < 0 || entries[i].OtherDeductions < 0 {
			return nil, fmt.Errorf("%w: payroll amounts must not be negative", httpx.ErrValidation)
		}
		entries[i].WeekStart = week.StartDate()
		entries[i].WeekEnd = week.EndDate()
		entries[i].ExchangeRate = exchangeRate
		entries[i].computeTotals()
	}
	if err := s.repo.UpsertWeek(ctx, entries); err != nil {
		return nil, fmt.Errorf("payroll: save week %s: %w", week.StartDate(), err)
	}
	return entries, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
