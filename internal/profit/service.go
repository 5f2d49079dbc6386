package profit

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lanave/cuadre/internal/bankexpenses"
	"github.com/lanave/cuadre/internal/cuadre"
	"github.com/lanave/cuadre/internal/masterdata/commissions"
	"github.com/lanave/cuadre/internal/masterdata/groups"
	"github.com/lanave/cuadre/internal/shared"
)

// Aggregator supplies the weekly per-agency summaries.
type Aggregator interface {
	Aggregate(ctx context.Context, week shared.Week) (*cuadre.WeeklySummaries, error)
}

// RateSource supplies the active commission map.
type RateSource interface {
	ActiveMap(ctx context.Context) (map[string]commissions.Rate, error)
}

// ExpenseSource supplies the week's bank expenses.
type ExpenseSource interface {
	ListWeek(ctx context.Context, week shared.Week) ([]bankexpenses.BankExpense, error)
}

// GroupSource supplies the agency groups in canonical order.
type GroupSource interface {
	List(ctx context.Context) ([]groups.Group, error)
}

// Service assembles the waterfall inputs and runs the pure builders.
type Service struct {
	logger     *slog.Logger
	aggregator Aggregator
	rates      RateSource
	expenses   ExpenseSource
	groups     GroupSource
	opts       Options
}

func NewService(logger *slog.Logger, aggregator Aggregator, rates RateSource, expenses ExpenseSource, groupSource GroupSource, opts Options) *Service {
	return &Service{
		logger:     logger,
		aggregator: aggregator,
		rates:      rates,
		expenses:   expenses,
		groups:     groupSource,
		opts:       opts,
	}
}

// Distribution fetches the week's inputs concurrently and derives the
// profit waterfall. Any fetch failure aborts the whole derivation.
func (s *Service) Distribution(ctx context.Context, week shared.Week) (Distribution, error) {
	in, err := s.fetch(ctx, week, true)
	if err != nil {
		return Distribution{}, fmt.Errorf("profit: distribution for week %s: %w", week.StartDate(), err)
	}
	return BuildDistribution(in, s.opts), nil
}

// Participation derives the participation-profit table for the week.
func (s *Service) Participation(ctx context.Context, week shared.Week) (Participation, error) {
	in, err := s.fetch(ctx, week, false)
	if err != nil {
		return Participation{}, fmt.Errorf("profit: participation for week %s: %w", week.StartDate(), err)
	}
	return BuildParticipation(in.Summaries, in.Rates, s.opts), nil
}

func (s *Service) fetch(ctx context.Context, week shared.Week, withExpenses bool) (DistributionInput, error) {
	in := DistributionInput{WeekStart: week.StartDate(), WeekEnd: week.EndDate()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summaries, err := s.aggregator.Aggregate(gctx, week)
		if err != nil {
			return err
		}
		in.Summaries = summaries.Summaries
		return nil
	})
	g.Go(func() error {
		var err error
		in.Rates, err = s.rates.ActiveMap(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Groups, err = s.groups.List(gctx)
		return err
	})
	if withExpenses {
		g.Go(func() error {
			var err error
			in.Expenses, err = s.expenses.ListWeek(gctx, week)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return DistributionInput{}, err
	}
	return in, nil
}
