package cuadre

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lanave/cuadre/internal/shared"
)

// Service aggregates a week of raw rows into per-agency summaries.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{repo: repo, logger: logger}
}

type weekData struct {
	agencies  []AgencyRef
	systems   []SystemRef
	details   []DetailRow
	summaries []SummaryRow
	expenses  []ExpenseRow
	loans     []LoanRow
	sessions  []SessionRow
	profiles  []ProfileRow
}

// Aggregate fetches the week's raw rows concurrently and folds them into
// one summary per active agency. Any failed fetch aborts the whole run;
// there are no partial results.
func (s *Service) Aggregate(ctx context.Context, week shared.Week) (*WeeklySummaries, error) {
	start, end := week.StartDate(), week.EndDate()

	var data weekData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		data.agencies, err = s.repo.ActiveAgencies(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.systems, err = s.repo.ActiveSystems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.details, err = s.repo.DetailRows(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		data.summaries, err = s.repo.SummaryRows(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		data.expenses, err = s.repo.ExpenseRows(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		data.loans, err = s.repo.PendingLoanRows(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		data.sessions, err = s.repo.SessionRows(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		data.profiles, err = s.repo.Profiles(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cuadre: aggregate week %s: %w", start, err)
	}

	out := buildSummaries(start, end, data)
	s.logger.Debug("weekly cuadre aggregated",
		slog.String("week_start", start),
		slog.Int("agencies", len(out.Summaries)),
		slog.Int("systems", len(out.Systems)))
	return out, nil
}

func buildSummaries(start, end string, data weekData) *WeeklySummaries {
	// Session -> agency, precomputed once for expense routing.
	agencyByUser := make(map[string]string, len(data.profiles))
	for _, p := range data.profiles {
		if p.AgencyID != nil {
			agencyByUser[p.UserID] = *p.AgencyID
		}
	}
	agencyBySession := make(map[string]string, len(data.sessions))
	for _, sess := range data.sessions {
		if agencyID, ok := agencyByUser[sess.UserID]; ok {
			agencyBySession[sess.ID] = agencyID
		}
	}

	// Every active agency starts with a full zero-filled system vector so
	// the output covers agency x system even with no activity.
	byAgency := make(map[string]*AgencyWeeklySummary, len(data.agencies))
	sysIndex := make(map[string]int, len(data.systems))
	for i, sys := range data.systems {
		sysIndex[sys.ID] = i
	}
	for _, ag := range data.agencies {
		perSystem := make([]PerSystemTotals, len(data.systems))
		for i, sys := range data.systems {
			perSystem[i] = PerSystemTotals{SystemID: sys.ID, SystemName: sys.Name}
		}
		byAgency[ag.ID] = &AgencyWeeklySummary{
			AgencyID:           ag.ID,
			AgencyName:         ag.Name,
			GroupID:            ag.GroupID,
			Source:             SourceDetail,
			SundayExchangeRate: defaultExchangeRate,
			PerSystem:          perSystem,
		}
	}

	// Detail rows into the matching agency+system cell.
	for _, d := range data.details {
		ag, ok := byAgency[d.AgencyID]
		if !ok {
			continue
		}
		i, ok := sysIndex[d.LotterySystemID]
		if !ok {
			continue
		}
		cell := &ag.PerSystem[i]
		cell.SalesBs += d.SalesBs
		cell.SalesUsd += d.SalesUsd
		cell.PrizesBs += d.PrizesBs
		cell.PrizesUsd += d.PrizesUsd
	}

	// Agency totals from the system vector.
	for _, ag := range byAgency {
		for _, cell := range ag.PerSystem {
			ag.TotalSalesBs += cell.SalesBs
			ag.TotalSalesUsd += cell.SalesUsd
			ag.TotalPrizesBs += cell.PrizesBs
			ag.TotalPrizesUsd += cell.PrizesUsd
		}
	}

	// Group summary rows per agency, keeping only the freshest row per
	// calendar date for bank/pending figures.
	summariesByAgency := make(map[string][]SummaryRow)
	latestByDate := make(map[string]map[string]SummaryRow)
	for _, row := range data.summaries {
		summariesByAgency[row.AgencyID] = append(summariesByAgency[row.AgencyID], row)
		dates, ok := latestByDate[row.AgencyID]
		if !ok {
			dates = make(map[string]SummaryRow)
			latestByDate[row.AgencyID] = dates
		}
		existing, ok := dates[row.SessionDate]
		if !ok || rowTime(row).After(rowTime(existing)) {
			dates[row.SessionDate] = row
		}
	}

	for agencyID, ag := range byAgency {
		// Fallback: no detail sales in either currency means the rolled-up
		// summary rows are the source for sales/prizes. Never both.
		if ag.TotalSalesBs == 0 && ag.TotalSalesUsd == 0 {
			if rows, ok := summariesByAgency[agencyID]; ok {
				ag.Source = SourceSummaryFallback
				ag.TotalSalesBs, ag.TotalSalesUsd = 0, 0
				ag.TotalPrizesBs, ag.TotalPrizesUsd = 0, 0
				for _, row := range rows {
					ag.TotalSalesBs += row.TotalSalesBs
					ag.TotalSalesUsd += row.TotalSalesUsd
					ag.TotalPrizesBs += row.TotalPrizesBs
					ag.TotalPrizesUsd += row.TotalPrizesUsd
				}
			}
		}
		ag.TotalCuadreBs = ag.TotalSalesBs - ag.TotalPrizesBs
		ag.TotalCuadreUsd = ag.TotalSalesUsd - ag.TotalPrizesUsd

		if dates, ok := latestByDate[agencyID]; ok {
			for _, row := range dates {
				ag.TotalBancoBs += row.TotalBancoBs
				ag.PremiosPorPagarBs += row.PendingPrizes
			}
			if sunday, ok := dates[end]; ok && sunday.ExchangeRate > 0 {
				ag.SundayExchangeRate = sunday.ExchangeRate
			}
		}
	}

	// Expenses and debts. Unpaid deudas and operative expenses count;
	// otros and settled deudas stay out of the weekly totals.
	for _, e := range data.expenses {
		agencyID := ""
		if e.AgencyID != nil {
			agencyID = *e.AgencyID
		} else if e.SessionID != nil {
			agencyID = agencyBySession[*e.SessionID]
		}
		ag, ok := byAgency[agencyID]
		if !ok {
			continue
		}
		category, err := shared.NormalizeCategory(e.Category)
		if err != nil {
			continue
		}
		detail := ExpenseDetail{
			ID:          e.ID,
			Description: e.Description,
			AmountBs:    e.AmountBs,
			AmountUsd:   e.AmountUsd,
			Date:        e.TransactionDate,
		}
		switch category {
		case shared.CategoryDeuda:
			if e.IsPaid {
				continue
			}
			ag.TotalDeudasBs += e.AmountBs
			ag.TotalDeudasUsd += e.AmountUsd
			ag.DeudasDetails = append(ag.DeudasDetails, detail)
		case shared.CategoryGastoOperativo:
			ag.TotalGastosBs += e.AmountBs
			ag.TotalGastosUsd += e.AmountUsd
			ag.GastosDetails = append(ag.GastosDetails, detail)
		}
	}

	// Pending loans count as debt for the receiving agency.
	for _, l := range data.loans {
		ag, ok := byAgency[l.ToAgencyID]
		if !ok {
			continue
		}
		ag.TotalDeudasBs += l.AmountBs
		ag.TotalDeudasUsd += l.AmountUsd
		ag.DeudasDetails = append(ag.DeudasDetails, ExpenseDetail{
			ID:          l.ID,
			Description: "Préstamo de " + l.FromAgencyName,
			AmountBs:    l.AmountBs,
			AmountUsd:   l.AmountUsd,
			Date:        l.LoanDate,
		})
	}

	// Stable Spanish ordering for names, matching how the agencies read
	// the printed cuadre.
	coll := collate.New(language.Spanish)
	summaries := make([]AgencyWeeklySummary, 0, len(byAgency))
	for _, ag := range byAgency {
		sort.SliceStable(ag.PerSystem, func(i, j int) bool {
			return coll.CompareString(ag.PerSystem[i].SystemName, ag.PerSystem[j].SystemName) < 0
		})
		summaries = append(summaries, *ag)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return coll.CompareString(summaries[i].AgencyName, summaries[j].AgencyName) < 0
	})

	return &WeeklySummaries{
		WeekStart: start,
		WeekEnd:   end,
		Agencies:  data.agencies,
		Systems:   data.systems,
		Summaries: summaries,
	}
}

func rowTime(row SummaryRow) time.Time {
	if row.UpdatedAt.After(row.CreatedAt) {
		return row.UpdatedAt
	}
	return row.CreatedAt
}
