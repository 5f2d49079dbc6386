package reports

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/lanave/cuadre/internal/cuadre"
	"github.com/lanave/cuadre/internal/masterdata/commissions"
	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
)

// Aggregator supplies the weekly summaries the projections flatten.
type Aggregator interface {
	Aggregate(ctx context.Context, week shared.Week) (*cuadre.WeeklySummaries, error)
}

// RateSource supplies the active commission map.
type RateSource interface {
	ActiveMap(ctx context.Context) (map[string]commissions.Rate, error)
}

type Handler struct {
	logger     *slog.Logger
	aggregator Aggregator
	rates      RateSource
}

func NewHandler(logger *slog.Logger, aggregator Aggregator, rates RateSource) *Handler {
	return &Handler{logger: logger, aggregator: aggregator, rates: rates}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/systems", h.Systems)
	r.Get("/systems/table", h.SystemsTable)
}

func (h *Handler) Systems(w http.ResponseWriter, r *http.Request) {
	summaries, rates, ok := h.fetch(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, BuildSystemsSummary(summaries, rates))
}

func (h *Handler) SystemsTable(w http.ResponseWriter, r *http.Request) {
	summaries, rates, ok := h.fetch(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rows": BuildAgencySystemsTable(summaries, rates)})
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) ([]cuadre.AgencyWeeklySummary, map[string]commissions.Rate, bool) {
	week, err := shared.ParseWeekStart(r.URL.Query().Get("week_start"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return nil, nil, false
	}

	var (
		summaries *cuadre.WeeklySummaries
		rates     map[string]commissions.Rate
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		summaries, err = h.aggregator.Aggregate(gctx, week)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = h.rates.ActiveMap(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("systems summary failed", slog.Any("error", err), slog.String("week_start", week.StartDate()))
		httpx.RespondError(w, err)
		return nil, nil, false
	}
	return summaries.Summaries, rates, true
}
