package cuadre

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	cache   *Cache
}

func NewHandler(logger *slog.Logger, service *Service, cache *Cache) *Handler {
	return &Handler{logger: logger, service: service, cache: cache}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/weekly", h.Weekly)
}

// Weekly returns the aggregated cuadre for the requested week.
func (h *Handler) Weekly(w http.ResponseWriter, r *http.Request) {
	week, err := shared.ParseWeekStart(r.URL.Query().Get("week_start"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	out, err := h.cache.Fetch(r.Context(), week.StartDate(), func(ctx context.Context) (*WeeklySummaries, error) {
		return h.service.Aggregate(ctx, week)
	})
	if err != nil {
		h.logger.Error("weekly cuadre failed", slog.Any("error", err), slog.String("week_start", week.StartDate()))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}
