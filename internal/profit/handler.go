package profit

import (
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
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/distribution", h.Distribution)
	r.Get("/participation", h.Participation)
}

func (h *Handler) Distribution(w http.ResponseWriter, r *http.Request) {
	week, ok := weekParam(w, r)
	if !ok {
		return
	}
	dist, err := h.service.Distribution(r.Context(), week)
	if err != nil {
		h.logger.Error("profit distribution failed", slog.Any("error", err), slog.String("week_start", week.StartDate()))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dist)
}

func (h *Handler) Participation(w http.ResponseWriter, r *http.Request) {
	week, ok := weekParam(w, r)
	if !ok {
		return
	}
	part, err := h.service.Participation(r.Context(), week)
	if err != nil {
		h.logger.Error("participation profit failed", slog.Any("error", err), slog.String("week_start", week.StartDate()))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, part)
}

func weekParam(w http.ResponseWriter, r *http.Request) (shared.Week, bool) {
	week, err := shared.ParseWeekStart(r.URL.Query().Get("week_start"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return shared.Week{}, false
	}
	return week, true
}
