package bankexpenses

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
)

type expenseForm struct {
	GroupID     *string `json:"group_id" validate:"omitempty,uuid"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description" validate:"required"`
	AmountBs    float64 `json:"amount_bs" validate:"gte=0"`
	WeekStart   string  `json:"week_start" validate:"required,datetime=2006-01-02"`
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListWeek)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) ListWeek(w http.ResponseWriter, r *http.Request) {
	week, err := shared.ParseWeekStart(r.URL.Query().Get("week_start"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	items, err := h.service.ListWeek(r.Context(), week)
	if err != nil {
		h.logger.Error("list bank expenses failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, week, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	exp, err := h.service.Create(r.Context(), BankExpense{
		GroupID:     form.GroupID,
		Category:    form.Category,
		Description: form.Description,
		AmountBs:    form.AmountBs,
		WeekStart:   week.StartDate(),
		WeekEnd:     week.EndDate(),
	})
	if err != nil {
		h.logger.Error("create bank expense failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, exp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	form, _, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	exp, err := h.service.Update(r.Context(), BankExpense{
		ID:          chi.URLParam(r, "id"),
		GroupID:     form.GroupID,
		Category:    form.Category,
		Description: form.Description,
		AmountBs:    form.AmountBs,
	})
	if err != nil {
		h.logger.Error("update bank expense failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, exp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete bank expense failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (expenseForm, shared.Week, bool) {
	var form expenseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return form, shared.Week{}, false
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return form, shared.Week{}, false
	}
	week, err := shared.ParseWeekStart(form.WeekStart)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return form, shared.Week{}, false
	}
	return form, week, true
}
