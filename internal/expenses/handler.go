package expenses

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
	AgencyID        *string `json:"agency_id" validate:"omitempty,uuid"`
	SessionID       *string `json:"session_id" validate:"omitempty,uuid"`
	Category        string  `json:"category" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	AmountBs        float64 `json:"amount_bs" validate:"gte=0"`
	AmountUsd       float64 `json:"amount_usd" validate:"gte=0"`
	TransactionDate string  `json:"transaction_date" validate:"required,datetime=2006-01-02"`
}

type paidForm struct {
	IsPaid bool `json:"is_paid"`
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
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/paid", h.SetPaid)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := listFilters(r)
	items, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list expenses failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	exp, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, exp)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	exp, err := h.service.Create(r.Context(), Expense{
		AgencyID:        form.AgencyID,
		SessionID:       form.SessionID,
		Category:        shared.ExpenseCategory(form.Category),
		Description:     form.Description,
		AmountBs:        form.AmountBs,
		AmountUsd:       form.AmountUsd,
		TransactionDate: form.TransactionDate,
	})
	if err != nil {
		h.logger.Error("create expense failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, exp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	exp, err := h.service.Update(r.Context(), Expense{
		ID:              chi.URLParam(r, "id"),
		Category:        shared.ExpenseCategory(form.Category),
		Description:     form.Description,
		AmountBs:        form.AmountBs,
		AmountUsd:       form.AmountUsd,
		TransactionDate: form.TransactionDate,
	})
	if err != nil {
		h.logger.Error("update expense failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, exp)
}

func (h *Handler) SetPaid(w http.ResponseWriter, r *http.Request) {
	var form paidForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.SetPaid(r.Context(), id, form.IsPaid); err != nil {
		h.logger.Error("toggle expense paid failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete expense failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (expenseForm, bool) {
	var form expenseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return form, false
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return form, false
	}
	return form, true
}

func listFilters(r *http.Request) ListFilters {
	var filters ListFilters
	q := r.URL.Query()
	if v := q.Get("agency_id"); v != "" {
		filters.AgencyID = &v
	}
	if v := q.Get("category"); v != "" {
		if category, err := shared.NormalizeCategory(v); err == nil {
			filters.Category = &category
		}
	}
	if v := q.Get("is_paid"); v == "true" || v == "false" {
		paid := v == "true"
		filters.IsPaid = &paid
	}
	filters.DateFrom = q.Get("date_from")
	filters.DateTo = q.Get("date_to")
	return filters
}
