package loans

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lanave/cuadre/internal/platform/httpx"
)

type loanForm struct {
	FromAgencyID string  `json:"from_agency_id" validate:"required,uuid"`
	ToAgencyID   string  `json:"to_agency_id" validate:"required,uuid"`
	AmountBs     float64 `json:"amount_bs" validate:"gte=0"`
	AmountUsd    float64 `json:"amount_usd" validate:"gte=0"`
	LoanDate     string  `json:"loan_date" validate:"required,datetime=2006-01-02"`
	DueDate      *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Reason       string  `json:"reason" validate:"required"`
}

type statusForm struct {
	Status string `json:"status" validate:"required,oneof=pendiente pagado vencido"`
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
	r.Patch("/{id}/status", h.SetStatus)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filters ListFilters
	q := r.URL.Query()
	if v := q.Get("agency_id"); v != "" {
		filters.AgencyID = &v
	}
	if v := q.Get("status"); v != "" {
		filters.Status = &v
	}
	filters.DateFrom = q.Get("date_from")
	filters.DateTo = q.Get("date_to")

	items, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list loans failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loan)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	loan, err := h.service.Create(r.Context(), Loan{
		FromAgencyID: form.FromAgencyID,
		ToAgencyID:   form.ToAgencyID,
		AmountBs:     form.AmountBs,
		AmountUsd:    form.AmountUsd,
		LoanDate:     form.LoanDate,
		DueDate:      form.DueDate,
		Reason:       form.Reason,
	})
	if err != nil {
		h.logger.Error("create loan failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, loan)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	loan, err := h.service.Update(r.Context(), Loan{
		ID:           chi.URLParam(r, "id"),
		FromAgencyID: form.FromAgencyID,
		ToAgencyID:   form.ToAgencyID,
		AmountBs:     form.AmountBs,
		AmountUsd:    form.AmountUsd,
		LoanDate:     form.LoanDate,
		DueDate:      form.DueDate,
		Reason:       form.Reason,
	})
	if err != nil {
		h.logger.Error("update loan failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loan)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var form statusForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.SetStatus(r.Context(), id, form.Status); err != nil {
		h.logger.Error("loan status change failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete loan failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (loanForm, bool) {
	var form loanForm
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
