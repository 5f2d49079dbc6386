package payroll

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/shared"
)

type entryForm struct {
	EmployeeID         string  `json:"employee_id" validate:"required,uuid"`
	WeeklyBaseSalary   float64 `json:"weekly_base_salary" validate:"gte=0"`
	SundayPayment      float64 `json:"sunday_payment" validate:"gte=0"`
	BonusesExtras      float64 `json:"bonuses_extras" validate:"gte=0"`
	AbsencesDeductions float64 `json:"absences_deductions" validate:"gte=0"`
	OtherDeductions    float64 `json:"other_deductions" validate:"gte=0"`
}

type sheetForm struct {
	WeekStart    string      `json:"week_start" validate:"required,datetime=2006-01-02"`
	ExchangeRate float64     `json:"exchange_rate" validate:"gt=0"`
	Entries      []entryForm `json:"entries" validate:"required,min=1,dive"`
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
	r.Get("/", h.Sheet)
	r.Put("/", h.Save)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) Sheet(w http.ResponseWriter, r *http.Request) {
	week, err := shared.ParseWeekStart(r.URL.Query().Get("week_start"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	sheet, err := h.service.Sheet(r.Context(), week)
	if err != nil {
		h.logger.Error("load payroll failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sheet)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var form sheetForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	week, err := shared.ParseWeekStart(form.WeekStart)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}

	entries := make([]Entry, len(form.Entries))
	for i, e := range form.Entries {
		entries[i] = Entry{
			EmployeeID:         e.EmployeeID,
			WeeklyBaseSalary:   e.WeeklyBaseSalary,
			SundayPayment:      e.SundayPayment,
			BonusesExtras:      e.BonusesExtras,
			AbsencesDeductions: e.AbsencesDeductions,
			OtherDeductions:    e.OtherDeductions,
		}
	}
	saved, err := h.service.Save(r.Context(), week, form.ExchangeRate, entries)
	if err != nil {
		h.logger.Error("save payroll failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": saved})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete payroll entry failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
