package employees

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lanave/cuadre/internal/masterdata/shared"
	"github.com/lanave/cuadre/internal/platform/httpx"
)

type employeeForm struct {
	AgencyID     string  `json:"agency_id" validate:"required,uuid"`
	FullName     string  `json:"full_name" validate:"required"`
	Role         string  `json:"role"`
	WeeklySalary float64 `json:"weekly_salary_bs" validate:"gte=0"`
	IsActive     *bool   `json:"is_active"`
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
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ListFilters{Search: r.URL.Query().Get("search")}
	if v := r.URL.Query().Get("agency_id"); v != "" {
		filters.AgencyID = &v
	}
	if v := r.URL.Query().Get("active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}
	items, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list employees failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	employee, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, employee)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), fromForm(form))
	if err != nil {
		h.logger.Error("create employee failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	form, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.Update(r.Context(), id, fromForm(form)); err != nil {
		h.logger.Error("update employee failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete employee failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(r *http.Request) (employeeForm, error) {
	var form employeeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		return form, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	if err := h.validate.Struct(form); err != nil {
		return form, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	return form, nil
}

func fromForm(form employeeForm) Employee {
	active := true
	if form.IsActive != nil {
		active = *form.IsActive
	}
	return Employee{
		AgencyID:     form.AgencyID,
		FullName:     form.FullName,
		Role:         form.Role,
		WeeklySalary: form.WeeklySalary,
		IsActive:     active,
	}
}
