package commissions

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lanave/cuadre/internal/platform/httpx"
)

type rateForm struct {
	LotterySystemID         string  `json:"lottery_system_id" validate:"required,uuid"`
	CommissionPercentage    float64 `json:"commission_percentage" validate:"gte=0,lte=100"`
	CommissionPercentageUsd float64 `json:"commission_percentage_usd" validate:"gte=0,lte=100"`
	UtilityPercentage       float64 `json:"utility_percentage" validate:"gte=0,lte=100"`
	UtilityPercentageUsd    float64 `json:"utility_percentage_usd" validate:"gte=0,lte=100"`
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
	r.Post("/", h.Set)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rates, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logger.Error("list commission rates failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rates})
}

func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	var form rateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	rate, err := h.service.Set(r.Context(), Rate{
		LotterySystemID:         form.LotterySystemID,
		CommissionPercentage:    form.CommissionPercentage,
		CommissionPercentageUsd: form.CommissionPercentageUsd,
		UtilityPercentage:       form.UtilityPercentage,
		UtilityPercentageUsd:    form.UtilityPercentageUsd,
	})
	if err != nil {
		h.logger.Error("set commission rate failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rate)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete commission rate failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
