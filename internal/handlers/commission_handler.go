package handlers

import (
	"net/http"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"
	"consign-backend/internal/services"
	"consign-backend/internal/validators"
	"consign-backend/pkg/utils"

	"github.com/shopspring/decimal"
)

type CommissionHandler struct {
	Service *services.CommissionService
}

func NewCommissionHandler(s *services.CommissionService) *CommissionHandler {
	return &CommissionHandler{Service: s}
}

// Calculate handles GET /api/commissions/calculate?total=12500.00
func (h *CommissionHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("total")
	if raw == "" {
		utils.Error(w, r, apperr.Validation("total is required"))
		return
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		utils.Error(w, r, apperr.Validation("invalid total %q", raw))
		return
	}

	quote, err := h.Service.Calculate(total)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, quote)
}

func (h *CommissionHandler) ListManual(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListManual(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, list)
}

func (h *CommissionHandler) CreateManual(w http.ResponseWriter, r *http.Request) {
	var req models.ManualCommissionRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	mc, err := h.Service.CreateManual(r.Context(), &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, mc)
}

func (h *CommissionHandler) DeleteManual(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	if err := h.Service.DeleteManual(r.Context(), id); err != nil {
		utils.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
