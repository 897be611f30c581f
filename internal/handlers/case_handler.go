package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"
	"consign-backend/internal/services"
	"consign-backend/internal/validators"
	"consign-backend/pkg/utils"
)

type CaseHandler struct {
	Service       *services.CaseService
	Reports       *services.ReportService
	Notifications *services.NotificationService
}

func NewCaseHandler(s *services.CaseService, reports *services.ReportService, notifications *services.NotificationService) *CaseHandler {
	return &CaseHandler{Service: s, Reports: reports, Notifications: notifications}
}

func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.Service.ListCases(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, cases)
}

func (h *CaseHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCaseRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	c, err := h.Service.CreateCase(r.Context(), &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

func (h *CaseHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	c, err := h.Service.GetCase(r.Context(), id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

// UpdateCase replaces the line items only when the body carries "items".
func (h *CaseHandler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	var req models.UpdateCaseRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	c, err := h.Service.UpdateCase(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *CaseHandler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	if err := h.Service.DeleteCase(r.Context(), id); err != nil {
		utils.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CaseHandler) ListCaseLogs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	logs, err := h.Service.CaseLogs(r.Context(), id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}

func (h *CaseHandler) AppendCaseLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	var req models.LogRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	entry, err := h.Service.AppendLog(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, entry)
}

// ListLogs handles GET /api/logs?limit=N. No limit returns the whole ledger.
func (h *CaseHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(w, r, apperr.Validation("invalid limit %q", raw))
			return
		}
		limit = n
	}

	logs, err := h.Service.AllLogs(r.Context(), limit)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}

func (h *CaseHandler) CaseManifest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	pdf, _, err := h.Reports.CaseManifestPDF(r.Context(), id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.File(w, "application/pdf", fmt.Sprintf("case-%d.pdf", id), pdf)
}

func (h *CaseHandler) NotifyAgent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	preview, err := h.Notifications.NotifyCase(r.Context(), id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, preview)
}
