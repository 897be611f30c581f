package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"consign-backend/internal/services"
	"consign-backend/internal/timeutil"
	"consign-backend/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	Stats   *services.StatsService
	Reports *services.ReportService
}

func NewReportHandler(stats *services.StatsService, reports *services.ReportService) *ReportHandler {
	return &ReportHandler{Stats: stats, Reports: reports}
}

// Dashboard handles GET /api/stats
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Dashboard(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

// CommissionReport handles GET /api/reports/commissions
func (h *ReportHandler) CommissionReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	report, err := h.Stats.CommissionReport(ctx)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

// CommissionReportXLSX handles GET /api/reports/commissions/xlsx
func (h *ReportHandler) CommissionReportXLSX(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	data, err := h.Reports.CommissionReportXLSX(ctx)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	filename := fmt.Sprintf("commissions_%s.xlsx", timeutil.Format(timeutil.Now(), timeutil.DateLayout))
	utils.File(w, xlsxContentType, filename, data)
}
