package services

import (
	"bytes"
	"context"
	"fmt"

	"consign-backend/internal/commission"
	"consign-backend/internal/models"
	"consign-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"
)

// ReportService handles report generation
type ReportService struct {
	Cases CaseStore
	Stats *StatsService
}

func NewReportService(cases CaseStore, stats *StatsService) *ReportService {
	return &ReportService{Cases: cases, Stats: stats}
}

// CaseManifestPDF renders the kit manifest handed to the agent with the case.
func (s *ReportService) CaseManifestPDF(ctx context.Context, caseID int) ([]byte, *models.Case, error) {
	c, err := s.Cases.Get(ctx, caseID)
	if err != nil {
		return nil, nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tr(fmt.Sprintf("Case #%d - %s", c.ID, c.Name)), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Format(timeutil.Now(), timeutil.DateTimeLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	if c.Premium {
		pdf.SetFillColor(255, 215, 0)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "PREMIUM CASE", "1", 1, "C", true, 0, "")
		pdf.Ln(3)
	}

	// Agent and dates
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Consignment", "1", 1, "L", true, 0, "")

	agent := "Unassigned"
	if c.AgentID != nil {
		agent = c.AgentName
	}
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, tr("Agent: "+agent), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Contact: "+c.AgentContact), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Delivered: "+timeutil.Format(c.DeliveryDate, timeutil.DisplayLayout), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Return by: "+timeutil.Format(c.ReturnDate, timeutil.DisplayLayout), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, "Status: "+string(c.Status), "LRB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Items
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Items", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(80, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Category", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Subtotal", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range c.Items {
		name := it.ProductName
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		pdf.CellFormat(80, 6, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, string(it.Category), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, it.PriceAtTime.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, it.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	if len(c.Items) == 0 {
		pdf.CellFormat(190, 6, "No items", "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Totals
	quote := commission.Calculate(c.TotalValue)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Summary", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, "Total: "+c.TotalValue.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, "Rate: "+quote.Rate.Shift(2).StringFixed(0)+"%", "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, "Commission: "+quote.Payout.StringFixed(2), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), c, nil
}

// CommissionReportXLSX writes the commission report as a two-sheet workbook:
// per-agent payouts and the commissioned items.
func (s *ReportService) CommissionReportXLSX(ctx context.Context) ([]byte, error) {
	report, err := s.Stats.CommissionReport(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const agentsSheet = "Agents"
	if err := f.SetSheetName("Sheet1", agentsSheet); err != nil {
		return nil, err
	}
	writeRow(f, agentsSheet, 1, "Agent", "Case sales", "Rate", "Case payout", "Manual sales", "Manual commission", "Total payout")
	for i, a := range report.Agents {
		writeRow(f, agentsSheet, i+2,
			a.AgentName,
			a.CaseSales.InexactFloat64(),
			a.Rate.InexactFloat64(),
			a.CasePayout.InexactFloat64(),
			a.ManualSales.InexactFloat64(),
			a.ManualCommission.InexactFloat64(),
			a.TotalPayout.InexactFloat64(),
		)
	}
	writeRow(f, agentsSheet, len(report.Agents)+2, "Total", nil, nil, nil, nil, nil, report.TotalPayout.InexactFloat64())

	const itemsSheet = "Items"
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}
	writeRow(f, itemsSheet, 1, "Date", "Source", "Case", "Agent", "Product", "Category", "Qty", "Price", "Subtotal")
	for i, it := range report.Items {
		writeRow(f, itemsSheet, i+2,
			timeutil.Format(it.Date, timeutil.DateLayout),
			it.Source,
			it.CaseName,
			it.AgentName,
			it.ProductName,
			string(it.Category),
			it.Quantity,
			it.Price.InexactFloat64(),
			it.Subtotal.InexactFloat64(),
		)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}
