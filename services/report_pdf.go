package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/utils"
	"gorm.io/gorm"
)

// DailySummaryPDF writes the daily summary of the caller's company as a PDF.
func (s *ReportService) DailySummaryPDF(ctx context.Context, actor Actor, day time.Time, w io.Writer) error {
	summary, err := s.DailySummary(ctx, actor, day)
	if err != nil {
		return err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var company models.Company
	err = db.Where("id = ?", actor.CompanyID).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("company")
	}
	if err != nil {
		return fmt.Errorf("failed to load company: %w", err)
	}

	return RenderDailySummaryPDF(w, company.CompanyName, summary)
}

func RenderDailySummaryPDF(w io.Writer, companyName string, summary *DailySummary) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Daily summary "+summary.Date, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, companyName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Daily summary for "+summary.Date, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	row := func(label, value string) {
		pdf.CellFormat(90, 8, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, value, "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	row("Metric", "Value")
	pdf.SetFont("Helvetica", "", 12)
	row("Sessions", strconv.Itoa(summary.TotalSessions))
	row("Orders", strconv.Itoa(summary.TotalOrders))
	row("Revenue", utils.FormatCurrency(summary.TotalRevenue))
	row("Average order value", utils.FormatCurrency(summary.AverageOrderValue))
	for _, st := range models.OrderStatuses {
		row("Orders "+string(st), strconv.Itoa(summary.OrdersByStatus[st]))
	}

	if len(summary.Sessions) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(30, 8, "Table", "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, "Status", "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, "Orders", "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 8, "Total", "1", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, session := range summary.Sessions {
			pdf.CellFormat(30, 7, strconv.Itoa(session.TableNumber), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, string(session.Status), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, strconv.Itoa(len(session.Orders)), "1", 0, "R", false, 0, "")
			pdf.CellFormat(60, 7, utils.FormatCurrency(session.TotalAmount), "1", 1, "R", false, 0, "")
		}
	}

	return pdf.Output(w)
}
