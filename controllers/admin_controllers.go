package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/middlewares"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

const dateLayout = "2006-01-02"

type AdminController struct {
	Reports *services.ReportService
}

func NewAdminController(reports *services.ReportService) *AdminController {
	return &AdminController{Reports: reports}
}

// GetAllOrders -> sessions with orders, optionally limited by startDate and endDate
func (ac *AdminController) GetAllOrders(c *gin.Context) {
	start, err := parseBound(c.Query("startDate"), false)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	end, err := parseBound(c.Query("endDate"), true)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sessions, err := ac.Reports.ListOrders(c.Request.Context(), middlewares.CurrentActor(c), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", sessions)
}

// GetDailySummary -> totals for ?date=YYYY-MM-DD, today by default
func (ac *AdminController) GetDailySummary(c *gin.Context) {
	day, err := parseDay(c.Query("date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	summary, err := ac.Reports.DailySummary(c.Request.Context(), middlewares.CurrentActor(c), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily summary", summary)
}

// ExportPDF -> the daily summary as a PDF attachment
func (ac *AdminController) ExportPDF(c *gin.Context) {
	day, err := parseDay(c.Query("date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	if err := ac.Reports.DailySummaryPDF(c.Request.Context(), middlewares.CurrentActor(c), day, &buf); err != nil {
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("daily-summary-%s.pdf", day.Format(dateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return day, nil
}

// parseBound accepts RFC 3339 timestamps or plain dates. A plain end date
// covers its whole day.
func parseBound(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", raw)
	}
	if endOfDay {
		_, day = services.DayBounds(day)
	}
	return &day, nil
}
