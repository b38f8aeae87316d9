package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/register-api/internal/application/service"
	"github.com/sangkips/register-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves sales reports
type ReportHandler struct {
	salesService  *service.SalesService
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(salesService *service.SalesService, reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		salesService:  salesService,
		reportService: reportService,
	}
}

// Daily returns per-day sales totals for the range, newest day first
func (h *ReportHandler) Daily(c *gin.Context) {
	from, to, err := parseDateRange(c, h.salesService)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.salesService.DailySummary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Daily summary retrieved", summary)
}

// ExportTransactions downloads the ledger for the range as a spreadsheet
func (h *ReportHandler) ExportTransactions(c *gin.Context) {
	from, to, err := parseDateRange(c, h.salesService)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.reportService.ExportTransactions(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "transactions.xlsx"
	if from != nil || to != nil {
		filename = fmt.Sprintf("transactions_%s_%s.xlsx", boundLabel(from), boundLabel(to))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func boundLabel(t *time.Time) string {
	if t == nil {
		return "all"
	}
	return t.Format("2006-01-02")
}
