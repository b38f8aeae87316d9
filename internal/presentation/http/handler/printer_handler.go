package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/application/service"
	"github.com/sangkips/register-api/internal/presentation/http/dto/request"
	"github.com/sangkips/register-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// PrintReceipt prints the receipt of a recorded sale.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	var req request.PrintReceiptRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	id, err := uuid.Parse(req.TransactionID)
	if err != nil {
		response.BadRequest(c, "Invalid ID format")
		return
	}

	receipt, err := h.printerService.PrintTransactionReceipt(c.Request.Context(), id, GetCashierName(c))
	if err != nil {
		// The receipt was built but the printer failed; hand it back so
		// the till can show it on screen.
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}
