package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/register-api/internal/application/service"
	"github.com/sangkips/register-api/internal/presentation/http/dto/request"
	"github.com/sangkips/register-api/internal/presentation/http/dto/response"
)

// SalesHandler prices carts before checkout
type SalesHandler struct {
	quoteService *service.QuoteService
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(quoteService *service.QuoteService) *SalesHandler {
	return &SalesHandler{quoteService: quoteService}
}

// Quote computes subtotal, tax and total at the stored tax rate
func (h *SalesHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	lines := make([]service.CartLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = service.CartLine{UnitPrice: item.UnitPrice, Quantity: item.Quantity}
	}

	quote, err := h.quoteService.Quote(c.Request.Context(), lines)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote computed", quote)
}
