package request

import (
	"time"

	"github.com/sangkips/register-api/pkg/money"
)

// SaleItemRequest is one cart line as the till sends it
type SaleItemRequest struct {
	ProductID string      `json:"product_id" binding:"omitempty,max=64"`
	Name      string      `json:"name" binding:"required,max=255"`
	UnitPrice money.Money `json:"unit_price" binding:"min=0"`
	Quantity  int         `json:"quantity" binding:"min=1,max=1000000"`
}

// RecordSaleRequest represents a completed checkout
type RecordSaleRequest struct {
	Items         []SaleItemRequest `json:"items" binding:"required,max=500,dive"`
	Subtotal      *money.Money      `json:"subtotal" binding:"required"`
	Tax           *money.Money      `json:"tax" binding:"required"`
	Total         *money.Money      `json:"total" binding:"required"`
	Tendered      *money.Money      `json:"tendered" binding:"required"`
	Method        string            `json:"method" binding:"required"`
	ReceiptNumber string            `json:"receipt_number" binding:"omitempty,max=64"`
	Date          *time.Time        `json:"date"`
}

// QuoteLineRequest is a cart line priced for a quote
type QuoteLineRequest struct {
	UnitPrice money.Money `json:"unit_price" binding:"min=0"`
	Quantity  int         `json:"quantity" binding:"min=1,max=1000000"`
}

// QuoteRequest asks for totals at the stored tax rate
type QuoteRequest struct {
	Items []QuoteLineRequest `json:"items" binding:"required,max=500,dive"`
}

// DateRangeQuery is the from/to filter shared by listing and reports.
// Both accept RFC 3339 timestamps or YYYY-MM-DD dates.
type DateRangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}
