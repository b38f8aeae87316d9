package request

import (
	"github.com/sangkips/register-api/pkg/money"
	"github.com/shopspring/decimal"
)

// UpdateTaxRateRequest sets the sales tax percentage
type UpdateTaxRateRequest struct {
	TaxRate *decimal.Decimal `json:"tax_rate" binding:"required"`
}

// UpdateRegisterAmountRequest sets the default opening float
type UpdateRegisterAmountRequest struct {
	Amount *money.Money `json:"amount" binding:"required"`
}
