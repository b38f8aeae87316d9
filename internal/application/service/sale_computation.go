package service

import (
	"github.com/sangkips/register-api/pkg/money"
	"github.com/shopspring/decimal"
)

// CartLine is the part of a cart line that pricing needs
type CartLine struct {
	UnitPrice money.Money
	Quantity  int
}

// Totals is a computed candidate sale
type Totals struct {
	Subtotal money.Money `json:"subtotal"`
	Tax      money.Money `json:"tax"`
	Total    money.Money `json:"total"`
	Quantity int         `json:"quantity"`
}

// ComputeTotals prices a cart. Tax is rounded to cents before it is added,
// so total is exactly subtotal + tax. Lines must already have passed
// validateCartLines so that no product can overflow.
func ComputeTotals(lines []CartLine, taxRatePercent decimal.Decimal) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.UnitPrice.Mul(int64(l.Quantity)))
		t.Quantity += l.Quantity
	}
	t.Tax = t.Subtotal.MulRate(taxRatePercent)
	t.Total = t.Subtotal.Add(t.Tax)
	return t
}

// ChangeDue is tendered minus total; negative means the tender is short
func ChangeDue(tendered, total money.Money) money.Money {
	return tendered.Sub(total)
}
