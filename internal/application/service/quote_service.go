package service

import (
	"context"
	"strconv"

	"github.com/sangkips/register-api/pkg/apperror"
	"github.com/sangkips/register-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Cart limits. With both in place every line and subtotal stays within
// money.MaxCents.
const (
	MaxCartLines    = 500
	MaxLineQuantity = 1_000_000
)

// QuoteService prices a cart with the stored tax rate
type QuoteService struct {
	settings *SettingsService
}

// NewQuoteService creates a new quote service
func NewQuoteService(settings *SettingsService) *QuoteService {
	return &QuoteService{settings: settings}
}

// Quote is a priced cart and the rate it was priced at
type Quote struct {
	Totals
	TaxRate decimal.Decimal `json:"tax_rate"`
}

// Quote computes totals for lines without recording anything
func (s *QuoteService) Quote(ctx context.Context, lines []CartLine) (*Quote, error) {
	if errs := validateCartLines(lines); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	rate, err := s.settings.TaxRate(ctx)
	if err != nil {
		return nil, err
	}
	return &Quote{Totals: ComputeTotals(lines, rate), TaxRate: rate}, nil
}

func validateCartLines(lines []CartLine) []apperror.FieldError {
	if len(lines) == 0 {
		return []apperror.FieldError{{Field: "items", Message: "cart is empty"}}
	}
	if len(lines) > MaxCartLines {
		return []apperror.FieldError{{Field: "items", Message: "too many lines"}}
	}
	var errs []apperror.FieldError
	var subtotal money.Money
	for i, l := range lines {
		if l.Quantity < 1 || l.Quantity > MaxLineQuantity {
			errs = append(errs, apperror.FieldError{Field: itemField(i, "quantity"), Message: "must be between 1 and " + strconv.Itoa(MaxLineQuantity)})
			continue
		}
		if l.UnitPrice.IsNegative() {
			errs = append(errs, apperror.FieldError{Field: itemField(i, "unit_price"), Message: "must not be negative"})
			continue
		}
		line, err := l.UnitPrice.CheckedMul(int64(l.Quantity))
		if err == nil {
			subtotal, err = subtotal.CheckedAdd(line)
		}
		if err != nil {
			errs = append(errs, apperror.FieldError{Field: itemField(i, "unit_price"), Message: "line total is out of range"})
			return errs
		}
	}
	return errs
}
