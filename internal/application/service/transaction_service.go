package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/internal/domain/repository"
	"github.com/sangkips/register-api/pkg/apperror"
	"github.com/sangkips/register-api/pkg/money"
	"github.com/sangkips/register-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// roundingTolerance is how far a client-computed amount may drift from ours
var roundingTolerance = money.FromCents(1)

// TransactionService validates sales and appends them to the ledger
type TransactionService struct {
	txRepo repository.TransactionRepository
	sales  *SalesService
	log    *zap.Logger
	now    func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txRepo repository.TransactionRepository, sales *SalesService, log *zap.Logger) *TransactionService {
	return &TransactionService{txRepo: txRepo, sales: sales, log: log, now: time.Now}
}

// RecordSaleInput represents a completed cart at the moment of payment
type RecordSaleInput struct {
	Items         []entity.SaleItem
	Subtotal      money.Money
	Tax           money.Money
	Total         money.Money
	Tendered      money.Money
	Method        enum.PaymentMethod
	ReceiptNumber string
	Date          *time.Time
}

// RecordSale re-checks the client's arithmetic and the tender, then commits
// the sale. Nothing is written unless every check passes.
func (s *TransactionService) RecordSale(ctx context.Context, input *RecordSaleInput) (*entity.Transaction, error) {
	if err := validateSale(input); err != nil {
		return nil, err
	}

	now := s.now()
	txn := &entity.Transaction{
		ReceiptNumber: strings.TrimSpace(input.ReceiptNumber),
		Date:          now,
		Subtotal:      input.Subtotal,
		Tax:           input.Tax,
		Total:         input.Total,
		Tendered:      input.Tendered,
		ChangeDue:     ChangeDue(input.Tendered, input.Total),
		Method:        input.Method,
		Items:         datatypes.NewJSONType(append([]entity.SaleItem(nil), input.Items...)),
	}
	if txn.ReceiptNumber == "" {
		txn.ReceiptNumber = utils.GenerateReceiptNumber(now)
	}
	if input.Date != nil {
		txn.Date = *input.Date
	}
	for _, it := range input.Items {
		txn.Quantity += it.Quantity
	}

	if err := s.txRepo.Create(ctx, txn); err != nil {
		s.log.Error("failed to record sale", zap.String("receipt_number", txn.ReceiptNumber), zap.Error(err))
		return nil, apperror.NewPersistenceError(err)
	}

	s.log.Info("sale recorded",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("receipt_number", txn.ReceiptNumber),
		zap.String("method", string(txn.Method)),
		zap.Stringer("total", txn.Total),
		zap.Stringer("change_due", txn.ChangeDue),
	)
	return txn, nil
}

func validateSale(input *RecordSaleInput) error {
	lines := make([]CartLine, len(input.Items))
	for i, it := range input.Items {
		lines[i] = CartLine{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}
	errs := validateCartLines(lines)
	for i, it := range input.Items {
		if strings.TrimSpace(it.Name) == "" {
			errs = append(errs, apperror.FieldError{Field: itemField(i, "name"), Message: "is required"})
		}
	}
	if !input.Method.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "method", Message: "must be cash or card"})
	}
	amounts := []struct {
		field  string
		amount money.Money
	}{
		{"subtotal", input.Subtotal},
		{"tax", input.Tax},
		{"total", input.Total},
		{"tendered", input.Tendered},
	}
	for _, a := range amounts {
		switch {
		case a.amount.IsNegative():
			errs = append(errs, apperror.FieldError{Field: a.field, Message: "must not be negative"})
		case a.amount > money.MaxCents:
			errs = append(errs, apperror.FieldError{Field: a.field, Message: "is out of range"})
		}
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}

	// validateCartLines bounded every line and their sum.
	var itemsTotal money.Money
	for _, l := range lines {
		itemsTotal = itemsTotal.Add(l.UnitPrice.Mul(int64(l.Quantity)))
	}
	if !input.Subtotal.Within(itemsTotal, roundingTolerance) {
		return apperror.NewFieldError("subtotal", "subtotal does not match items ("+itemsTotal.String()+")")
	}
	if expected := input.Subtotal.Add(input.Tax); !input.Total.Within(expected, roundingTolerance) {
		return apperror.NewFieldError("total", "total does not equal subtotal plus tax ("+expected.String()+")")
	}

	change := ChangeDue(input.Tendered, input.Total)
	switch input.Method {
	case enum.PaymentMethodCash:
		if change.IsNegative() {
			return apperror.NewFieldError("tendered", "insufficient tender")
		}
	case enum.PaymentMethodCard:
		if change.IsPositive() {
			return apperror.NewFieldError("tendered", "overpayment on card")
		}
		if change.IsNegative() {
			return apperror.NewFieldError("tendered", "insufficient tender")
		}
	}
	return nil
}

// List returns the ledger, newest first, optionally bounded
func (s *TransactionService) List(ctx context.Context, from, to *time.Time) ([]entity.Transaction, error) {
	return s.sales.SalesInRange(ctx, from, to)
}

// Get returns one transaction
func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("failed to load transaction", zap.String("transaction_id", id.String()), zap.Error(err))
		return nil, apperror.NewPersistenceError(err)
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}
