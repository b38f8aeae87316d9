package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/pkg/money"
)

// TransactionRepository is the append-only ledger store. There is
// deliberately no Update or Delete.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// List returns transactions ordered by date, newest first
	List(ctx context.Context, filter TransactionFilter) ([]entity.Transaction, error)
	// SumTotals returns the sum of total over matching transactions
	SumTotals(ctx context.Context, filter TransactionFilter) (money.Money, error)
}

// TransactionFilter bounds are inclusive; nil means unbounded
type TransactionFilter struct {
	From   *time.Time
	To     *time.Time
	Method *enum.PaymentMethod
}
