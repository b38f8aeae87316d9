package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/entity"
	domainRepo "github.com/sangkips/register-api/internal/domain/repository"
	"github.com/sangkips/register-api/pkg/money"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction ledger repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	txn.Date = txn.Date.UTC()
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) List(ctx context.Context, filter domainRepo.TransactionFilter) ([]entity.Transaction, error) {
	var txns []entity.Transaction
	err := r.filtered(ctx, filter).
		Order("date DESC, created_at DESC").
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) SumTotals(ctx context.Context, filter domainRepo.TransactionFilter) (money.Money, error) {
	var cents int64
	err := r.filtered(ctx, filter).
		Select("COALESCE(SUM(total), 0)").
		Row().
		Scan(&cents)
	if err != nil {
		return money.Zero, err
	}
	return money.FromCents(cents), nil
}

func (r *transactionRepository) filtered(ctx context.Context, filter domainRepo.TransactionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Scopes(DateRange("date", filter.From, filter.To))
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	return query
}
