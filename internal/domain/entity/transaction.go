package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/pkg/money"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SaleItem is a snapshot of a cart line at the time of sale. It is copied,
// not referenced, so receipts stay stable when the catalog changes.
type SaleItem struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	UnitPrice money.Money `json:"unit_price"`
	Quantity  int         `json:"quantity"`
}

// LineTotal is unit price times quantity
func (i SaleItem) LineTotal() money.Money {
	return i.UnitPrice.Mul(int64(i.Quantity))
}

// Transaction is an entry in the append-only sales ledger. Rows are only
// ever inserted; nothing updates or deletes them.
type Transaction struct {
	ID            uuid.UUID                      `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNumber string                         `gorm:"size:64;not null;index" json:"receipt_number"`
	Date          time.Time                      `gorm:"not null;index" json:"date"`
	Quantity      int                            `gorm:"not null" json:"quantity"`
	Subtotal      money.Money                    `gorm:"not null" json:"subtotal"`
	Tax           money.Money                    `gorm:"not null" json:"tax"`
	Total         money.Money                    `gorm:"not null" json:"total"`
	Tendered      money.Money                    `gorm:"not null" json:"tendered"`
	ChangeDue     money.Money                    `gorm:"not null" json:"change_due"`
	Method        enum.PaymentMethod             `gorm:"size:10;not null;index" json:"method"`
	Items         datatypes.JSONType[[]SaleItem] `gorm:"not null" json:"items"`
	CreatedAt     time.Time                      `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
