package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/pkg/denomination"
	"github.com/sangkips/register-api/pkg/money"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RegisterSession is one open/close cycle of the cash drawer.
// At most one row may have status open; the store enforces it with a
// partial unique index (see database.AutoMigrate).
type RegisterSession struct {
	ID             uuid.UUID                                   `gorm:"type:uuid;primary_key" json:"id"`
	OpenedAt       time.Time                                   `gorm:"not null;index" json:"opened_at"`
	ClosedAt       *time.Time                                  `json:"closed_at,omitempty"`
	OpeningAmount  money.Money                                 `gorm:"not null" json:"opening_amount"`
	ClosingAmount  *money.Money                                `json:"closing_amount,omitempty"`
	OpeningDetails datatypes.JSONType[denomination.Breakdown]  `json:"opening_details"`
	ClosingDetails *datatypes.JSONType[denomination.Breakdown] `json:"closing_details,omitempty"`
	Status         enum.SessionStatus                          `gorm:"size:10;not null;default:'open'" json:"status"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *RegisterSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RegisterSession model
func (RegisterSession) TableName() string {
	return "register_sessions"
}

// IsOpen reports whether the session still accepts a close
func (s *RegisterSession) IsOpen() bool {
	return s.Status == enum.SessionStatusOpen
}

// Takeout is what was counted at close minus the float put in at open.
// Zero while the session is open.
func (s *RegisterSession) Takeout() money.Money {
	if s.ClosingAmount == nil {
		return money.Zero
	}
	return s.ClosingAmount.Sub(s.OpeningAmount)
}
