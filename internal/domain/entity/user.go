package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/enum"
	"gorm.io/gorm"
)

// User is a person allowed to operate the register
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         enum.Role `gorm:"size:20;not null;default:'cashier'" json:"role"`
	Name         string    `gorm:"size:100" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// Principal is the authenticated identity handed to the rest of the system
type Principal struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Name     string    `json:"name,omitempty"`
	Role     enum.Role `json:"role"`
}
