package entity

import "time"

// Well-known setting keys
const (
	SettingTaxRate               = "tax_rate"
	SettingRegisterInitialAmount = "register_initial_amount"
)

// Setting is a key/value configuration row
type Setting struct {
	Key       string    `gorm:"primaryKey;size:50" json:"key"`
	Value     string    `gorm:"size:255" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}
