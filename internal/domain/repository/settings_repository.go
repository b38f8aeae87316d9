package repository

import (
	"context"
)

// SettingsRepository defines the interface for the key/value settings store
type SettingsRepository interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	// Set inserts or replaces the value for key
	Set(ctx context.Context, key, value string) error
}
