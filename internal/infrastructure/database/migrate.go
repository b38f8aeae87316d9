package database

import (
	"errors"
	"fmt"

	"github.com/sangkips/register-api/internal/config"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// openSessionIndex lets at most one register session hold status open.
// Both PostgreSQL and SQLite support partial indexes with this syntax.
const openSessionIndex = `CREATE UNIQUE INDEX IF NOT EXISTS uniq_register_sessions_open
	ON register_sessions (status) WHERE status = 'open'`

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.RegisterSession{},
		&entity.Transaction{},
		&entity.Setting{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := db.Exec(openSessionIndex).Error; err != nil {
		return fmt.Errorf("failed to create open session index: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the admin user and the default settings rows if
// they are missing. Existing values are left alone.
func SeedDefaultData(db *gorm.DB, admin *config.AdminConfig, log *zap.Logger) error {
	defaults := []entity.Setting{
		{Key: entity.SettingTaxRate, Value: "0"},
		{Key: entity.SettingRegisterInitialAmount, Value: "0"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	if admin.Username == "" || admin.Password == "" {
		log.Warn("admin credentials not configured, skipping admin seed")
		return nil
	}

	var existing entity.User
	err := db.Where("username = ?", admin.Username).First(&existing).Error
	if err == nil {
		log.Info("admin user already exists", zap.String("username", admin.Username))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	user := entity.User{
		Username:     admin.Username,
		PasswordHash: hash,
		Role:         enum.RoleAdmin,
		Name:         admin.Name,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Info("admin user created", zap.String("username", admin.Username))
	return nil
}
