package service

import (
	"context"

	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/repository"
	"github.com/sangkips/register-api/pkg/apperror"
	"github.com/sangkips/register-api/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var maxTaxRate = decimal.NewFromInt(100)

// SettingsService reads and writes the register's key/value configuration
type SettingsService struct {
	repo repository.SettingsRepository
	log  *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo repository.SettingsRepository, log *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, log: log}
}

// TaxRate returns the sales tax percentage. A missing or unreadable value
// reads as zero.
func (s *SettingsService) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	raw, ok, err := s.repo.Get(ctx, entity.SettingTaxRate)
	if err != nil {
		s.log.Error("failed to read tax rate", zap.Error(err))
		return decimal.Zero, apperror.NewPersistenceError(err)
	}
	if !ok || raw == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		s.log.Warn("stored tax rate is not a number", zap.String("value", raw))
		return decimal.Zero, nil
	}
	return rate, nil
}

// SetTaxRate stores a percentage between 0 and 100
func (s *SettingsService) SetTaxRate(ctx context.Context, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(maxTaxRate) {
		return apperror.NewFieldError("tax_rate", "tax rate must be between 0 and 100")
	}
	if err := s.repo.Set(ctx, entity.SettingTaxRate, rate.String()); err != nil {
		s.log.Error("failed to store tax rate", zap.Error(err))
		return apperror.NewPersistenceError(err)
	}
	s.log.Info("tax rate updated", zap.String("tax_rate", rate.String()))
	return nil
}

// RegisterInitialAmount returns the default float put in the drawer at open
func (s *SettingsService) RegisterInitialAmount(ctx context.Context) (money.Money, error) {
	raw, ok, err := s.repo.Get(ctx, entity.SettingRegisterInitialAmount)
	if err != nil {
		s.log.Error("failed to read register amount", zap.Error(err))
		return money.Zero, apperror.NewPersistenceError(err)
	}
	if !ok || raw == "" {
		return money.Zero, nil
	}
	amount, err := money.Parse(raw)
	if err != nil {
		s.log.Warn("stored register amount is not a number", zap.String("value", raw))
		return money.Zero, nil
	}
	return amount, nil
}

// SetRegisterInitialAmount stores the default float
func (s *SettingsService) SetRegisterInitialAmount(ctx context.Context, amount money.Money) error {
	if amount.IsNegative() {
		return apperror.NewFieldError("amount", "amount must not be negative")
	}
	if err := s.repo.Set(ctx, entity.SettingRegisterInitialAmount, amount.String()); err != nil {
		s.log.Error("failed to store register amount", zap.Error(err))
		return apperror.NewPersistenceError(err)
	}
	s.log.Info("register amount updated", zap.Stringer("amount", amount))
	return nil
}
