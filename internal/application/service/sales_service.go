package service

import (
	"context"
	"sort"
	"time"

	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/internal/domain/repository"
	"github.com/sangkips/register-api/pkg/apperror"
	"github.com/sangkips/register-api/pkg/money"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// SalesService derives sales figures from the ledger. It never writes.
type SalesService struct {
	txRepo repository.TransactionRepository
	loc    *time.Location
	log    *zap.Logger
}

// NewSalesService creates a new sales service. loc is the zone used for
// date-only bounds and per-day grouping.
func NewSalesService(txRepo repository.TransactionRepository, loc *time.Location, log *zap.Logger) *SalesService {
	if loc == nil {
		loc = time.UTC
	}
	return &SalesService{txRepo: txRepo, loc: loc, log: log}
}

// SalesSince sums total over transactions dated at or after since. It is
// open ended, so only use it for the session that is still open.
func (s *SalesService) SalesSince(ctx context.Context, since time.Time) (money.Money, error) {
	return s.sum(ctx, repository.TransactionFilter{From: &since})
}

// SalesBetween sums total over transactions dated within [from, to]
func (s *SalesService) SalesBetween(ctx context.Context, from, to time.Time) (money.Money, error) {
	return s.sum(ctx, repository.TransactionFilter{From: &from, To: &to})
}

// CashSalesBetween is SalesBetween restricted to cash. A nil to is open ended.
func (s *SalesService) CashSalesBetween(ctx context.Context, from time.Time, to *time.Time) (money.Money, error) {
	cash := enum.PaymentMethodCash
	return s.sum(ctx, repository.TransactionFilter{From: &from, To: to, Method: &cash})
}

func (s *SalesService) sum(ctx context.Context, filter repository.TransactionFilter) (money.Money, error) {
	total, err := s.txRepo.SumTotals(ctx, filter)
	if err != nil {
		s.log.Error("failed to sum sales", zap.Error(err))
		return money.Zero, apperror.NewPersistenceError(err)
	}
	return total, nil
}

// SalesInRange lists transactions within the inclusive range, newest
// first. Either bound may be nil.
func (s *SalesService) SalesInRange(ctx context.Context, from, to *time.Time) ([]entity.Transaction, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperror.NewFieldError("to", "end of range is before its start")
	}
	txns, err := s.txRepo.List(ctx, repository.TransactionFilter{From: from, To: to})
	if err != nil {
		s.log.Error("failed to list transactions", zap.Error(err))
		return nil, apperror.NewPersistenceError(err)
	}
	if txns == nil {
		txns = []entity.Transaction{}
	}
	return txns, nil
}

// ParseDateBound parses a query bound. RFC 3339 timestamps are taken as
// given. A bare date is the start of that day, or 23:59:59.999 of it when
// end is true, in the service's zone. An empty string is no bound.
func (s *SalesService) ParseDateBound(raw string, end bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, s.loc)
	if err != nil {
		return nil, apperror.NewBadRequestError("invalid date " + raw + ", expected YYYY-MM-DD or RFC 3339")
	}
	if end {
		day = endOfDay(day)
	}
	return &day, nil
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Millisecond)
}

// DailySummary is one calendar day of sales
type DailySummary struct {
	Date      string      `json:"date"`
	Count     int         `json:"count"`
	Total     money.Money `json:"total"`
	CashCount int         `json:"cash_count"`
	CashTotal money.Money `json:"cash_total"`
	CardCount int         `json:"card_count"`
	CardTotal money.Money `json:"card_total"`
	Tax       money.Money `json:"tax"`
}

// DailySummary groups the range by calendar day in the service's zone,
// newest day first
func (s *SalesService) DailySummary(ctx context.Context, from, to *time.Time) ([]DailySummary, error) {
	txns, err := s.SalesInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailySummary)
	for _, t := range txns {
		key := t.Date.In(s.loc).Format(dateLayout)
		day, ok := byDay[key]
		if !ok {
			day = &DailySummary{Date: key}
			byDay[key] = day
		}
		day.Count++
		day.Total = day.Total.Add(t.Total)
		day.Tax = day.Tax.Add(t.Tax)
		switch t.Method {
		case enum.PaymentMethodCash:
			day.CashCount++
			day.CashTotal = day.CashTotal.Add(t.Total)
		case enum.PaymentMethodCard:
			day.CardCount++
			day.CardTotal = day.CardTotal.Add(t.Total)
		}
	}

	out := make([]DailySummary, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}
