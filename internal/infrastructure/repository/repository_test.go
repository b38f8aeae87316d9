package repository

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	domainRepo "github.com/sangkips/register-api/internal/domain/repository"
	"github.com/sangkips/register-api/internal/infrastructure/database"
	"github.com/sangkips/register-api/pkg/denomination"
	"github.com/sangkips/register-api/pkg/money"
	"github.com/sangkips/register-api/pkg/pagination"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// one connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func openingBreakdown() denomination.Breakdown {
	return denomination.Breakdown{
		Bills: denomination.Denominations{money.MustParse("100"): 1, money.MustParse("20"): 2},
		Coins: denomination.Denominations{money.MustParse("0.25"): 2},
	}
}

func newOpenSession(at time.Time) *entity.RegisterSession {
	return &entity.RegisterSession{
		OpenedAt:       at,
		OpeningAmount:  money.MustParse("140.50"),
		OpeningDetails: datatypes.NewJSONType(openingBreakdown()),
	}
}

func TestCreateOpenRejectsSecondOpen(t *testing.T) {
	repo := NewRegisterSessionRepository(newTestDB(t))
	ctx := context.Background()

	if err := repo.CreateOpen(ctx, newOpenSession(time.Now())); err != nil {
		t.Fatalf("first open: %v", err)
	}
	err := repo.CreateOpen(ctx, newOpenSession(time.Now()))
	if !errors.Is(err, domainRepo.ErrSessionAlreadyOpen) {
		t.Fatalf("second open err = %v, want ErrSessionAlreadyOpen", err)
	}
}

func TestCreateOpenConcurrent(t *testing.T) {
	repo := NewRegisterSessionRepository(newTestDB(t))
	ctx := context.Background()

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := repo.CreateOpen(ctx, newOpenSession(time.Now()))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domainRepo.ErrSessionAlreadyOpen):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if succeeded != 1 || conflicts != callers-1 {
		t.Fatalf("succeeded=%d conflicts=%d, want 1 and %d", succeeded, conflicts, callers-1)
	}
}

func TestOpenSessionIndexRejectsBypass(t *testing.T) {
	db := newTestDB(t)
	repo := NewRegisterSessionRepository(db)
	ctx := context.Background()

	if err := repo.CreateOpen(ctx, newOpenSession(time.Now())); err != nil {
		t.Fatal(err)
	}
	// insert directly, skipping the pre-check
	second := newOpenSession(time.Now())
	second.Status = enum.SessionStatusOpen
	err := db.Create(second).Error
	if !isUniqueViolation(err) {
		t.Fatalf("direct insert err = %v, want unique violation", err)
	}
}

func TestCloseOpen(t *testing.T) {
	repo := NewRegisterSessionRepository(newTestDB(t))
	ctx := context.Background()

	opened := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	session := newOpenSession(opened)
	if err := repo.CreateOpen(ctx, session); err != nil {
		t.Fatal(err)
	}

	closedAt := opened.Add(8 * time.Hour)
	closing := denomination.Breakdown{Bills: denomination.Denominations{money.MustParse("100"): 2}}
	closed, err := repo.CloseOpen(ctx, domainRepo.CloseSessionParams{
		ClosingAmount:  money.MustParse("200"),
		ClosingDetails: closing,
		ClosedAt:       closedAt,
	})
	if err != nil {
		t.Fatalf("CloseOpen: %v", err)
	}
	if closed.ID != session.ID || closed.Status != enum.SessionStatusClosed {
		t.Errorf("closed = %+v", closed)
	}
	if got := closed.Takeout(); got != money.MustParse("59.50") {
		t.Errorf("takeout = %s, want 59.50", got)
	}

	stored, err := repo.GetByID(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != enum.SessionStatusClosed || stored.ClosedAt == nil || !stored.ClosedAt.Equal(closedAt) {
		t.Errorf("stored = %+v", stored)
	}
	if stored.ClosingDetails == nil || !reflect.DeepEqual(stored.ClosingDetails.Data(), closing) {
		t.Errorf("closing details not persisted: %+v", stored.ClosingDetails)
	}
	if !reflect.DeepEqual(stored.OpeningDetails.Data(), openingBreakdown()) {
		t.Errorf("opening details = %+v", stored.OpeningDetails.Data())
	}

	open, err := repo.GetOpen(ctx)
	if err != nil || open != nil {
		t.Errorf("GetOpen after close = %v, %v; want nil, nil", open, err)
	}
}

func TestCloseOpenWithoutOpenSession(t *testing.T) {
	db := newTestDB(t)
	repo := NewRegisterSessionRepository(db)

	_, err := repo.CloseOpen(context.Background(), domainRepo.CloseSessionParams{ClosedAt: time.Now()})
	if !errors.Is(err, domainRepo.ErrNoOpenSession) {
		t.Fatalf("err = %v, want ErrNoOpenSession", err)
	}
	var count int64
	db.Model(&entity.RegisterSession{}).Count(&count)
	if count != 0 {
		t.Errorf("close with nothing open wrote %d rows", count)
	}
}

func TestCloseOpenTwice(t *testing.T) {
	repo := NewRegisterSessionRepository(newTestDB(t))
	ctx := context.Background()

	if err := repo.CreateOpen(ctx, newOpenSession(time.Now())); err != nil {
		t.Fatal(err)
	}
	params := domainRepo.CloseSessionParams{ClosingAmount: money.MustParse("10"), ClosedAt: time.Now()}
	if _, err := repo.CloseOpen(ctx, params); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CloseOpen(ctx, params); !errors.Is(err, domainRepo.ErrNoOpenSession) {
		t.Fatalf("second close err = %v, want ErrNoOpenSession", err)
	}
}

func TestReopenAfterClose(t *testing.T) {
	repo := NewRegisterSessionRepository(newTestDB(t))
	ctx := context.Background()

	first := newOpenSession(time.Now().Add(-time.Hour))
	if err := repo.CreateOpen(ctx, first); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CloseOpen(ctx, domainRepo.CloseSessionParams{ClosedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	second := newOpenSession(time.Now())
	if err := repo.CreateOpen(ctx, second); err != nil {
		t.Fatalf("open after close: %v", err)
	}
	open, err := repo.GetOpen(ctx)
	if err != nil || open == nil || open.ID != second.ID {
		t.Fatalf("GetOpen = %v, %v; want session %s", open, err, second.ID)
	}
}

func TestListSessions(t *testing.T) {
	repo := NewRegisterSessionRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := repo.CreateOpen(ctx, newOpenSession(base.AddDate(0, 0, i))); err != nil {
			t.Fatal(err)
		}
		if _, err := repo.CloseOpen(ctx, domainRepo.CloseSessionParams{ClosedAt: base.AddDate(0, 0, i).Add(time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}

	start := base.AddDate(0, 0, 1)
	sessions, total, err := repo.List(ctx, &domainRepo.SessionFilterParams{
		Pagination: pagination.DefaultPagination(),
		StartDate:  &start,
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(sessions) != 2 {
		t.Fatalf("total=%d len=%d, want 2", total, len(sessions))
	}
	if !sessions[0].OpenedAt.After(sessions[1].OpenedAt) {
		t.Error("sessions not ordered newest first")
	}

	// The count must not leak into the page query and the filter must
	// survive into it.
	page, total, err := repo.List(ctx, &domainRepo.SessionFilterParams{
		Pagination: &pagination.PaginationParams{Page: 2, PerPage: 1},
		StartDate:  &start,
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(page) != 1 {
		t.Fatalf("page 2: total=%d len=%d, want 2 and 1", total, len(page))
	}
	if !page[0].OpenedAt.Equal(start) {
		t.Errorf("page 2 opened_at = %v, want %v", page[0].OpenedAt, start)
	}
	if page[0].OpeningDetails.Data().Bills == nil {
		t.Error("page rows were not fully loaded")
	}
}

func newTransaction(date time.Time, total string, method enum.PaymentMethod) *entity.Transaction {
	items := []entity.SaleItem{
		{ProductID: "sku-1", Name: "Coffee", UnitPrice: money.MustParse("10.00"), Quantity: 3},
	}
	t := money.MustParse(total)
	return &entity.Transaction{
		ReceiptNumber: "REC-1",
		Date:          date,
		Quantity:      3,
		Subtotal:      t,
		Total:         t,
		Tendered:      t,
		Method:        method,
		Items:         datatypes.NewJSONType(items),
	}
}

func TestTransactionListOrderAndItems(t *testing.T) {
	repo := NewTransactionRepository(newTestDB(t))
	ctx := context.Background()

	older := newTransaction(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), "32.48", enum.PaymentMethodCash)
	newer := newTransaction(time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), "5.00", enum.PaymentMethodCard)
	for _, txn := range []*entity.Transaction{older, newer} {
		if err := repo.Create(ctx, txn); err != nil {
			t.Fatal(err)
		}
	}

	txns, err := repo.List(ctx, domainRepo.TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 2 || txns[0].ID != newer.ID || txns[1].ID != older.ID {
		t.Fatalf("order = %v", txns)
	}
	if !reflect.DeepEqual(txns[1].Items.Data(), older.Items.Data()) {
		t.Errorf("items = %+v, want %+v", txns[1].Items.Data(), older.Items.Data())
	}
	if txns[1].Total != money.MustParse("32.48") {
		t.Errorf("total = %s", txns[1].Total)
	}
}

func TestTransactionFilterAndSum(t *testing.T) {
	repo := NewTransactionRepository(newTestDB(t))
	ctx := context.Background()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []*entity.Transaction{
		newTransaction(day.Add(-time.Hour), "1.00", enum.PaymentMethodCash),
		newTransaction(day.Add(9*time.Hour), "10.00", enum.PaymentMethodCash),
		newTransaction(day.Add(10*time.Hour), "2.50", enum.PaymentMethodCard),
		newTransaction(day.Add(30*time.Hour), "100.00", enum.PaymentMethodCash),
	}
	for _, txn := range rows {
		if err := repo.Create(ctx, txn); err != nil {
			t.Fatal(err)
		}
	}

	from := day
	to := day.Add(24*time.Hour - time.Millisecond)
	cash := enum.PaymentMethodCash

	tests := []struct {
		name   string
		filter domainRepo.TransactionFilter
		want   string
	}{
		{"all", domainRepo.TransactionFilter{}, "113.50"},
		{"since", domainRepo.TransactionFilter{From: &from}, "112.50"},
		{"day", domainRepo.TransactionFilter{From: &from, To: &to}, "12.50"},
		{"day cash", domainRepo.TransactionFilter{From: &from, To: &to, Method: &cash}, "10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SumTotals(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if got != money.MustParse(tt.want) {
				t.Errorf("SumTotals = %s, want %s", got, tt.want)
			}
		})
	}

	empty := day.AddDate(1, 0, 0)
	got, err := repo.SumTotals(ctx, domainRepo.TransactionFilter{From: &empty})
	if err != nil || !got.IsZero() {
		t.Errorf("empty range = %s, %v; want 0", got, err)
	}
}

func TestSettingsUpsert(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) ok=%v err=%v", ok, err)
	}
	if err := repo.Set(ctx, entity.SettingTaxRate, "8.25"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Set(ctx, entity.SettingTaxRate, "7.5"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := repo.Get(ctx, entity.SettingTaxRate)
	if err != nil || !ok || v != "7.5" {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}
}

func TestIdempotencyKeys(t *testing.T) {
	repo := NewIdempotencyRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	now := time.Now()
	key := &entity.IdempotencyKey{
		Key:          "abc",
		UserID:       userID,
		Endpoint:     "POST /api/v1/transactions",
		ResponseCode: 201,
		ResponseBody: `{"success":true}`,
		ExpiresAt:    now.Add(time.Hour),
	}
	if err := repo.Create(ctx, key); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetByKey(ctx, "abc", userID)
	if err != nil || got == nil || got.ResponseBody != key.ResponseBody {
		t.Fatalf("GetByKey = %+v, %v", got, err)
	}

	n, err := repo.DeleteExpired(ctx, now.Add(2*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpired = %d, %v", n, err)
	}
}

func TestIdempotencyKeyReusedAfterExpiry(t *testing.T) {
	repo := NewIdempotencyRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := &entity.IdempotencyKey{
		Key: "k", UserID: userID, Endpoint: "POST /api/v1/transactions",
		ResponseCode: 201, CreatedAt: start, ExpiresAt: start.Add(time.Hour),
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatal(err)
	}

	live := &entity.IdempotencyKey{
		Key: "k", UserID: userID, Endpoint: "POST /api/v1/transactions",
		ResponseCode: 201, CreatedAt: start.Add(30 * time.Minute), ExpiresAt: start.Add(2 * time.Hour),
	}
	if err := repo.Create(ctx, live); !isUniqueViolation(err) {
		t.Fatalf("reusing a live key err = %v, want unique violation", err)
	}

	later := &entity.IdempotencyKey{
		Key: "k", UserID: userID, Endpoint: "POST /api/v1/transactions",
		ResponseCode: 201, ResponseBody: "second", CreatedAt: start.Add(3 * time.Hour), ExpiresAt: start.Add(4 * time.Hour),
	}
	if err := repo.Create(ctx, later); err != nil {
		t.Fatalf("reusing an expired key: %v", err)
	}
	got, err := repo.GetByKey(ctx, "k", userID)
	if err != nil || got == nil || got.ResponseBody != "second" {
		t.Fatalf("GetByKey = %+v, %v", got, err)
	}
}

func TestUserByUsername(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &entity.User{Username: "alice", PasswordHash: "x", Role: enum.RoleCashier}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetByUsername(ctx, "alice")
	if err != nil || got == nil || got.ID != user.ID {
		t.Fatalf("GetByUsername = %+v, %v", got, err)
	}
	missing, err := repo.GetByUsername(ctx, "bob")
	if err != nil || missing != nil {
		t.Errorf("missing user = %+v, %v", missing, err)
	}
	if err := repo.Create(ctx, &entity.User{Username: "alice", PasswordHash: "y"}); !isUniqueViolation(err) {
		t.Errorf("duplicate username err = %v", err)
	}
}
