package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/internal/domain/repository"
	"github.com/sangkips/register-api/pkg/money"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var errStoreDown = errors.New("connection refused")

// fakeSessionRepo keeps sessions in memory. The mutex plays the part of the
// store's atomic check-and-insert.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []*entity.RegisterSession
	err      error
}

func (r *fakeSessionRepo) CreateOpen(_ context.Context, s *entity.RegisterSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.sessions {
		if existing.IsOpen() {
			return repository.ErrSessionAlreadyOpen
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Status = enum.SessionStatusOpen
	cp := *s
	r.sessions = append(r.sessions, &cp)
	return nil
}

func (r *fakeSessionRepo) CloseOpen(_ context.Context, p repository.CloseSessionParams) (*entity.RegisterSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.sessions {
		if s.IsOpen() {
			closedAt := p.ClosedAt
			amount := p.ClosingAmount
			details := datatypes.NewJSONType(p.ClosingDetails)
			s.ClosedAt = &closedAt
			s.ClosingAmount = &amount
			s.ClosingDetails = &details
			s.Status = enum.SessionStatusClosed
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNoOpenSession
}

func (r *fakeSessionRepo) GetOpen(context.Context) (*entity.RegisterSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.sessions {
		if s.IsOpen() {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.RegisterSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.sessions {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) List(_ context.Context, p *repository.SessionFilterParams) ([]entity.RegisterSession, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.RegisterSession
	for _, s := range r.sessions {
		if p.StartDate != nil && s.OpenedAt.Before(*p.StartDate) {
			continue
		}
		if p.EndDate != nil && s.OpenedAt.After(*p.EndDate) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, int64(len(out)), nil
}

func (r *fakeSessionRepo) openCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sessions {
		if s.IsOpen() {
			n++
		}
	}
	return n
}

type fakeTxRepo struct {
	mu   sync.Mutex
	txns []entity.Transaction
	err  error
}

func (r *fakeTxRepo) Create(_ context.Context, t *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.txns = append(r.txns, *t)
	return nil
}

func (r *fakeTxRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.txns {
		if r.txns[i].ID == id {
			t := r.txns[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeTxRepo) match(f repository.TransactionFilter) []entity.Transaction {
	var out []entity.Transaction
	for _, t := range r.txns {
		if f.From != nil && t.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && t.Date.After(*f.To) {
			continue
		}
		if f.Method != nil && t.Method != *f.Method {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r *fakeTxRepo) List(_ context.Context, f repository.TransactionFilter) ([]entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.match(f), nil
}

func (r *fakeTxRepo) SumTotals(_ context.Context, f repository.TransactionFilter) (money.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return money.Zero, r.err
	}
	var sum money.Money
	for _, t := range r.match(f) {
		sum = sum.Add(t.Total)
	}
	return sum, nil
}

type fakeSettingsRepo struct {
	values map[string]string
	err    error
}

func (r *fakeSettingsRepo) Get(_ context.Context, key string) (string, bool, error) {
	if r.err != nil {
		return "", false, r.err
	}
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *fakeSettingsRepo) Set(_ context.Context, key, value string) error {
	if r.err != nil {
		return r.err
	}
	if r.values == nil {
		r.values = map[string]string{}
	}
	r.values[key] = value
	return nil
}

type fakeUserRepo struct {
	users []*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// clock is a settable time source
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	sessions *fakeSessionRepo
	txns     *fakeTxRepo
	settings *fakeSettingsRepo
	clock    *clock

	settingsSvc *SettingsService
	sales       *SalesService
	register    *RegisterService
	ledger      *TransactionService
}

func newFixture() *fixture {
	log := zap.NewNop()
	f := &fixture{
		sessions: &fakeSessionRepo{},
		txns:     &fakeTxRepo{},
		settings: &fakeSettingsRepo{values: map[string]string{}},
		clock:    newClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
	}
	f.settingsSvc = NewSettingsService(f.settings, log)
	f.sales = NewSalesService(f.txns, time.UTC, log)
	f.register = NewRegisterService(f.sessions, f.sales, f.settingsSvc, log)
	f.register.now = f.clock.Now
	f.ledger = NewTransactionService(f.txns, f.sales, log)
	f.ledger.now = f.clock.Now
	return f
}
