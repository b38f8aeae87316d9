package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/repository"
	"github.com/sangkips/register-api/pkg/apperror"
	"github.com/sangkips/register-api/pkg/denomination"
	"github.com/sangkips/register-api/pkg/money"
	"github.com/sangkips/register-api/pkg/pagination"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// RegisterService owns the open/close lifecycle of the cash drawer. Whether
// the register is open is always read from the store.
type RegisterService struct {
	sessions repository.RegisterSessionRepository
	sales    *SalesService
	settings *SettingsService
	log      *zap.Logger
	now      func() time.Time
}

// NewRegisterService creates a new register service
func NewRegisterService(
	sessions repository.RegisterSessionRepository,
	sales *SalesService,
	settings *SettingsService,
	log *zap.Logger,
) *RegisterService {
	return &RegisterService{
		sessions: sessions,
		sales:    sales,
		settings: settings,
		log:      log,
		now:      time.Now,
	}
}

// OpenSessionInput is the float counted into the drawer
type OpenSessionInput struct {
	OpeningAmount  money.Money
	OpeningDetails denomination.Breakdown
}

// OpenSession starts a new session. It fails with a conflict if one is
// already open, including when another terminal opens at the same moment.
func (s *RegisterService) OpenSession(ctx context.Context, input *OpenSessionInput) (*entity.RegisterSession, error) {
	if err := validateCount("opening", input.OpeningAmount, input.OpeningDetails); err != nil {
		return nil, err
	}

	session := &entity.RegisterSession{
		OpenedAt:       s.now(),
		OpeningAmount:  input.OpeningAmount,
		OpeningDetails: datatypes.NewJSONType(input.OpeningDetails),
	}
	if err := s.sessions.CreateOpen(ctx, session); err != nil {
		if errors.Is(err, repository.ErrSessionAlreadyOpen) {
			return nil, apperror.NewConflictError("A register session is already open")
		}
		s.log.Error("failed to open register session", zap.Error(err))
		return nil, apperror.NewPersistenceError(err)
	}

	s.log.Info("register opened",
		zap.String("session_id", session.ID.String()),
		zap.Stringer("opening_amount", session.OpeningAmount),
	)
	return session, nil
}

// CloseSessionInput is the cash counted out of the drawer
type CloseSessionInput struct {
	ClosingAmount  money.Money
	ClosingDetails denomination.Breakdown
}

// CloseSummary reconciles the counted drawer against recorded sales
type CloseSummary struct {
	Session       *entity.RegisterSession `json:"session"`
	OpeningAmount money.Money             `json:"opening_amount"`
	ClosingAmount money.Money             `json:"closing_amount"`
	Takeout       money.Money             `json:"takeout"`
	SessionSales  money.Money             `json:"session_sales"`
	CashSales     money.Money             `json:"cash_sales"`
	ExpectedCash  money.Money             `json:"expected_cash"`
	Variance      money.Money             `json:"variance"`
}

// CloseSession closes the open session. It fails with not found if nothing
// is open, including when a concurrent close won.
func (s *RegisterService) CloseSession(ctx context.Context, input *CloseSessionInput) (*CloseSummary, error) {
	if err := validateCount("closing", input.ClosingAmount, input.ClosingDetails); err != nil {
		return nil, err
	}

	session, err := s.sessions.CloseOpen(ctx, repository.CloseSessionParams{
		ClosingAmount:  input.ClosingAmount,
		ClosingDetails: input.ClosingDetails,
		ClosedAt:       s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenSession) {
			return nil, apperror.NewNotFoundError("Open register session")
		}
		s.log.Error("failed to close register session", zap.Error(err))
		return nil, apperror.NewPersistenceError(err)
	}

	summary := &CloseSummary{
		Session:       session,
		OpeningAmount: session.OpeningAmount,
		ClosingAmount: input.ClosingAmount,
		Takeout:       session.Takeout(),
	}

	// The session is already closed; a failed read only loses the
	// reconciliation figures, not the close.
	if sales, err := s.sales.SalesBetween(ctx, session.OpenedAt, *session.ClosedAt); err == nil {
		summary.SessionSales = sales
	} else {
		s.log.Warn("close summary without session sales", zap.String("session_id", session.ID.String()), zap.Error(err))
	}
	if cash, err := s.sales.CashSalesBetween(ctx, session.OpenedAt, session.ClosedAt); err == nil {
		summary.CashSales = cash
	} else {
		s.log.Warn("close summary without cash sales", zap.String("session_id", session.ID.String()), zap.Error(err))
	}
	summary.ExpectedCash = summary.OpeningAmount.Add(summary.CashSales)
	summary.Variance = summary.ClosingAmount.Sub(summary.ExpectedCash)

	s.log.Info("register closed",
		zap.String("session_id", session.ID.String()),
		zap.Stringer("closing_amount", summary.ClosingAmount),
		zap.Stringer("takeout", summary.Takeout),
		zap.Stringer("variance", summary.Variance),
	)
	return summary, nil
}

// SessionWithSales is the open session and what it has sold so far
type SessionWithSales struct {
	Session *entity.RegisterSession `json:"session"`
	Sales   money.Money             `json:"sales"`
}

// CurrentSession returns the open session, or nil when the register is closed
func (s *RegisterService) CurrentSession(ctx context.Context) (*SessionWithSales, error) {
	session, err := s.sessions.GetOpen(ctx)
	if err != nil {
		s.log.Error("failed to load open register session", zap.Error(err))
		return nil, apperror.NewPersistenceError(err)
	}
	if session == nil {
		return nil, nil
	}
	sales, err := s.sales.SalesSince(ctx, session.OpenedAt)
	if err != nil {
		return nil, err
	}
	return &SessionWithSales{Session: session, Sales: sales}, nil
}

// RegisterStatus is the cheap open/closed probe
type RegisterStatus struct {
	IsOpen bool `json:"is_open"`
}

// Status reports whether a session is open. Storage failures read as closed.
func (s *RegisterService) Status(ctx context.Context) RegisterStatus {
	session, err := s.sessions.GetOpen(ctx)
	if err != nil {
		s.log.Warn("register status degraded to closed", zap.Error(err))
		return RegisterStatus{IsOpen: false}
	}
	return RegisterStatus{IsOpen: session != nil}
}

// SessionSales totals the sales of one session. A closed session is
// bounded by its close time so later backdated sales do not leak in.
func (s *RegisterService) SessionSales(ctx context.Context, id uuid.UUID) (money.Money, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		s.log.Error("failed to load register session", zap.String("session_id", id.String()), zap.Error(err))
		return money.Zero, apperror.NewPersistenceError(err)
	}
	if session == nil {
		return money.Zero, apperror.NewNotFoundError("Register session")
	}
	if session.IsOpen() || session.ClosedAt == nil {
		return s.sales.SalesSince(ctx, session.OpenedAt)
	}
	return s.sales.SalesBetween(ctx, session.OpenedAt, *session.ClosedAt)
}

// ListSessions pages through sessions opened within the range, newest first
func (s *RegisterService) ListSessions(ctx context.Context, from, to *time.Time, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.RegisterSession], error) {
	params.Validate()
	sessions, total, err := s.sessions.List(ctx, &repository.SessionFilterParams{
		Pagination: params,
		StartDate:  from,
		EndDate:    to,
	})
	if err != nil {
		s.log.Error("failed to list register sessions", zap.Error(err))
		return nil, apperror.NewPersistenceError(err)
	}
	if sessions == nil {
		sessions = []entity.RegisterSession{}
	}
	return pagination.NewPaginatedResult(sessions, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// Prefill is a suggested opening count for the configured float
type Prefill struct {
	Amount    money.Money            `json:"amount"`
	Details   denomination.Breakdown `json:"details"`
	Remainder money.Money            `json:"remainder"`
}

// Prefill breaks the configured default float into bills and coins
func (s *RegisterService) Prefill(ctx context.Context) (*Prefill, error) {
	amount, err := s.settings.RegisterInitialAmount(ctx)
	if err != nil {
		return nil, err
	}
	details, remainder := denomination.FillBreakdown(amount)
	return &Prefill{Amount: amount, Details: details, Remainder: remainder}, nil
}

// validateCount rejects negative amounts and malformed denomination counts
func validateCount(prefix string, amount money.Money, details denomination.Breakdown) error {
	if amount.IsNegative() {
		return apperror.NewFieldError(prefix+"_amount", "amount must not be negative")
	}
	if _, err := details.Total(); err != nil {
		return apperror.NewFieldError(prefix+"_details", err.Error())
	}
	return nil
}
