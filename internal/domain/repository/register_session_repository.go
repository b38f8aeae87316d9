package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/pkg/denomination"
	"github.com/sangkips/register-api/pkg/money"
	"github.com/sangkips/register-api/pkg/pagination"
)

var (
	// ErrSessionAlreadyOpen is returned when an open session already exists
	ErrSessionAlreadyOpen = errors.New("register session already open")
	// ErrNoOpenSession is returned when there is no open session to act on
	ErrNoOpenSession = errors.New("no open register session")
)

// CloseSessionParams carries the counted drawer at close
type CloseSessionParams struct {
	ClosingAmount  money.Money
	ClosingDetails denomination.Breakdown
	ClosedAt       time.Time
}

// RegisterSessionRepository defines the interface for register session data operations
type RegisterSessionRepository interface {
	// CreateOpen inserts session with status open, atomically with respect to
	// any other open session. Returns ErrSessionAlreadyOpen on conflict.
	CreateOpen(ctx context.Context, session *entity.RegisterSession) error
	// CloseOpen closes the single open session. Returns ErrNoOpenSession if
	// none is open, including when a concurrent close won the race.
	CloseOpen(ctx context.Context, params CloseSessionParams) (*entity.RegisterSession, error)
	// GetOpen returns the open session, or nil when none is open
	GetOpen(ctx context.Context) (*entity.RegisterSession, error)
	// GetByID returns nil when the session does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RegisterSession, error)
	List(ctx context.Context, params *SessionFilterParams) ([]entity.RegisterSession, int64, error)
}

// SessionFilterParams contains filtering parameters for session queries
type SessionFilterParams struct {
	Pagination *pagination.PaginationParams
	StartDate  *time.Time
	EndDate    *time.Time
}
