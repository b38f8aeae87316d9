package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	domainRepo "github.com/sangkips/register-api/internal/domain/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type registerSessionRepository struct {
	db *gorm.DB
}

// NewRegisterSessionRepository creates a new register session repository
func NewRegisterSessionRepository(db *gorm.DB) domainRepo.RegisterSessionRepository {
	return &registerSessionRepository{db: db}
}

// CreateOpen re-checks for an open session and inserts in one transaction.
// The partial unique index on status catches the race the check cannot.
func (r *registerSessionRepository) CreateOpen(ctx context.Context, session *entity.RegisterSession) error {
	session.Status = enum.SessionStatusOpen
	session.OpenedAt = session.OpenedAt.UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.RegisterSession{}).
			Where("status = ?", enum.SessionStatusOpen).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domainRepo.ErrSessionAlreadyOpen
		}
		return tx.Create(session).Error
	})
	if isUniqueViolation(err) {
		return domainRepo.ErrSessionAlreadyOpen
	}
	return err
}

func (r *registerSessionRepository) CloseOpen(ctx context.Context, params domainRepo.CloseSessionParams) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	closedAt := params.ClosedAt.UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ?", enum.SessionStatusOpen).
			Order("opened_at DESC").
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainRepo.ErrNoOpenSession
		}
		if err != nil {
			return err
		}

		details := datatypes.NewJSONType(params.ClosingDetails)
		res := tx.Model(&entity.RegisterSession{}).
			Where("id = ? AND status = ?", session.ID, enum.SessionStatusOpen).
			Updates(map[string]interface{}{
				"closed_at":       closedAt,
				"closing_amount":  params.ClosingAmount,
				"closing_details": details,
				"status":          enum.SessionStatusClosed,
			})
		if res.Error != nil {
			return res.Error
		}
		// a concurrent close got there first
		if res.RowsAffected != 1 {
			return domainRepo.ErrNoOpenSession
		}

		amount := params.ClosingAmount
		session.ClosedAt = &closedAt
		session.ClosingAmount = &amount
		session.ClosingDetails = &details
		session.Status = enum.SessionStatusClosed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *registerSessionRepository) GetOpen(ctx context.Context) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	err := r.db.WithContext(ctx).
		Where("status = ?", enum.SessionStatusOpen).
		Order("opened_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *registerSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *registerSessionRepository) List(ctx context.Context, params *domainRepo.SessionFilterParams) ([]entity.RegisterSession, int64, error) {
	var sessions []entity.RegisterSession
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RegisterSession{}).
		Scopes(DateRange("opened_at", params.StartDate, params.EndDate))

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Session(&gorm.Session{}).
		Scopes(Paginate(params.Pagination)).
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}
