package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/shopauth/domain"
	"gorm.io/gorm"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM
type SessionRepositoryImpl struct {
	db *gorm.DB
}

// DBSession is the sessions table. Token lookups hit the unique index.
type DBSession struct {
	ID             string    `gorm:"primaryKey;size:36"`
	UserID         uint      `gorm:"index;not null"`
	Token          string    `gorm:"uniqueIndex;size:64;not null"`
	UserAgent      string    `gorm:"size:512"`
	IPAddress      string    `gorm:"size:64"`
	ExpiresAt      time.Time `gorm:"index;not null"`
	CreatedAt      time.Time
	LastActivityAt *time.Time
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	row := &DBSession{
		ID:             session.ID,
		UserID:         session.UserID,
		Token:          session.Token,
		UserAgent:      session.UserAgent,
		IPAddress:      session.IPAddress,
		ExpiresAt:      session.ExpiresAt.UTC(),
		CreatedAt:      session.CreatedAt.UTC(),
		LastActivityAt: session.LastActivityAt,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// FindByToken implements domain.SessionRepository. Expired rows are returned
// as-is so the caller can tell expiry apart from absence.
func (r *SessionRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	var row DBSession
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &domain.Session{
		ID:             row.ID,
		UserID:         row.UserID,
		Token:          row.Token,
		UserAgent:      row.UserAgent,
		IPAddress:      row.IPAddress,
		ExpiresAt:      row.ExpiresAt,
		CreatedAt:      row.CreatedAt,
		LastActivityAt: row.LastActivityAt,
	}, nil
}

// Delete implements domain.SessionRepository; absent sessions are not an error
func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&DBSession{}).Error
}

// DeleteAllForUser implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&DBSession{})
	return result.RowsAffected, result.Error
}

// DeleteOthersForUser implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteOthersForUser(ctx context.Context, userID uint, keepSessionID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id <> ?", userID, keepSessionID).
		Delete(&DBSession{})
	return result.RowsAffected, result.Error
}

// Extend implements domain.SessionRepository
func (r *SessionRepositoryImpl) Extend(ctx context.Context, sessionID string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&DBSession{}).
		Where("id = ?", sessionID).
		Update("expires_at", expiresAt.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Touch implements domain.SessionRepository
func (r *SessionRepositoryImpl) Touch(ctx context.Context, sessionID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&DBSession{}).
		Where("id = ?", sessionID).
		Update("last_activity_at", at.UTC()).Error
}

// SweepExpired implements domain.SessionRepository
func (r *SessionRepositoryImpl) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&DBSession{})
	return result.RowsAffected, result.Error
}
