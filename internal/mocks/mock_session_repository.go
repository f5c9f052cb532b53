package mocks

import (
	"context"
	"time"

	"github.com/you/shopauth/domain"
)

// MockSessionRepository implements domain.SessionRepository interface for testing
type MockSessionRepository struct {
	CreateFunc              func(ctx context.Context, session *domain.Session) error
	FindByTokenFunc         func(ctx context.Context, token string) (*domain.Session, error)
	DeleteFunc              func(ctx context.Context, sessionID string) error
	DeleteAllForUserFunc    func(ctx context.Context, userID uint) (int64, error)
	DeleteOthersForUserFunc func(ctx context.Context, userID uint, keepSessionID string) (int64, error)
	ExtendFunc              func(ctx context.Context, sessionID string, expiresAt time.Time) error
	TouchFunc               func(ctx context.Context, sessionID string, at time.Time) error
	SweepExpiredFunc        func(ctx context.Context, now time.Time) (int64, error)
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

// Create creates a new session
func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	// Default behavior: success
	return nil
}

// FindByToken finds a session by its bearer token
func (m *MockSessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	// Default behavior: not found
	return nil, domain.ErrSessionNotFound
}

// Delete deletes a session by ID
func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	// Default behavior: success
	return nil
}

// DeleteAllForUser deletes every session of a user
func (m *MockSessionRepository) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	if m.DeleteAllForUserFunc != nil {
		return m.DeleteAllForUserFunc(ctx, userID)
	}
	// Default behavior: nothing deleted
	return 0, nil
}

// DeleteOthersForUser deletes every session of a user except one
func (m *MockSessionRepository) DeleteOthersForUser(ctx context.Context, userID uint, keepSessionID string) (int64, error) {
	if m.DeleteOthersForUserFunc != nil {
		return m.DeleteOthersForUserFunc(ctx, userID, keepSessionID)
	}
	// Default behavior: nothing deleted
	return 0, nil
}

// Extend overwrites the expiry of a session
func (m *MockSessionRepository) Extend(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if m.ExtendFunc != nil {
		return m.ExtendFunc(ctx, sessionID, expiresAt)
	}
	// Default behavior: success
	return nil
}

// Touch records activity on a session
func (m *MockSessionRepository) Touch(ctx context.Context, sessionID string, at time.Time) error {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, sessionID, at)
	}
	// Default behavior: success
	return nil
}

// SweepExpired deletes all expired sessions
func (m *MockSessionRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.SweepExpiredFunc != nil {
		return m.SweepExpiredFunc(ctx, now)
	}
	// Default behavior: nothing expired
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*MockSessionRepository)(nil)
