package mocks

import (
	"context"
	"time"

	"github.com/you/shopauth/domain"
)

// MockSessionService implements domain.SessionService interface for testing
type MockSessionService struct {
	CreateFunc        func(ctx context.Context, userID uint, meta domain.SessionMetadata) (*domain.Session, error)
	ValidateFunc      func(ctx context.Context, token string) (*domain.Session, bool, error)
	RevokeFunc        func(ctx context.Context, sessionID string) error
	RevokeByTokenFunc func(ctx context.Context, token string) (*domain.Session, error)
	RevokeAllFunc     func(ctx context.Context, userID uint) (int64, error)
	RevokeOthersFunc  func(ctx context.Context, userID uint, keepSessionID string) (int64, error)
	SweepFunc         func(ctx context.Context) (int64, error)
	TTLValue          time.Duration
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{TTLValue: 7 * 24 * time.Hour}
}

// Create opens a session
func (m *MockSessionService) Create(ctx context.Context, userID uint, meta domain.SessionMetadata) (*domain.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, meta)
	}
	// Default behavior: a fresh session
	now := time.Now()
	return &domain.Session{
		ID:        "mock-session-id",
		UserID:    userID,
		Token:     "mock-session-token",
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		ExpiresAt: now.Add(m.TTLValue),
		CreatedAt: now,
	}, nil
}

// Validate resolves a token to a live session
func (m *MockSessionService) Validate(ctx context.Context, token string) (*domain.Session, bool, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	// Default behavior: not found
	return nil, false, domain.ErrSessionNotFound
}

// Revoke deletes a session by ID
func (m *MockSessionService) Revoke(ctx context.Context, sessionID string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, sessionID)
	}
	// Default behavior: success
	return nil
}

// RevokeByToken deletes the session behind a token
func (m *MockSessionService) RevokeByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.RevokeByTokenFunc != nil {
		return m.RevokeByTokenFunc(ctx, token)
	}
	// Default behavior: nothing to revoke
	return nil, nil
}

// RevokeAll deletes every session of a user
func (m *MockSessionService) RevokeAll(ctx context.Context, userID uint) (int64, error) {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, userID)
	}
	// Default behavior: nothing deleted
	return 0, nil
}

// RevokeOthers deletes every session of a user except one
func (m *MockSessionService) RevokeOthers(ctx context.Context, userID uint, keepSessionID string) (int64, error) {
	if m.RevokeOthersFunc != nil {
		return m.RevokeOthersFunc(ctx, userID, keepSessionID)
	}
	// Default behavior: nothing deleted
	return 0, nil
}

// Sweep deletes expired sessions
func (m *MockSessionService) Sweep(ctx context.Context) (int64, error) {
	if m.SweepFunc != nil {
		return m.SweepFunc(ctx)
	}
	// Default behavior: nothing expired
	return 0, nil
}

// TTL returns the configured session lifetime
func (m *MockSessionService) TTL() time.Duration {
	return m.TTLValue
}

// Compile-time interface compliance verification
var _ domain.SessionService = (*MockSessionService)(nil)
