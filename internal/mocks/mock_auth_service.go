package mocks

import (
	"context"
	"time"

	"github.com/you/shopauth/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc          func(ctx context.Context, reg domain.Registration, meta domain.SessionMetadata) (*domain.AuthResult, error)
	SignInFunc            func(ctx context.Context, email, password string, meta domain.SessionMetadata) (*domain.AuthResult, error)
	SignOutFunc           func(ctx context.Context, token string) error
	SignOutEverywhereFunc func(ctx context.Context, userID uint) (int64, error)
	CurrentUserFunc       func(ctx context.Context, session *domain.Session) (*domain.User, error)
	ChangePasswordFunc    func(ctx context.Context, identity domain.Identity, current, next string) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func mockAuthResult(email string) *domain.AuthResult {
	now := time.Now()
	return &domain.AuthResult{
		User: &domain.User{
			ID:        1,
			Email:     email,
			Status:    domain.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Session: &domain.Session{
			ID:        "mock-session-id",
			UserID:    1,
			Token:     "mock-session-token",
			ExpiresAt: now.Add(7 * 24 * time.Hour),
			CreatedAt: now,
		},
	}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, reg domain.Registration, meta domain.SessionMetadata) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg, meta)
	}
	// Default behavior: return a mock user and session
	return mockAuthResult(reg.Email), nil
}

// SignIn authenticates a user
func (m *MockAuthService) SignIn(ctx context.Context, email, password string, meta domain.SessionMetadata) (*domain.AuthResult, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password, meta)
	}
	// Default behavior: return a mock user and session
	return mockAuthResult(email), nil
}

// SignOut ends the session behind a token
func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, token)
	}
	// Default behavior: success
	return nil
}

// SignOutEverywhere ends every session of a user
func (m *MockAuthService) SignOutEverywhere(ctx context.Context, userID uint) (int64, error) {
	if m.SignOutEverywhereFunc != nil {
		return m.SignOutEverywhereFunc(ctx, userID)
	}
	// Default behavior: one session revoked
	return 1, nil
}

// CurrentUser resolves the owner of a session
func (m *MockAuthService) CurrentUser(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, session)
	}
	// Default behavior: return a mock user
	return mockAuthResult("user@example.com").User, nil
}

// ChangePassword replaces the password of the authenticated user
func (m *MockAuthService) ChangePassword(ctx context.Context, identity domain.Identity, current, next string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, identity, current, next)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
