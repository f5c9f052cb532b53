package mocks

import (
	"context"
	"time"

	"github.com/you/shopauth/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc             func(ctx context.Context, user *domain.User) error
	FindByEmailFunc        func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc           func(ctx context.Context, id uint) (*domain.User, error)
	UpdateLastLoginFunc    func(ctx context.Context, id uint, at time.Time) error
	UpdatePasswordHashFunc func(ctx context.Context, id uint, hash string) error
	SetStatusFunc          func(ctx context.Context, id uint, status domain.AccountStatus) error
	SetAdminFunc           func(ctx context.Context, id uint, admin bool) error
	DeleteFunc             func(ctx context.Context, id uint) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// UpdateLastLogin records a successful sign-in
func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	// Default behavior: success
	return nil
}

// UpdatePasswordHash stores a new password hash
func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, id, hash)
	}
	// Default behavior: success
	return nil
}

// SetStatus changes the account status
func (m *MockUserRepository) SetStatus(ctx context.Context, id uint, status domain.AccountStatus) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	// Default behavior: success
	return nil
}

// SetAdmin grants or revokes the admin flag
func (m *MockUserRepository) SetAdmin(ctx context.Context, id uint, admin bool) error {
	if m.SetAdminFunc != nil {
		return m.SetAdminFunc(ctx, id, admin)
	}
	// Default behavior: success
	return nil
}

// Delete removes a user
func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
