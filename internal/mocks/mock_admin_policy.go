package mocks

import "github.com/you/shopauth/domain"

// MockAdminPolicy implements domain.AdminPolicy interface for testing
type MockAdminPolicy struct {
	AllowedFunc func(user *domain.User, resource, action string) (bool, error)
}

// NewMockAdminPolicy creates a new MockAdminPolicy with default behaviors
func NewMockAdminPolicy() *MockAdminPolicy {
	return &MockAdminPolicy{}
}

// Allowed decides access to an admin resource
func (m *MockAdminPolicy) Allowed(user *domain.User, resource, action string) (bool, error) {
	if m.AllowedFunc != nil {
		return m.AllowedFunc(user, resource, action)
	}
	// Default behavior: the admin flag decides
	return user != nil && user.IsAdmin, nil
}

// Compile-time interface compliance verification
var _ domain.AdminPolicy = (*MockAdminPolicy)(nil)
