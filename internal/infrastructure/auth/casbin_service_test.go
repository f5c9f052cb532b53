package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/shopauth/domain"
)

func TestCasbinService_Allowed(t *testing.T) {
	svc, err := NewCasbinService()
	require.NoError(t, err)

	admin := &domain.User{ID: 1, IsAdmin: true}
	customer := &domain.User{ID: 2}

	tests := []struct {
		name     string
		user     *domain.User
		resource string
		action   string
		expected bool
	}{
		{name: "admin sweeps sessions", user: admin, resource: "/api/admin/sessions/sweep", action: "POST", expected: true},
		{name: "admin revokes user sessions", user: admin, resource: "/api/admin/users/9/sessions", action: "DELETE", expected: true},
		{name: "admin outside admin tree", user: admin, resource: "/api/catalog", action: "GET", expected: false},
		{name: "admin with unlisted verb", user: admin, resource: "/api/admin/sessions/sweep", action: "PATCH", expected: false},
		{name: "customer denied", user: customer, resource: "/api/admin/sessions/sweep", action: "POST", expected: false},
		{name: "nil user denied", user: nil, resource: "/api/admin/sessions/sweep", action: "POST", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := svc.Allowed(tt.user, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}
