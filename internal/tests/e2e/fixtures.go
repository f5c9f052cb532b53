package e2e

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// StrongPassword satisfies every password rule
const StrongPassword = "Correct-Horse-42"

var emailSeq atomic.Int64

// TestUserOptions configures test user creation
type TestUserOptions struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// DefaultTestUser returns default test user options with a unique email
func DefaultTestUser() *TestUserOptions {
	return &TestUserOptions{
		Email:     generateTestEmail(),
		Password:  StrongPassword,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "+44 20 7946 0958",
	}
}

// Body returns the registration request body
func (o *TestUserOptions) Body() map[string]string {
	return map[string]string{
		"email":     o.Email,
		"password":  o.Password,
		"firstName": o.FirstName,
		"lastName":  o.LastName,
		"phone":     o.Phone,
	}
}

// Register creates the account through the API and leaves the client
// signed in
func (c *Client) Register(opts *TestUserOptions) *Response {
	c.t.Helper()

	resp := c.Do("POST", "/api/auth/register", opts.Body())
	require.Equal(c.t, 201, resp.Status, "register failed: %s", resp.Raw)
	return resp
}

// SignIn signs the client in
func (c *Client) SignIn(email, password string) *Response {
	c.t.Helper()
	return c.Do("POST", "/api/auth/signin", map[string]string{"email": email, "password": password})
}

// CountSessions returns the number of stored sessions for a user
func (s *TestServer) CountSessions(t *testing.T, userID uint) int64 {
	t.Helper()

	var n int64
	require.NoError(t, s.Container.DB.Table("sessions").Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func generateTestEmail() string {
	return fmt.Sprintf("shopper%d@example.com", emailSeq.Add(1))
}
