package domain

import "time"

// AccountStatus is the lifecycle state of a user account
type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusSuspended AccountStatus = "suspended"
	StatusDeleted   AccountStatus = "deleted"
)

// User represents a storefront customer as seen by the auth core
type User struct {
	ID           uint
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	PasswordHash string
	Status       AccountStatus
	IsAdmin      bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account may sign in
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// PublicUser is the sanitized user shape returned to clients
type PublicUser struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Phone       string     `json:"phone"`
	IsAdmin     bool       `json:"isAdmin"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Public strips credentials and internal state from the user
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		IsAdmin:     u.IsAdmin,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// Registration holds the fields submitted when creating an account
type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Session represents one authenticated device or browser
type Session struct {
	ID             string
	UserID         uint
	Token          string
	UserAgent      string
	IPAddress      string
	ExpiresAt      time.Time
	CreatedAt      time.Time
	LastActivityAt *time.Time
}

// ExpiredAt reports whether the session is logically dead at the given instant
func (s *Session) ExpiredAt(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// SessionMetadata describes the client that opened a session
type SessionMetadata struct {
	UserAgent string
	IPAddress string
}

// Identity is the authenticated principal attached to a request
type Identity struct {
	UserID    uint
	SessionID string
}

// AuthResult represents a successful register or sign-in
type AuthResult struct {
	User    *User
	Session *Session
}

// Strength is the coarse password strength category
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// PasswordValidation is the transient result of a password policy check
type PasswordValidation struct {
	Valid    bool     `json:"valid"`
	Strength Strength `json:"strength"`
	Score    int      `json:"score"`
	Errors   []string `json:"errors"`
}
