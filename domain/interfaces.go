package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	SetStatus(ctx context.Context, id uint, status AccountStatus) error
	SetAdmin(ctx context.Context, id uint, admin bool) error
	Delete(ctx context.Context, id uint) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteAllForUser(ctx context.Context, userID uint) (int64, error)
	DeleteOthersForUser(ctx context.Context, userID uint, keepSessionID string) (int64, error)
	Extend(ctx context.Context, sessionID string, expiresAt time.Time) error
	Touch(ctx context.Context, sessionID string, at time.Time) error
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// PasswordService defines credential hashing operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
	NeedsRehash(hashedPassword string) bool
}

// PasswordPolicy scores and validates candidate passwords
type PasswordPolicy interface {
	ValidateStrength(password string) PasswordValidation
}

// SessionService defines the session lifecycle on top of the store
type SessionService interface {
	Create(ctx context.Context, userID uint, meta SessionMetadata) (*Session, error)
	Validate(ctx context.Context, token string) (*Session, bool, error)
	Revoke(ctx context.Context, sessionID string) error
	RevokeByToken(ctx context.Context, token string) (*Session, error)
	RevokeAll(ctx context.Context, userID uint) (int64, error)
	RevokeOthers(ctx context.Context, userID uint, keepSessionID string) (int64, error)
	Sweep(ctx context.Context) (int64, error)
	TTL() time.Duration
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, reg Registration, meta SessionMetadata) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string, meta SessionMetadata) (*AuthResult, error)
	SignOut(ctx context.Context, token string) error
	SignOutEverywhere(ctx context.Context, userID uint) (int64, error)
	CurrentUser(ctx context.Context, session *Session) (*User, error)
	ChangePassword(ctx context.Context, identity Identity, current, next string) error
}

// RateLimitStore counts requests per key in fixed windows
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
	Reset(ctx context.Context, key string) error
}

// AdminPolicy decides whether a user may reach an admin resource
type AdminPolicy interface {
	Allowed(user *User, resource, action string) (bool, error)
}
