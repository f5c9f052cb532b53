package domain

import (
	"errors"
	"strings"
)

// Input errors
var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidPhone  = errors.New("invalid phone number")
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user account is inactive")
)

// Session errors
var (
	ErrNoSession       = errors.New("no session")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Authorization errors
var (
	ErrInsufficientPrivilege = errors.New("insufficient privilege")
)

// Rate limit errors
var (
	ErrRateLimited = errors.New("too many requests")
)

// WeakPasswordError reports every policy violation of a rejected password
type WeakPasswordError struct {
	Violations []string
}

func (e *WeakPasswordError) Error() string {
	return "weak password: " + strings.Join(e.Violations, "; ")
}

// IsWeakPassword unwraps a WeakPasswordError from err
func IsWeakPassword(err error) (*WeakPasswordError, bool) {
	var wp *WeakPasswordError
	if errors.As(err, &wp) {
		return wp, true
	}
	return nil, false
}
