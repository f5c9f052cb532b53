// Package response shapes every JSON body the API writes. Errors are mapped
// to a closed set of kinds and codes here and nowhere else.
package response

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/shopauth/domain"
)

// Kind is the error taxonomy exposed to clients
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindConflict
	KindRateLimited
	KindInternal
)

// Status returns the HTTP status for the kind
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Code is the machine-readable error identifier
type Code string

const (
	CodeInvalidRequest        Code = "INVALID_REQUEST"
	CodeMissingFields         Code = "MISSING_FIELDS"
	CodeInvalidEmail          Code = "INVALID_EMAIL"
	CodeInvalidPhone          Code = "INVALID_PHONE"
	CodeWeakPassword          Code = "WEAK_PASSWORD"
	CodeEmailExists           Code = "EMAIL_EXISTS"
	CodeInvalidCredentials    Code = "INVALID_CREDENTIALS"
	CodeAccountInactive       Code = "ACCOUNT_INACTIVE"
	CodeNoSession             Code = "NO_SESSION"
	CodeSessionExpired        Code = "SESSION_EXPIRED"
	CodeSessionNotFound       Code = "SESSION_NOT_FOUND"
	CodeUserNotFound          Code = "USER_NOT_FOUND"
	CodeInsufficientPrivilege Code = "INSUFFICIENT_PRIVILEGE"
	CodeRateLimited           Code = "RATE_LIMITED"
	CodeInternal              Code = "INTERNAL_ERROR"
)

// ErrInvalidRequest marks a body that could not be decoded
var ErrInvalidRequest = errors.New("invalid request body")

// Problem is the classified form of an error
type Problem struct {
	Kind    Kind
	Code    Code
	Message string
}

var problems = []struct {
	err     error
	problem Problem
}{
	{ErrInvalidRequest, Problem{KindValidation, CodeInvalidRequest, "Request body is malformed"}},
	{domain.ErrMissingFields, Problem{KindValidation, CodeMissingFields, "Required fields are missing"}},
	{domain.ErrInvalidEmail, Problem{KindValidation, CodeInvalidEmail, "Email address is invalid"}},
	{domain.ErrInvalidPhone, Problem{KindValidation, CodeInvalidPhone, "Phone number is invalid"}},
	{domain.ErrUserAlreadyExists, Problem{KindConflict, CodeEmailExists, "An account with this email already exists"}},
	{domain.ErrInvalidCredentials, Problem{KindAuthentication, CodeInvalidCredentials, "Invalid email or password"}},
	{domain.ErrUserInactive, Problem{KindAuthorization, CodeAccountInactive, "Account is not active"}},
	{domain.ErrNoSession, Problem{KindAuthentication, CodeNoSession, "Not signed in"}},
	{domain.ErrSessionExpired, Problem{KindAuthentication, CodeSessionExpired, "Session has expired"}},
	{domain.ErrSessionNotFound, Problem{KindAuthentication, CodeSessionNotFound, "Session not found"}},
	{domain.ErrUserNotFound, Problem{KindAuthentication, CodeUserNotFound, "User not found"}},
	{domain.ErrInsufficientPrivilege, Problem{KindAuthorization, CodeInsufficientPrivilege, "Insufficient privileges"}},
	{domain.ErrRateLimited, Problem{KindRateLimited, CodeRateLimited, "Too many requests, please try again later"}},
}

var internal = Problem{KindInternal, CodeInternal, "Internal server error"}

// Exception is the failure body
type Exception struct {
	Success    bool     `json:"success"`
	Code       Code     `json:"code"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
	RetryAfter int      `json:"retryAfter,omitempty"`
}

// Classify maps err onto the taxonomy; unknown errors are internal
func Classify(err error) Problem {
	if _, ok := domain.IsWeakPassword(err); ok {
		return Problem{KindValidation, CodeWeakPassword, "Password does not meet requirements"}
	}
	for _, p := range problems {
		if errors.Is(err, p.err) {
			return p.problem
		}
	}
	return internal
}

// Fail aborts the request with the classified error. Internal errors are
// attached to the gin context for the request logger and never echoed.
func Fail(c *gin.Context, err error) {
	p := Classify(err)
	body := Exception{Code: p.Code, Message: p.Message}
	if wp, ok := domain.IsWeakPassword(err); ok {
		body.Errors = wp.Violations
	}
	if p.Kind == KindInternal {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(p.Kind.Status(), body)
}

// RateLimited aborts with 429 and a retry hint in whole seconds
func RateLimited(c *gin.Context, retryAfter time.Duration) {
	p := Classify(domain.ErrRateLimited)
	c.AbortWithStatusJSON(p.Kind.Status(), Exception{
		Code:       p.Code,
		Message:    p.Message,
		RetryAfter: Seconds(retryAfter),
	})
}

// Seconds rounds a duration up to whole seconds, never below one
func Seconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// Success writes a success body; fields are merged next to "success": true
func Success(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}
