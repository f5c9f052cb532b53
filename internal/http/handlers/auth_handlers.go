package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/shopauth/domain"
	"github.com/you/shopauth/internal/http/cookie"
	"github.com/you/shopauth/internal/http/middleware"
	"github.com/you/shopauth/internal/http/response"
)

// AuthHandlers handles the storefront sign-in flows
type AuthHandlers struct {
	authSvc domain.AuthService
	policy  domain.PasswordPolicy
	cookies cookie.Transport
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, policy domain.PasswordPolicy, cookies cookie.Transport) *AuthHandlers {
	return &AuthHandlers{
		authSvc: authSvc,
		policy:  policy,
		cookies: cookies,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// SignInRequest represents sign-in request
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PasswordStrengthRequest represents a strength check request
type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

func metadata(c *gin.Context) domain.SessionMetadata {
	return domain.SessionMetadata{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Fail(c, response.ErrInvalidRequest)
		return false
	}
	return true
}

// Register handles account creation and signs the new user in
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.authSvc.Register(c.Request.Context(), domain.Registration{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}, metadata(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	h.cookies.Set(c.Writer, res.Session.Token, res.Session.ExpiresAt)
	response.Success(c, http.StatusCreated, gin.H{"user": res.User.Public()})
}

// SignIn handles email and password sign-in
func (h *AuthHandlers) SignIn(c *gin.Context) {
	var req SignInRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.authSvc.SignIn(c.Request.Context(), req.Email, req.Password, metadata(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	h.cookies.Set(c.Writer, res.Session.Token, res.Session.ExpiresAt)
	response.Success(c, http.StatusOK, gin.H{"user": res.User.Public()})
}

// SignOut ends the current session. The cookie is cleared whether or not a
// session was found.
func (h *AuthHandlers) SignOut(c *gin.Context) {
	err := h.authSvc.SignOut(c.Request.Context(), h.cookies.Read(c.Request))
	h.cookies.Clear(c.Writer)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

// Me returns the signed-in user
func (h *AuthHandlers) Me(c *gin.Context) {
	session, ok := middleware.SessionFrom(c.Request.Context())
	if !ok {
		response.Fail(c, domain.ErrNoSession)
		return
	}

	user, err := h.authSvc.CurrentUser(c.Request.Context(), session)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.cookies.Clear(c.Writer)
		}
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user.Public()})
}

// Session reports whether the request carries a live session
func (h *AuthHandlers) Session(c *gin.Context) {
	_, ok := middleware.IdentityFrom(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"authenticated": ok})
}

// SignOutAll revokes every session of the signed-in user, this one included
func (h *AuthHandlers) SignOutAll(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c.Request.Context())
	if !ok {
		response.Fail(c, domain.ErrNoSession)
		return
	}

	revoked, err := h.authSvc.SignOutEverywhere(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.cookies.Clear(c.Writer)
	response.Success(c, http.StatusOK, gin.H{"revoked": revoked})
}

// ChangePassword replaces the password and signs out other devices
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c.Request.Context())
	if !ok {
		response.Fail(c, domain.ErrNoSession)
		return
	}

	var req ChangePasswordRequest
	if !bind(c, &req) {
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), identity, req.CurrentPassword, req.NewPassword); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

// PasswordStrength scores a candidate password with the enforcement rules
func (h *AuthHandlers) PasswordStrength(c *gin.Context) {
	var req PasswordStrengthRequest
	if !bind(c, &req) {
		return
	}

	result := h.policy.ValidateStrength(req.Password)
	response.Success(c, http.StatusOK, gin.H{
		"valid":    result.Valid,
		"strength": result.Strength,
		"score":    result.Score,
		"errors":   result.Errors,
	})
}
