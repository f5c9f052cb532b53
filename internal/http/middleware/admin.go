package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/you/shopauth/domain"
	"github.com/you/shopauth/internal/http/cookie"
	"github.com/you/shopauth/internal/http/response"
)

// AdminMW gates admin routes on the user's privilege; it must run after
// SessionMW.Require
type AdminMW struct {
	auth    domain.AuthService
	policy  domain.AdminPolicy
	cookies cookie.Transport
}

// NewAdminMW creates new admin middleware wrapper
func NewAdminMW(auth domain.AuthService, policy domain.AdminPolicy, cookies cookie.Transport) *AdminMW {
	return &AdminMW{auth: auth, policy: policy, cookies: cookies}
}

// Enforce loads the user behind the session and answers 403 unless the
// policy allows the route
func (mw *AdminMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c.Request.Context())
		if !ok {
			response.Fail(c, domain.ErrNoSession)
			return
		}

		user, err := mw.auth.CurrentUser(c.Request.Context(), session)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				mw.cookies.Clear(c.Writer)
			}
			response.Fail(c, err)
			return
		}

		allowed, err := mw.policy.Allowed(user, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			response.Fail(c, err)
			return
		}
		if !allowed {
			response.Fail(c, domain.ErrInsufficientPrivilege)
			return
		}
		c.Next()
	}
}
