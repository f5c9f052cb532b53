package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/you/shopauth/domain"
	"github.com/you/shopauth/internal/http/cookie"
	"github.com/you/shopauth/internal/http/response"
)

// SessionMW resolves the session cookie into a request identity
type SessionMW struct {
	sessions domain.SessionService
	cookies  cookie.Transport
}

// NewSessionMW creates new session middleware wrapper
func NewSessionMW(sessions domain.SessionService, cookies cookie.Transport) *SessionMW {
	return &SessionMW{sessions: sessions, cookies: cookies}
}

// Require rejects requests without a live session with 401. An invalid or
// expired session also clears the cookie.
func (mw *SessionMW) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := mw.cookies.Read(c.Request)
		if token == "" {
			response.Fail(c, domain.ErrNoSession)
			return
		}

		session, err := mw.validate(c, token)
		if err != nil {
			if isDeadSession(err) {
				mw.cookies.Clear(c.Writer)
			}
			response.Fail(c, err)
			return
		}

		attach(c, session)
		c.Next()
	}
}

// Optional attaches the identity when a live session exists and otherwise
// lets the request through anonymously. A store failure is attached to the
// context for the request logger and the request continues without identity.
func (mw *SessionMW) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := mw.cookies.Read(c.Request)
		if token == "" {
			c.Next()
			return
		}

		session, err := mw.validate(c, token)
		switch {
		case err == nil:
			attach(c, session)
		case isDeadSession(err):
			mw.cookies.Clear(c.Writer)
		default:
			_ = c.Error(err)
		}
		c.Next()
	}
}

func (mw *SessionMW) validate(c *gin.Context, token string) (*domain.Session, error) {
	session, extended, err := mw.sessions.Validate(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	if extended {
		mw.cookies.Set(c.Writer, session.Token, session.ExpiresAt)
	}
	return session, nil
}

func isDeadSession(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired)
}
