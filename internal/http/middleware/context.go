package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/you/shopauth/domain"
)

type ctxKey string

const (
	ctxIdentityKey ctxKey = "shopauth.identity"
	ctxSessionKey  ctxKey = "shopauth.session"
)

// WithIdentity attaches the authenticated principal to ctx
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}

// IdentityFrom returns the principal attached by the session middleware.
// Downstream subsystems read only this.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxIdentityKey).(domain.Identity)
	return id, ok
}

func withSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, ctxSessionKey, s)
}

// SessionFrom returns the validated session attached to ctx
func SessionFrom(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(ctxSessionKey).(*domain.Session)
	return s, ok && s != nil
}

func attach(c *gin.Context, s *domain.Session) {
	ctx := WithIdentity(c.Request.Context(), domain.Identity{UserID: s.UserID, SessionID: s.ID})
	c.Request = c.Request.WithContext(withSession(ctx, s))
}
