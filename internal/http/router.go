package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/you/shopauth/internal/http/handlers"
	"github.com/you/shopauth/internal/http/middleware"
	"github.com/you/shopauth/internal/logging"
	"github.com/you/shopauth/internal/ratelimit"
)

// Limiters holds the per endpoint class rate limit policies and the proxies
// allowed to name the client address limits are keyed by
type Limiters struct {
	Auth           *ratelimit.Limiter
	Catalog        *ratelimit.Limiter
	TrustedProxies []string
}

// BuildRouter wires the auth routes. Credential endpoints sit behind the
// strict auth limiter, everything else under /api behind the catalog one.
func BuildRouter(
	ah *handlers.AuthHandlers,
	adh *handlers.AdminHandlers,
	sessmw *middleware.SessionMW,
	adminmw *middleware.AdminMW,
	limits Limiters,
	log logrus.FieldLogger,
) *gin.Engine {
	r := gin.New()
	// forwarding headers count only when the peer is a listed proxy
	if err := r.SetTrustedProxies(limits.TrustedProxies); err != nil {
		log.WithError(err).Warn("invalid trusted proxies, using the socket peer as client address")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), logging.GinMiddleware(log))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	strict := middleware.RateLimit(limits.Auth, log)
	browse := middleware.RateLimit(limits.Catalog, log)

	api := r.Group("/api", browse)

	auth := api.Group("/auth")
	auth.POST("/register", strict, ah.Register)
	auth.POST("/signin", strict, ah.SignIn)
	auth.POST("/signout", ah.SignOut)
	auth.POST("/password-strength", ah.PasswordStrength)
	auth.GET("/session", sessmw.Optional(), ah.Session)

	me := auth.Group("/", sessmw.Require())
	me.GET("/me", ah.Me)
	me.POST("/signout-all", ah.SignOutAll)
	me.POST("/change-password", strict, ah.ChangePassword)

	adm := api.Group("/admin", sessmw.Require(), adminmw.Enforce())
	adm.POST("/sessions/sweep", adh.SweepSessions)
	adm.DELETE("/users/:id/sessions", adh.RevokeUserSessions)

	return r
}
