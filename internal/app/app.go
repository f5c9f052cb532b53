package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httpx "github.com/you/shopauth/internal/http"
	"github.com/you/shopauth/internal/http/handlers"
	"github.com/you/shopauth/internal/http/middleware"
)

const shutdownTimeout = 10 * time.Second

// Handler wires the HTTP surface on top of the container
func (c *Container) Handler() *gin.Engine {
	if c.Config.GinMode != "" {
		gin.SetMode(c.Config.GinMode)
	}

	authH := handlers.NewAuthHandlers(c.AuthSvc, c.Policy, c.Cookies)
	adminH := handlers.NewAdminHandlers(c.SessionSvc, c.Audit)

	sessionMW := middleware.NewSessionMW(c.SessionSvc, c.Cookies)
	adminMW := middleware.NewAdminMW(c.AuthSvc, c.AdminPolicy, c.Cookies)

	return httpx.BuildRouter(authH, adminH, sessionMW, adminMW, httpx.Limiters{
		Auth:           c.AuthLimiter,
		Catalog:        c.CatalogLimiter,
		TrustedProxies: c.Config.TrustedProxies,
	}, c.Log)
}

// Run serves HTTP and sweeps expired sessions until ctx is cancelled, then
// drains in-flight requests
func Run(ctx context.Context, c *Container) error {
	srv := &http.Server{
		Addr:              ":" + c.Config.Port,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go c.Sweeper.Run(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		c.Log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
