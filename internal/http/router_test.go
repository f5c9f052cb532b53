package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/shopauth/internal/http/cookie"
	"github.com/you/shopauth/internal/http/handlers"
	"github.com/you/shopauth/internal/http/middleware"
	"github.com/you/shopauth/internal/logging"
	"github.com/you/shopauth/internal/mocks"
	"github.com/you/shopauth/internal/ratelimit"
	"github.com/you/shopauth/internal/services"
)

func testRouter(trusted []string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cookies := cookie.New("session_token", time.Hour, false)
	authSvc := mocks.NewMockAuthService()
	sessions := mocks.NewMockSessionService()
	store := ratelimit.NewMemoryStore()

	return BuildRouter(
		handlers.NewAuthHandlers(authSvc, services.NewPasswordPolicy(), cookies),
		handlers.NewAdminHandlers(sessions, mocks.NewMockAuditLogger()),
		middleware.NewSessionMW(sessions, cookies),
		middleware.NewAdminMW(authSvc, mocks.NewMockAdminPolicy(), cookies),
		Limiters{
			Auth:           ratelimit.New(store, ratelimit.Policy{Name: "auth", Window: time.Minute, Max: 2}),
			Catalog:        ratelimit.New(store, ratelimit.Policy{Name: "catalog", Window: time.Minute, Max: 100}),
			TrustedProxies: trusted,
		},
		logging.Discard(),
	)
}

// signinVia sends a sign-in from the proxy at 192.0.2.1 on behalf of client
func signinVia(r *gin.Engine, client string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
	req.RemoteAddr = "192.0.2.1:40000"
	req.Header.Set("X-Forwarded-For", client)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestBuildRouter_IgnoresForwardedForByDefault(t *testing.T) {
	r := testRouter(nil)

	// the mock body is empty, so allowed requests answer 400
	assert.Equal(t, http.StatusBadRequest, signinVia(r, "10.0.0.1"))
	assert.Equal(t, http.StatusBadRequest, signinVia(r, "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, signinVia(r, "10.0.0.3"))
}

func TestBuildRouter_TrustedProxyNamesTheClient(t *testing.T) {
	r := testRouter([]string{"192.0.2.0/24"})

	for _, client := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		require.Equal(t, http.StatusBadRequest, signinVia(r, client), client)
	}
	assert.Equal(t, http.StatusBadRequest, signinVia(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, signinVia(r, "10.0.0.1"))
}

func TestBuildRouter_InvalidTrustedProxiesFallBackToPeer(t *testing.T) {
	r := testRouter([]string{"not-an-address"})

	assert.Equal(t, http.StatusBadRequest, signinVia(r, "10.0.0.1"))
	assert.Equal(t, http.StatusBadRequest, signinVia(r, "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, signinVia(r, "10.0.0.3"))
}
