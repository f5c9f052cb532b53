package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/shopauth/domain"
	"github.com/you/shopauth/internal/mocks"
)

func identityEcho(c *gin.Context) {
	id, ok := IdentityFrom(c.Request.Context())
	_, hasSession := SessionFrom(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"authenticated": ok,
		"userId":        id.UserID,
		"sessionId":     id.SessionID,
		"hasSession":    hasSession,
	})
}

func TestSessionMW_Require(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		token         string
		validate      func(ctx context.Context, token string) (*domain.Session, bool, error)
		expectedCode  int
		expectedError string
		clearsCookie  bool
		setsCookie    bool
	}{
		{
			name:          "missing cookie",
			expectedCode:  http.StatusUnauthorized,
			expectedError: "NO_SESSION",
		},
		{
			name:          "malformed cookie is treated as missing",
			token:         "not a token!",
			expectedCode:  http.StatusUnauthorized,
			expectedError: "NO_SESSION",
		},
		{
			name:  "unknown session clears the cookie",
			token: testToken,
			validate: func(ctx context.Context, token string) (*domain.Session, bool, error) {
				return nil, false, domain.ErrSessionNotFound
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "SESSION_NOT_FOUND",
			clearsCookie:  true,
		},
		{
			name:  "expired session clears the cookie",
			token: testToken,
			validate: func(ctx context.Context, token string) (*domain.Session, bool, error) {
				return nil, false, domain.ErrSessionExpired
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "SESSION_EXPIRED",
			clearsCookie:  true,
		},
		{
			name:  "store failure is internal and keeps the cookie",
			token: testToken,
			validate: func(ctx context.Context, token string) (*domain.Session, bool, error) {
				return nil, false, errors.New("database is locked")
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "INTERNAL_ERROR",
		},
		{
			name:  "live session passes through",
			token: testToken,
			validate: func(ctx context.Context, token string) (*domain.Session, bool, error) {
				return liveSession(), false, nil
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "extended session re-issues the cookie",
			token: testToken,
			validate: func(ctx context.Context, token string) (*domain.Session, bool, error) {
				return liveSession(), true, nil
			},
			expectedCode: http.StatusOK,
			setsCookie:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := mocks.NewMockSessionService()
			sessions.ValidateFunc = tt.validate
			mw := NewSessionMW(sessions, testCookies)

			r := gin.New()
			r.GET("/me", mw.Require(), identityEcho)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, requestWithCookie(http.MethodGet, "/me", tt.token))

			require.Equal(t, tt.expectedCode, rec.Code)
			body := decodeBody(t, rec)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["code"])
				assert.Equal(t, false, body["success"])
			} else {
				assert.Equal(t, true, body["authenticated"])
				assert.Equal(t, float64(42), body["userId"])
				assert.Equal(t, "session-1", body["sessionId"])
				assert.Equal(t, true, body["hasSession"])
			}

			c := findCookie(rec)
			switch {
			case tt.clearsCookie:
				require.NotNil(t, c)
				assert.Empty(t, c.Value)
				assert.Less(t, c.MaxAge, 0)
			case tt.setsCookie:
				require.NotNil(t, c)
				assert.Equal(t, testToken, c.Value)
				assert.Equal(t, int(testCookies.TTL.Seconds()), c.MaxAge)
			default:
				assert.Nil(t, c)
			}
		})
	}
}

func TestSessionMW_Optional(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("anonymous request passes through", func(t *testing.T) {
		sessions := mocks.NewMockSessionService()
		sessions.ValidateFunc = func(ctx context.Context, token string) (*domain.Session, bool, error) {
			t.Fatal("validate must not be called without a cookie")
			return nil, false, nil
		}
		r := gin.New()
		r.GET("/session", NewSessionMW(sessions, testCookies).Optional(), identityEcho)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, requestWithCookie(http.MethodGet, "/session", ""))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeBody(t, rec)["authenticated"])
	})

	t.Run("dead session is cleared and the request continues", func(t *testing.T) {
		sessions := mocks.NewMockSessionService()
		r := gin.New()
		r.GET("/session", NewSessionMW(sessions, testCookies).Optional(), identityEcho)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, requestWithCookie(http.MethodGet, "/session", testToken))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeBody(t, rec)["authenticated"])
		c := findCookie(rec)
		require.NotNil(t, c)
		assert.Less(t, c.MaxAge, 0)
	})

	t.Run("live session attaches the identity", func(t *testing.T) {
		sessions := mocks.NewMockSessionService()
		sessions.ValidateFunc = func(ctx context.Context, token string) (*domain.Session, bool, error) {
			assert.Equal(t, testToken, token)
			return liveSession(), false, nil
		}
		r := gin.New()
		r.GET("/session", NewSessionMW(sessions, testCookies).Optional(), identityEcho)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, requestWithCookie(http.MethodGet, "/session", testToken))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, float64(42), body["userId"])
	})

	t.Run("store failure continues anonymously", func(t *testing.T) {
		sessions := mocks.NewMockSessionService()
		sessions.ValidateFunc = func(ctx context.Context, token string) (*domain.Session, bool, error) {
			return nil, false, errors.New("connection refused")
		}

		var recorded []string
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Next()
			for _, e := range c.Errors {
				recorded = append(recorded, e.Error())
			}
		})
		r.GET("/session", NewSessionMW(sessions, testCookies).Optional(), identityEcho)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, requestWithCookie(http.MethodGet, "/session", testToken))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeBody(t, rec)["authenticated"])
		assert.Equal(t, []string{"connection refused"}, recorded)
		// the cookie may still be good once the store recovers
		assert.Nil(t, findCookie(rec))
	})
}

func TestIdentityFrom_Empty(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	_, ok = SessionFrom(withSession(context.Background(), nil))
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), domain.Identity{UserID: 7, SessionID: "s"})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(7), id.UserID)
}
