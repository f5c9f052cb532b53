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

func withTestSession(c *gin.Context) {
	attach(c, liveSession())
	c.Next()
}

func TestAdminMW_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		withSession   bool
		currentUser   func(ctx context.Context, s *domain.Session) (*domain.User, error)
		allowed       func(user *domain.User, resource, action string) (bool, error)
		expectedCode  int
		expectedError string
		clearsCookie  bool
	}{
		{
			name:          "no session in context",
			expectedCode:  http.StatusUnauthorized,
			expectedError: "NO_SESSION",
		},
		{
			name:        "customer is forbidden",
			withSession: true,
			currentUser: func(ctx context.Context, s *domain.Session) (*domain.User, error) {
				return &domain.User{ID: s.UserID, Status: domain.StatusActive}, nil
			},
			expectedCode:  http.StatusForbidden,
			expectedError: "INSUFFICIENT_PRIVILEGE",
		},
		{
			name:        "admin passes",
			withSession: true,
			currentUser: func(ctx context.Context, s *domain.Session) (*domain.User, error) {
				return &domain.User{ID: s.UserID, Status: domain.StatusActive, IsAdmin: true}, nil
			},
			expectedCode: http.StatusOK,
		},
		{
			name:        "orphaned session clears the cookie",
			withSession: true,
			currentUser: func(ctx context.Context, s *domain.Session) (*domain.User, error) {
				return nil, domain.ErrUserNotFound
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "USER_NOT_FOUND",
			clearsCookie:  true,
		},
		{
			name:        "policy failure is internal",
			withSession: true,
			currentUser: func(ctx context.Context, s *domain.Session) (*domain.User, error) {
				return &domain.User{ID: s.UserID, IsAdmin: true}, nil
			},
			allowed: func(user *domain.User, resource, action string) (bool, error) {
				return false, errors.New("model not loaded")
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			authSvc.CurrentUserFunc = tt.currentUser
			policy := mocks.NewMockAdminPolicy()
			policy.AllowedFunc = tt.allowed

			var seenResource, seenAction string
			if tt.allowed == nil {
				policy.AllowedFunc = func(user *domain.User, resource, action string) (bool, error) {
					seenResource, seenAction = resource, action
					return user.IsAdmin, nil
				}
			}

			chain := []gin.HandlerFunc{}
			if tt.withSession {
				chain = append(chain, withTestSession)
			}
			chain = append(chain, NewAdminMW(authSvc, policy, testCookies).Enforce(), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"success": true})
			})

			r := gin.New()
			r.POST("/api/admin/sessions/sweep", chain...)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/sessions/sweep", nil))

			require.Equal(t, tt.expectedCode, rec.Code)
			body := decodeBody(t, rec)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["code"])
			}
			if tt.expectedCode == http.StatusOK || tt.expectedCode == http.StatusForbidden {
				assert.Equal(t, "/api/admin/sessions/sweep", seenResource)
				assert.Equal(t, http.MethodPost, seenAction)
			}

			c := findCookie(rec)
			if tt.clearsCookie {
				require.NotNil(t, c)
				assert.Less(t, c.MaxAge, 0)
			} else {
				assert.Nil(t, c)
			}
		})
	}
}
