package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/you/shopauth/domain"
	"github.com/you/shopauth/internal/http/cookie"
)

const testToken = "dGVzdC1zZXNzaW9uLXRva2VuLWZvci1taWRkbGV3YXJl"

var testCookies = cookie.New("session_token", 7*24*time.Hour, false)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func liveSession() *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        "session-1",
		UserID:    42,
		Token:     testToken,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
		CreatedAt: now,
	}
}

func requestWithCookie(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookies.Name, Value: token})
	}
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// findCookie returns the Set-Cookie entry for the session cookie, if any
func findCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookies.Name {
			return c
		}
	}
	return nil
}
