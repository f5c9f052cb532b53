// Package cookie carries the session bearer token in an HTTP cookie.
package cookie

import (
	"net/http"
	"time"
)

// DefaultName is the cookie name used when none is configured
const DefaultName = "session_token"

const maxTokenLength = 256

// Transport writes and reads the session cookie with a fixed security posture:
// HttpOnly, SameSite=Strict, Path=/, Partitioned, and Secure when configured.
type Transport struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// New creates a transport; Secure should be true only behind HTTPS
func New(name string, ttl time.Duration, secure bool) Transport {
	if name == "" {
		name = DefaultName
	}
	return Transport{Name: name, TTL: ttl, Secure: secure}
}

// Set issues the cookie for token with Max-Age equal to the session TTL
func (t Transport) Set(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:        t.Name,
		Value:       token,
		Path:        "/",
		Expires:     expiresAt.UTC(),
		MaxAge:      int(t.TTL / time.Second),
		HttpOnly:    true,
		Secure:      t.Secure,
		SameSite:    http.SameSiteStrictMode,
		Partitioned: true,
	})
}

// Clear overwrites the cookie with an empty value and Max-Age=0
func (t Transport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:        t.Name,
		Value:       "",
		Path:        "/",
		Expires:     time.Unix(0, 0).UTC(),
		MaxAge:      -1,
		HttpOnly:    true,
		Secure:      t.Secure,
		SameSite:    http.SameSiteStrictMode,
		Partitioned: true,
	})
}

// Read returns the token carried by the request, or "" when the cookie is
// missing or does not look like a token
func (t Transport) Read(r *http.Request) string {
	c, err := r.Cookie(t.Name)
	if err != nil {
		return ""
	}
	if !wellFormed(c.Value) {
		return ""
	}
	return c.Value
}

func wellFormed(v string) bool {
	if v == "" || len(v) > maxTokenLength {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
