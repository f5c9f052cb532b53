// Package e2e drives the full HTTP surface against a real container.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/you/shopauth/internal/app"
	"github.com/you/shopauth/internal/logging"
	testconfig "github.com/you/shopauth/internal/tests/config"
)

// TestServer wraps the HTTP test server with E2E testing capabilities
type TestServer struct {
	Server    *httptest.Server
	Container *app.Container
	BaseURL   string
}

// NewTestServer builds a container from the test configuration and serves
// its router until the test ends
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	cfg := testconfig.LoadTestConfig(t)
	container, err := app.NewContainer(context.Background(), cfg, logging.Discard())
	require.NoError(t, err, "failed to build container")

	server := httptest.NewServer(container.Handler())
	t.Cleanup(func() {
		server.Close()
		_ = container.Close()
	})

	return &TestServer{
		Server:    server,
		Container: container,
		BaseURL:   server.URL,
	}
}

// Response is a decoded API response
type Response struct {
	Status  int
	Header  http.Header
	Cookies []*http.Cookie
	Body    map[string]interface{}
	Raw     string
}

// Code returns the error code of a failure body
func (r *Response) Code() string {
	code, _ := r.Body["code"].(string)
	return code
}

// SessionCookie returns the session cookie set by the response, if any
func (r *Response) SessionCookie(name string) *http.Cookie {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Client is a browser-like client with its own cookie jar
type Client struct {
	t    *testing.T
	base string
	http *http.Client
}

// NewClient creates a client with an empty cookie jar
func (s *TestServer) NewClient(t *testing.T) *Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Client{
		t:    t,
		base: s.BaseURL,
		http: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

// SetCookie stores c in the jar as if the server had set it
func (c *Client) SetCookie(cookie *http.Cookie) {
	c.t.Helper()

	u, err := url.Parse(c.base)
	require.NoError(c.t, err)
	c.http.Jar.SetCookies(u, []*http.Cookie{cookie})
}

// Do sends a JSON request and decodes the JSON response
func (c *Client) Do(method, path string, body interface{}) *Response {
	c.t.Helper()
	return c.DoWithHeader(method, path, body, nil)
}

// DoWithHeader is Do with extra request headers
func (c *Client) DoWithHeader(method, path string, body interface{}, header http.Header) *Response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "shopauth-e2e")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	out := &Response{
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Cookies: resp.Cookies(),
		Raw:     string(raw),
	}
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &out.Body), "response is not JSON: %s", raw)
	}
	return out
}
