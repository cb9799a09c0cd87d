// Package api is the single chokepoint for talking to the portal's REST
// surface. The Client attaches the session token to every call and turns a
// 401 into a forced sign-out; the per-resource services (auth, blog, doctor)
// translate typed operations into endpoints and classify every failure into
// the closed error taxonomy, so nothing above this package ever inspects an
// HTTP status code.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/nhatpm-sg/medical/internal/metrics"
	"github.com/nhatpm-sg/medical/internal/platform/correlation"
	"github.com/nhatpm-sg/medical/internal/session"
)

// Navigator is invoked when the server rejects the session and the user must
// be sent back to sign-in. In the web portal this is a location change; in a
// CLI it prints the sign-in hint.
type Navigator interface {
	RedirectToSignIn()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

func (f NavigatorFunc) RedirectToSignIn() { f() }

// Client performs all outgoing portal API calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      session.Store
	nav        Navigator
	clock      clockwork.Clock

	// signOutMu makes the token-check-then-clear on 401 atomic, so any
	// number of concurrent 401s produce exactly one redirect.
	signOutMu sync.Mutex
}

type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client, e.g. to set a timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithNavigator sets the forced sign-out handler.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// WithClock injects the clock used for latency measurement.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// NewClient creates a Client for the API rooted at baseURL (e.g.
// "http://localhost:8080/api").
func NewClient(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		store:      store,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do performs one API call. It attaches the bearer token when a session
// exists and intercepts 401 responses; every other status, 2xx or not, is
// returned unchanged for the calling service to classify. There are no
// retries: a failed call fails.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindNetwork, Message: "failed to encode request body", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	if token, ok := c.store.Token(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	ctx = correlation.Stamp(ctx, req)

	start := c.clock.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := c.clock.Since(start)

	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "error").Inc()
		slog.WarnContext(ctx, "API request failed", "method", method, "path", path, "duration", elapsed, "error", err)
		return nil, networkError(err)
	}

	metrics.RequestsTotal.WithLabelValues(method, statusClass(resp.StatusCode)).Inc()
	metrics.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	slog.DebugContext(ctx, "API request completed", "method", method, "path", path, "status", resp.StatusCode, "duration", elapsed)

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.expireSession(ctx)
		return nil, authError()
	}

	return resp, nil
}

// expireSession clears the session and triggers the sign-in redirect. Only
// the call that actually transitions the store from signed-in to signed-out
// redirects; concurrent 401s after that are no-ops.
func (c *Client) expireSession(ctx context.Context) {
	c.signOutMu.Lock()
	hadToken := c.store.HasToken(ctx)
	if hadToken {
		if err := c.store.Clear(ctx); err != nil {
			slog.ErrorContext(ctx, "Failed to clear rejected session", "error", err)
		}
	}
	c.signOutMu.Unlock()

	if !hadToken {
		return
	}

	metrics.SessionExpirations.Inc()
	slog.InfoContext(ctx, "Session rejected by server, signing out")
	if c.nav != nil {
		c.nav.RedirectToSignIn()
	}
}

func statusClass(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
