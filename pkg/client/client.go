// Package client is a typed Go SDK for the practice API. It attaches the
// session token to every authenticated call and transparently refreshes it
// when the server answers 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds every HTTP call.
const DefaultTimeout = 10 * time.Second

// Client talks to the API on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	mu        sync.RWMutex
	token     string
	deadToken string
	onSession func(*AuthResult)
	onExpired func(error)

	refreshes singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken seeds the session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger used for refresh diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current session token, empty when anonymous.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the session token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.deadToken = ""
	c.mu.Unlock()
}

// OnSessionChange registers callbacks fired after a refresh succeeds or
// fails. Either may be nil.
func (c *Client) OnSessionChange(refreshed func(*AuthResult), expired func(error)) {
	c.mu.Lock()
	c.onSession = refreshed
	c.onExpired = expired
	c.mu.Unlock()
}

type request struct {
	method   string
	path     string
	query    url.Values
	body     any
	header   http.Header
	auth     bool
	bearer   string
	envelope bool
}

// do sends req and decodes the response into out. An authenticated call that
// fails with 401 triggers one coalesced refresh and a single retry.
func (c *Client) do(ctx context.Context, req request, out any) (int, error) {
	if !req.auth {
		return c.send(ctx, req, req.bearer, out)
	}

	token := c.Token()
	status, err := c.send(ctx, req, token, out)
	if status != http.StatusUnauthorized || token == "" {
		return status, err
	}

	res, rerr := c.refreshAfter(ctx, token)
	if rerr != nil {
		return status, rerr
	}
	return c.send(ctx, req, res.Token, out)
}

// refreshAfter returns the session to retry with after failed was rejected.
// Concurrent callers share one refresh; a caller whose token was already
// replaced gets the replacement without refreshing again.
func (c *Client) refreshAfter(ctx context.Context, failed string) (*AuthResult, error) {
	if res, done, err := c.settled(failed); done {
		return res, err
	}

	v, err, _ := c.refreshes.Do("refresh", func() (any, error) {
		if res, done, err := c.settled(failed); done {
			return res, err
		}

		res, err := c.refresh(context.WithoutCancel(ctx), failed)

		// The outcome only applies to the session it was started for. A
		// logout or a new login while the request was in flight wins.
		c.mu.Lock()
		current := c.token
		if current != failed {
			c.mu.Unlock()
			c.log.Debug().Bool("refreshed", err == nil).Msg("session changed during refresh, discarding result")
			if current == "" {
				return nil, &Error{Kind: ErrUnauthorized, Status: http.StatusUnauthorized, Message: "Session ended"}
			}
			return &AuthResult{Token: current}, nil
		}
		if err != nil {
			c.token = ""
			c.deadToken = failed
			expired := c.onExpired
			c.mu.Unlock()

			c.log.Warn().Err(err).Msg("session refresh failed")
			if expired != nil {
				expired(err)
			}
			return nil, err
		}
		c.token = res.Token
		refreshed := c.onSession
		c.mu.Unlock()

		c.log.Debug().Time("expires_at", res.ExpiresAt).Msg("session refreshed")
		if refreshed != nil {
			refreshed(res)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*AuthResult), nil
}

// settled reports whether the outcome of a refresh for failed is already known.
func (c *Client) settled(failed string) (*AuthResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch {
	case c.token != "" && c.token != failed:
		return &AuthResult{Token: c.token}, true, nil
	case c.deadToken != "" && c.deadToken == failed:
		return nil, true, &Error{Kind: ErrUnauthorized, Status: http.StatusUnauthorized, Message: "Session expired"}
	}
	return nil, false, nil
}

func (c *Client) refresh(ctx context.Context, token string) (*AuthResult, error) {
	var res AuthResult
	if _, err := c.send(ctx, request{
		method:   http.MethodPost,
		path:     "/auth/refresh-token",
		envelope: true,
	}, token, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RefreshSession exchanges the current token for a new one, sharing the
// coalescing of the automatic 401 path. User is nil when another caller had
// already replaced the token.
func (c *Client) RefreshSession(ctx context.Context) (*AuthResult, error) {
	token := c.Token()
	if token == "" {
		return nil, &Error{Kind: ErrUnauthorized, Message: "No token available for refresh"}
	}
	return c.refreshAfter(ctx, token)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) send(ctx context.Context, req request, token string, out any) (int, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range req.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, networkError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, &Error{
			Kind:    kindFor(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: errorMessage(resp, raw),
		}
	}

	if out == nil || len(raw) == 0 {
		return resp.StatusCode, nil
	}
	if req.envelope {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
		if !env.Success || len(env.Data) == 0 {
			msg := env.Error
			if msg == "" {
				msg = env.Message
			}
			if msg == "" {
				msg = "API request failed"
			}
			return resp.StatusCode, &Error{Kind: ErrServer, Status: resp.StatusCode, Message: msg}
		}
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// errorMessage prefers the body's error text, then its message.
func errorMessage(resp *http.Response, raw []byte) string {
	var env envelope
	if json.Unmarshal(raw, &env) == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
