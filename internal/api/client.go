package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/logging"
	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/tokenstore"
)

// refreshPath is the token refresh endpoint used when refresh-on-401 is enabled.
const refreshPath = "/auth/token/refresh/"

// Client sends JSON requests to the finance API.
type Client struct {
	baseURL               string
	store                 tokenstore.Store
	httpClient            *http.Client
	logger                *logging.Logger
	refreshOnUnauthorized bool

	refreshMu sync.Mutex // serializes refresh exchanges
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.WithComponent("api")
		}
	}
}

// WithRefreshOnUnauthorized enables a single refresh-token exchange and
// replay when an authenticated request returns 401.
func WithRefreshOnUnauthorized(enabled bool) Option {
	return func(c *Client) {
		c.refreshOnUnauthorized = enabled
	}
}

// NewClient creates a Client for baseURL backed by store.
// The HTTP client has no timeout; callers bound requests with their context.
func NewClient(baseURL string, store tokenstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		httpClient: &http.Client{},
		logger:     logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Store returns the token store the client reads credentials from.
func (c *Client) Store() tokenstore.Store {
	return c.store
}

// request describes one API call.
type request struct {
	method    string
	path      string
	query     url.Values
	body      any
	out       any
	anonymous bool // send without a bearer token and never refresh
}

// Get decodes the response of GET path?query into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, request{method: http.MethodGet, path: path, query: query, out: out})
}

// Post sends body as JSON and decodes the response into out. out may be nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, request{method: http.MethodPost, path: path, body: body, out: out})
}

// Put sends body as JSON and decodes the response into out. out may be nil.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, request{method: http.MethodPut, path: path, body: body, out: out})
}

// Delete issues DELETE path and discards the response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.send(ctx, request{method: http.MethodDelete, path: path})
}

func (c *Client) send(ctx context.Context, r request) error {
	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", r.method, r.path)
		}
	}

	status, body, err := c.roundTrip(ctx, r, payload)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if !r.anonymous && c.refreshOnUnauthorized && c.refresh(ctx) {
			status, body, err = c.roundTrip(ctx, r, payload)
			if err != nil {
				return err
			}
		}
		if status == http.StatusUnauthorized {
			c.clearTokens(ctx)
			return errors.ParseAPIError(status, body)
		}
	}

	if status < 200 || status > 299 {
		return errors.ParseAPIError(status, body)
	}

	if r.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, r.out); err != nil {
		return errors.Wrapf(err, "decode %s %s", r.method, r.path)
	}
	return nil
}

// roundTrip performs one HTTP exchange and returns the status and full body.
func (c *Client) roundTrip(ctx context.Context, r request, payload []byte) (int, []byte, error) {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, bodyReader)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "create request %s %s", r.method, r.path)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if !r.anonymous {
		tokens, ok, err := c.store.Read(ctx)
		if err != nil {
			c.logger.Warn("failed to read tokens, sending unauthenticated", "error", err.Error())
		} else if ok {
			req.Header.Set("Authorization", "Bearer "+tokens.Access)
		}
	}

	requestID := uuid.NewString()
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request",
			"request_id", requestID,
			"method", r.method,
			"path", r.path,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return 0, nil, errors.NewTransportError(r.method, r.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.NewTransportError(r.method, r.path, err)
	}

	c.logger.Debug("api request",
		"request_id", requestID,
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.StatusCode, body, nil
}

// refresh exchanges the stored refresh token for a new access token.
// It reports whether the exchange succeeded and new tokens were saved.
func (c *Client) refresh(ctx context.Context) bool {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	tokens, ok, err := c.store.Read(ctx)
	if err != nil || !ok || tokens.Refresh == "" {
		return false
	}

	var resp models.RefreshResponse
	err = c.send(ctx, request{
		method:    http.MethodPost,
		path:      refreshPath,
		body:      models.RefreshRequest{Refresh: tokens.Refresh},
		out:       &resp,
		anonymous: true,
	})
	if err != nil || resp.Access == "" {
		c.logger.Info("token refresh failed", "error", errors.Reduce(err))
		return false
	}

	next := models.Tokens{Access: resp.Access, Refresh: tokens.Refresh}
	if resp.Refresh != "" {
		next.Refresh = resp.Refresh
	}
	if err := c.store.Save(ctx, next); err != nil {
		c.logger.Error("failed to save refreshed tokens", "error", err.Error())
		return false
	}
	c.logger.Debug("access token refreshed")
	return true
}

func (c *Client) clearTokens(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("failed to clear tokens after 401", "error", err.Error())
	}
}
