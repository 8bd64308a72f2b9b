// Package client implements the authenticated request wrapper shared by every
// Wasteless API binding: bearer-token attachment from the session store, one
// transparent refresh-and-retry cycle on an authorization failure, and a typed
// JSON decode boundary for callers that want one.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/wastelessapp/wasteless-go/session"
)

const defaultTimeout = 30 * time.Second

// Client performs logical HTTP calls against the Wasteless API.
//
// Callers of Do receive the raw response and decide how to interpret status
// codes and bodies; Do itself never fails on a non-2xx status. DoJSON adds the
// usual decode-or-APIError boundary on top.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      session.Store
	logger     zerolog.Logger
	refreshing singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request and refresh events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the given API base URL, persisting credentials in
// the given store.
func New(baseURL string, store session.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[client.New] base URL is required")
	}
	if store == nil {
		return nil, errors.New("[client.New] session store is required")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Store returns the session store the client reads credentials from.
func (c *Client) Store() session.Store {
	return c.store
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs one logical call: resolve the URL, attach the bearer token
// unless the call opted out, issue the request, and on a 401/403 perform at
// most one refresh-and-retry cycle. The returned response is never judged by
// status; closing its body is the caller's responsibility.
func (c *Client) Do(ctx context.Context, method, path string, options ...RequestOption) (*http.Response, error) {
	req, err := newRequest(options...)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Do] build request")
	}

	fullURL := c.resolveURL(path)
	if len(req.query) > 0 {
		sep := "?"
		if strings.Contains(fullURL, "?") {
			sep = "&"
		}
		fullURL += sep + req.query.Encode()
	}

	resp, err := c.issue(ctx, method, fullURL, req, c.bearerToken(req))
	if err != nil {
		return nil, err
	}

	if !req.auth || (resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden) {
		return resp, nil
	}

	// One refresh, one retry. If the refresh fails the original failing
	// response goes back to the caller unmodified, and if the retried
	// request fails with 401/403 again it is likewise returned as-is.
	if !c.Refresh(ctx) {
		return resp, nil
	}
	drainBody(resp)

	c.logger.Debug().Str("method", method).Str("url", fullURL).Msg("retrying request with refreshed token")
	return c.issue(ctx, method, fullURL, req, c.bearerToken(req))
}

// DoJSON performs the call via Do and decodes a 2xx JSON body into out (which
// may be nil for calls whose response body is irrelevant). Non-2xx responses
// become an *APIError carrying the server-provided message.
func (c *Client) DoJSON(ctx context.Context, method, path string, out any, options ...RequestOption) error {
	resp, err := c.Do(ctx, method, path, options...)
	if err != nil {
		return err
	}
	defer drainBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ParseError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[Client.DoJSON] decode %s %s response", method, path)
	}
	return nil
}

func (c *Client) issue(ctx context.Context, method, fullURL string, req *request, bearer string) (*http.Response, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.issue] new request %s %s", method, fullURL)
	}

	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("X-Request-Id", uuid.New().String())
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.issue] %s %s", method, fullURL)
	}

	c.logger.Debug().Str("method", method).Str("url", fullURL).Int("status", resp.StatusCode).Msg("request")
	return resp, nil
}

// bearerToken returns the access token to attach, or "" when the call opted
// out of auth or no token is stored. An empty return means no Authorization
// header at all; a malformed "Bearer " value is never sent.
func (c *Client) bearerToken(req *request) string {
	if !req.auth {
		return ""
	}
	return c.store.AccessToken()
}

func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
