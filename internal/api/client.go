// Package api is the client for the OmniNews HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"omninews/internal/core"
	"omninews/internal/models"
)

const maxBodySize = 10 << 20

// Credentials is the token storage the client authenticates with
type Credentials interface {
	AccessToken(ctx context.Context) (string, bool, error)
	RefreshCredentials(ctx context.Context) (token, email string, ok bool, err error)
	SetAccessToken(ctx context.Context, token string) error
	Expire(ctx context.Context) error
}

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// HTTPClient overrides the client built from Timeout
	HTTPClient *http.Client

	// OnSessionExpired runs after a session could not be refreshed and has
	// been cleared. The shell uses it to send the user to the login view.
	OnSessionExpired func(ctx context.Context)
}

// Client sends authenticated requests and refreshes the access token once
// when the API answers 401.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     Credentials
	userAgent string
	onExpired func(ctx context.Context)
	logger    *core.Logger
}

// NewClient creates a client for the API at opts.BaseURL
func NewClient(creds Credentials, opts Options, logger *core.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = core.DefaultAPIBaseURL
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "OmniNews-Client/1.0"
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		creds:     creds,
		userAgent: userAgent,
		onExpired: opts.OnSessionExpired,
		logger:    logger.ForFeature("api"),
	}
}

// BaseURL returns the API root requests are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method string
	path   string
	query  url.Values
	body   []byte
}

// Do sends one logical call. body is encoded as JSON when non-nil and the
// response is decoded into out when out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req := request{method: method, path: path, query: query}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", method, path, err)
		}
		req.body = encoded
	}

	return c.execute(ctx, req, out, 0, "")
}

// Get is Do for GET requests
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post is Do for POST requests
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put is Do for PUT requests
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete is Do for DELETE requests. The API takes DELETE bodies as JSON.
func (c *Client) Delete(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, body, out)
}

// execute runs attempt number attempt of req. The first attempt reads the
// token from storage; the retry carries the freshly refreshed token.
func (c *Client) execute(ctx context.Context, req request, out any, attempt int, token string) error {
	if attempt == 0 {
		stored, ok, err := c.creds.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to read access token: %w", err)
		}
		if ok {
			token = stored
		}
	}

	status, body, err := c.roundTrip(ctx, req, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && attempt == 0 {
		return c.refreshAndRetry(ctx, req, out, newStatusError(req.method, req.path, status, body))
	}

	if status < 200 || status >= 300 {
		return newStatusError(req.method, req.path, status, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return core.NewUpstreamError("The server sent an unexpected response", fmt.Errorf("decode %s %s: %w", req.method, req.path, err))
	}
	return nil
}

func (c *Client) refreshAndRetry(ctx context.Context, req request, out any, unauthorized *StatusError) error {
	refreshToken, email, ok, err := c.creds.RefreshCredentials(ctx)
	if err != nil {
		return fmt.Errorf("failed to read refresh credentials: %w", err)
	}
	if !ok {
		c.logger.Info("No refresh credentials, ending session", "path", req.path)
		c.expire(ctx)
		return fmt.Errorf("%w: %w", ErrSessionExpired, unauthorized)
	}

	newToken, err := c.refresh(ctx, refreshToken, email)
	if err != nil {
		c.logger.Warn("Token refresh failed, ending session", "path", req.path, "error", err)
		c.expire(ctx)
		return fmt.Errorf("%w: refresh failed (%v): %w", ErrSessionExpired, err, unauthorized)
	}

	if err := c.creds.SetAccessToken(ctx, newToken); err != nil {
		return fmt.Errorf("failed to store refreshed token: %w", err)
	}

	c.logger.Debug("Access token refreshed, retrying", "method", req.method, "path", req.path)
	return c.execute(ctx, req, out, 1, newToken)
}

// refresh exchanges the refresh token for a new access token. It bypasses
// execute so a failing refresh is never itself refreshed.
func (c *Client) refresh(ctx context.Context, refreshToken, email string) (string, error) {
	payload, err := json.Marshal(models.RefreshTokenRequest{Token: refreshToken, Email: email})
	if err != nil {
		return "", err
	}

	req := request{method: http.MethodPost, path: "/user/refresh-token", body: payload}
	status, body, err := c.roundTrip(ctx, req, "")
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", newStatusError(req.method, req.path, status, body)
	}

	var resp models.RefreshTokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("refresh response carried no access token")
	}
	return resp.AccessToken, nil
}

func (c *Client) expire(ctx context.Context) {
	if err := c.creds.Expire(ctx); err != nil {
		c.logger.Error("Failed to clear expired session", "error", err)
	}
	if c.onExpired != nil {
		c.onExpired(ctx)
	}
}

func (c *Client) roundTrip(ctx context.Context, req request, token string) (int, []byte, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build %s %s: %w", req.method, req.path, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, core.NewUpstreamError("The OmniNews service could not be reached", fmt.Errorf("%s %s: %w", req.method, req.path, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, core.NewUpstreamError("The OmniNews service sent an incomplete response", fmt.Errorf("%s %s: %w", req.method, req.path, err))
	}

	c.logger.Debug("API request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	return resp.StatusCode, respBody, nil
}
