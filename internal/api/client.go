// Package api is the HTTP client for the CAPE backend. Every call decodes
// the backend's response envelope and surfaces server-reported errors as
// typed values; the client performs no retries of its own.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cape-app/cape/internal/common"
)

// TokenProvider supplies the bearer token for authenticated requests.
// An empty token with a nil error means "no session"; public endpoints
// are fine with that, authenticated ones will get a 401 back.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client talks to the CAPE backend.
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
}

// NewClient creates a client for the given backend origin.
func NewClient(baseURL string, tokens TokenProvider) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: api.base_url is required", common.ErrMissingConfig)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", common.ErrInvalidConfig, baseURL, err)
	}

	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Error is a server-reported application error from the response envelope.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

// Unwrap maps the HTTP status onto the shared sentinels so callers can
// branch with errors.Is.
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrForbidden
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusTooManyRequests:
		return common.ErrRateLimit
	default:
		return common.ErrAPI
	}
}

// Message extracts the server-provided message from an error chain,
// falling back to the given string. Toasts are built through this.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Pagination describes a paginated list response.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// envelope is the fixed response shape of every backend endpoint.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      *Error          `json:"error"`
	Pagination *Pagination     `json:"pagination"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (*Pagination, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) (*Pagination, error) {
	return c.do(ctx, method, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (*Pagination, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if decErr := json.NewDecoder(resp.Body).Decode(&env); decErr != nil {
		if resp.StatusCode >= 400 {
			return nil, &Error{Message: http.StatusText(resp.StatusCode), StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, decErr)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := env.Error
		if apiErr == nil {
			apiErr = &Error{Message: http.StatusText(resp.StatusCode)}
		}
		apiErr.StatusCode = resp.StatusCode
		slog.Debug("API request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"code", apiErr.Code)
		return nil, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode data from %s: %w", path, err)
		}
	}

	return env.Pagination, nil
}
