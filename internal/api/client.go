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
	"strings"
	"time"
)

// TokenStore provides the persisted session tokens attached to every
// request. Implementations must tolerate concurrent use.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string) error
	Clear()
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d) on %s %s: %s",
			e.StatusCode, e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("unexpected status %d on %s %s",
		e.StatusCode, e.Method, e.Path)
}

// AuthError indicates the session is no longer valid: the server
// returned 401 and the one-shot token refresh did not recover it.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an
// AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// errorBody is the conventional error payload shape.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client is a thin HTTP client for the ingestion server REST API. It
// handles Bearer token authentication, JSON marshaling, per-call
// timeouts, and a single transparent retry after refreshing an
// expired access token.
type Client struct {
	baseURL        string
	tokens         TokenStore
	httpClient     *http.Client
	logger         *slog.Logger
	defaultTimeout time.Duration
}

// NewClient creates a client rooted at baseURL. Timeouts are applied
// per call rather than on the http.Client, because individual
// operations carry their own ceilings (starting a sync is allowed far
// longer than checking its status).
func NewClient(baseURL string, tokens TokenStore, defaultTimeout time.Duration, logger *slog.Logger) *Client {
	if defaultTimeout <= 0 {
		defaultTimeout = 30 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		tokens:         tokens,
		httpClient:     &http.Client{},
		logger:         logger,
		defaultTimeout: defaultTimeout,
	}
}

// get performs a GET with the given per-call timeout (0 means the
// client default) and unmarshals the JSON response into result.
func (c *Client) get(ctx context.Context, path string, timeout time.Duration, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, timeout, nil, result)
}

// post performs a POST with a JSON body.
func (c *Client) post(ctx context.Context, path string, timeout time.Duration, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, timeout, body, result)
}

// put performs a PUT with a JSON body.
func (c *Client) put(ctx context.Context, path string, timeout time.Duration, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, timeout, body, result)
}

// delete performs a DELETE.
func (c *Client) delete(ctx context.Context, path string, timeout time.Duration) error {
	return c.do(ctx, http.MethodDelete, path, timeout, nil, nil)
}

// do runs one request with auth. On a 401 it attempts a single token
// refresh and replays the original request; a failed refresh clears
// the stored session and returns an AuthError so the caller can drop
// to the login boundary.
func (c *Client) do(ctx context.Context, method, path string, timeout time.Duration, body, result interface{}) error {
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := c.send(ctx, method, path, c.tokens.AccessToken(), body, result)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		if refreshErr := c.refreshTokens(ctx); refreshErr != nil {
			c.tokens.Clear()
			if c.logger != nil {
				c.logger.Warn("token refresh failed, session cleared",
					"error", refreshErr)
			}
			return &AuthError{Message: "session expired, please log in again"}
		}
		return c.send(ctx, method, path, c.tokens.AccessToken(), body, result)
	}

	return err
}

// send executes a single HTTP exchange with no retry logic.
func (c *Client) send(ctx context.Context, method, path, token string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
		}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			if eb.Message != "" {
				apiErr.Message = eb.Message
			} else if eb.Error != "" {
				apiErr.Message = eb.Error
			}
		}
		return apiErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w",
			method, path, err)
	}

	return nil
}

// refreshTokens exchanges the stored refresh token for a new access
// token. It bypasses do so a 401 here cannot recurse.
func (c *Client) refreshTokens(ctx context.Context) error {
	refresh := c.tokens.RefreshToken()
	if refresh == "" {
		return fmt.Errorf("no refresh token stored")
	}

	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	err := c.send(ctx, http.MethodPost, "/auth/refresh", "",
		map[string]string{"refreshToken": refresh}, &resp)
	if err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("refresh response carried no access token")
	}

	return c.tokens.SetTokens(resp.AccessToken, resp.RefreshToken)
}
