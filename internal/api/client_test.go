package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtran/maildash/internal/logging"
)

// memoryTokens is an in-memory TokenStore for tests.
type memoryTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	cleared bool
}

func (m *memoryTokens) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memoryTokens) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memoryTokens) SetTokens(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	if refresh != "" {
		m.refresh = refresh
	}
	return nil
}

func (m *memoryTokens) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	m.cleared = true
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *memoryTokens) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &memoryTokens{access: "valid-token", refresh: "refresh-token"}
	return NewClient(srv.URL, tokens, 5*time.Second, logging.Null()), tokens
}

func TestRequestCarriesBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(CommandResponse{Message: "ok"})
	}))

	_, err := client.StartSync(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer valid-token", gotAuth)
}

func TestSyncEndpointPaths(t *testing.T) {
	type call struct{ method, path string }
	var calls []call

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		json.NewEncoder(w).Encode(map[string]any{
			"message": "ok", "success": true, "status": "RUNNING",
		})
	}))

	ctx := context.Background()
	_, err := client.StartSync(ctx, "a1")
	require.NoError(t, err)
	_, err = client.PauseSync(ctx, "a1")
	require.NoError(t, err)
	_, err = client.ResumeSync(ctx, "a1")
	require.NoError(t, err)
	_, err = client.GetSyncStatus(ctx, "a1")
	require.NoError(t, err)
	_, err = client.TestConnection(ctx, "a1")
	require.NoError(t, err)
	_, err = client.TestEmails(ctx, "a1")
	require.NoError(t, err)

	assert.Equal(t, []call{
		{http.MethodPost, "/sync/start/a1"},
		{http.MethodPost, "/sync/pause/a1"},
		{http.MethodPost, "/sync/resume/a1"},
		{http.MethodGet, "/sync/status/a1"},
		{http.MethodGet, "/sync/test/a1"},
		{http.MethodGet, "/sync/test-emails/a1"},
	}, calls)
}

func TestServerErrorSurfacesMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "sync already running"})
	}))

	_, err := client.StartSync(context.Background(), "a1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "sync already running", apiErr.Message)
	assert.False(t, IsAuthError(err))
}

func TestExpiredTokenRefreshesOnce(t *testing.T) {
	var refreshed bool
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshed = true
			json.NewEncoder(w).Encode(map[string]string{
				"accessToken":  "fresh-token",
				"refreshToken": "fresh-refresh",
			})
		case "/sync/status/a1":
			if r.Header.Get("Authorization") != "Bearer fresh-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "COMPLETED"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	status, err := client.GetSyncStatus(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Equal(t, "COMPLETED", string(status.State))
	assert.Equal(t, "fresh-token", tokens.AccessToken())
	assert.Equal(t, "fresh-refresh", tokens.RefreshToken())
}

func TestFailedRefreshClearsSession(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Both the original request and the refresh are rejected.
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
	}))

	_, err := client.GetSyncStatus(context.Background(), "a1")
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.True(t, tokens.cleared)
	assert.False(t, client.HasSession())
}

func TestLoginStoresTokens(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"user":         map[string]string{"email": creds["email"]},
			"accessToken":  "session-token",
			"refreshToken": "session-refresh",
		})
	}))
	tokens.access = ""
	tokens.refresh = ""

	user, err := client.Login(context.Background(), "dev@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", user.Email)
	assert.Equal(t, "session-token", tokens.AccessToken())
	assert.True(t, client.HasSession())
}

func TestLoginRejectionIsNotASessionExpiry(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
	}))
	tokens.access = ""

	_, err := client.Login(context.Background(), "dev@example.com", "wrong")
	require.Error(t, err)

	// Bad credentials are an APIError, never an AuthError, so the app
	// stays on the login form instead of looping through teardown.
	assert.False(t, IsAuthError(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestLogout(t *testing.T) {
	client, tokens := newTestClient(t, http.NotFoundHandler())

	require.True(t, client.HasSession())
	client.Logout()
	assert.False(t, client.HasSession())
	assert.True(t, tokens.cleared)
}
