package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUserClosedBrowser = errors.New("user closed browser")

// fakeSupplier echoes the state of the authorization URL unless told otherwise.
type fakeSupplier struct {
	code     string
	state    string
	err      error
	authURLs []string
}

func (f *fakeSupplier) AuthorizationCode(ctx context.Context, authURL string) (string, string, error) {
	f.authURLs = append(f.authURLs, authURL)
	if f.err != nil {
		return "", "", f.err
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		return "", "", err
	}

	state := parsed.Query().Get("state")
	if f.state != "" {
		state = f.state
	}

	return f.code, state, nil
}

func tokenServer(t *testing.T, check func(form url.Values), response map[string]interface{}) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		assert.Equal(t, "/oauth/v2/token", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		err := r.ParseForm()
		assert.NoError(t, err)

		if check != nil {
			check(r.PostForm)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	return server, &hits
}

func TestOAuth2TokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("returns existing valid token", func(t *testing.T) {
		t.Parallel()

		manager := NewOAuth2TokenManager(&OAuth2Config{
			AccessToken: "existing-token",
			ExpiresAt:   time.Now().Add(time.Hour),
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "existing-token", token)
	})

	t.Run("refreshes expired token using refresh token", func(t *testing.T) {
		t.Parallel()

		server, hits := tokenServer(t, func(form url.Values) {
			assert.Equal(t, "refresh_token", form.Get("grant_type"))
			assert.Equal(t, "old-refresh-token", form.Get("refresh_token"))
			assert.Equal(t, "client-id", form.Get("client_id"))
			assert.Equal(t, "client-secret", form.Get("client_secret"))
		}, map[string]interface{}{
			"access_token": "new-access-token",
			"expires_in":   3600,
			"token_type":   "Bearer",
			"api_domain":   "https://www.zohoapis.com",
		})

		manager := NewOAuth2TokenManager(&OAuth2Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			TokenURL:     server.URL + "/oauth/v2/token",
			AccessToken:  "expired-token",
			RefreshToken: "old-refresh-token",
			ExpiresAt:    time.Now().Add(-1 * time.Hour),
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "new-access-token", token)

		stored := manager.store.Get()
		assert.Equal(t, "old-refresh-token", stored.RefreshToken)
		assert.InDelta(t, 3600, stored.ExpiresIn, 5)
		assert.WithinDuration(t, time.Now().Add(time.Hour), stored.ExpiresAt, time.Minute)

		// The refreshed token is reused without another exchange.
		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "new-access-token", token)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("token inside expiry buffer is refreshed", func(t *testing.T) {
		t.Parallel()

		server, hits := tokenServer(t, nil, map[string]interface{}{
			"access_token": "fresh",
			"expires_in":   3600,
		})

		manager := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/oauth/v2/token",
			AccessToken:  "stale",
			RefreshToken: "refresh",
			ExpiresAt:    time.Now().Add(10 * time.Second),
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh", token)
		assert.Equal(t, int32(1), hits.Load())
		assert.Equal(t, "bearer", manager.store.Get().TokenType)
	})

	t.Run("runs authorization code flow without refresh token", func(t *testing.T) {
		t.Parallel()

		server, _ := tokenServer(t, func(form url.Values) {
			assert.Equal(t, "authorization_code", form.Get("grant_type"))
			assert.Equal(t, "auth-code", form.Get("code"))
			assert.Equal(t, "http://localhost:8080/", form.Get("redirect_uri"))
		}, map[string]interface{}{
			"access_token":  "code-token",
			"refresh_token": "code-refresh",
			"expires_in":    3600,
			"token_type":    "Bearer",
		})

		supplier := &fakeSupplier{code: "auth-code"}
		manager := NewOAuth2TokenManager(&OAuth2Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			AuthURL:      "https://accounts.example.test/oauth/v2/auth",
			TokenURL:     server.URL + "/oauth/v2/token",
			Scopes:       []string{"ZohoProjects.tasks.ALL", "ZohoProjects.bugs.READ"},
			CodeSupplier: supplier,
		})
		manager.newState = func() string { return "fixed-state" }

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "code-token", token)
		assert.Equal(t, "code-refresh", manager.store.Get().RefreshToken)

		require.Len(t, supplier.authURLs, 1)
		authURL, err := url.Parse(supplier.authURLs[0])
		require.NoError(t, err)

		query := authURL.Query()
		assert.Equal(t, "accounts.example.test", authURL.Host)
		assert.Equal(t, "client-id", query.Get("client_id"))
		assert.Equal(t, "code", query.Get("response_type"))
		assert.Equal(t, "offline", query.Get("access_type"))
		assert.Equal(t, "fixed-state", query.Get("state"))
		assert.Equal(t, "ZohoProjects.tasks.ALL,ZohoProjects.bugs.READ", query.Get("scope"))
		assert.Equal(t, "http://localhost:8080/", query.Get("redirect_uri"))
	})

	t.Run("state mismatch is a refresh failure", func(t *testing.T) {
		t.Parallel()

		server, hits := tokenServer(t, nil, map[string]interface{}{"access_token": "never"})

		manager := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/oauth/v2/token",
			CodeSupplier: &fakeSupplier{code: "auth-code", state: "forged"},
		})

		token, err := manager.GetToken(context.Background())
		assert.Empty(t, token)

		var failure *zoho.RefreshFailure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, StageAuthorize, failure.Stage)
		require.ErrorIs(t, err, constants.ErrStateMismatch)
		assert.Zero(t, hits.Load())
	})

	t.Run("missing code", func(t *testing.T) {
		t.Parallel()

		manager := NewOAuth2TokenManager(&OAuth2Config{CodeSupplier: &fakeSupplier{}})

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, constants.ErrMissingCode)
	})

	t.Run("supplier failure", func(t *testing.T) {
		t.Parallel()

		manager := NewOAuth2TokenManager(&OAuth2Config{CodeSupplier: &fakeSupplier{err: errUserClosedBrowser}})

		_, err := manager.GetToken(context.Background())

		var failure *zoho.RefreshFailure
		require.ErrorAs(t, err, &failure)
		require.ErrorIs(t, err, errUserClosedBrowser)
	})

	t.Run("no code supplier", func(t *testing.T) {
		t.Parallel()

		manager := NewOAuth2TokenManager(&OAuth2Config{})

		token, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, constants.ErrNoCodeSupplier)
		assert.Equal(t, "", token)
	})

	t.Run("handles token request error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_client",
				"error_description": "Client authentication failed",
			})
		}))
		defer server.Close()

		manager := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/oauth/v2/token",
			ClientID:     "bad-client",
			ClientSecret: "bad-secret",
			RefreshToken: "refresh",
		})

		token, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid_client")
		assert.Equal(t, "", token)

		var failure *zoho.RefreshFailure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, StageRefresh, failure.Stage)
	})

	t.Run("exchange rejected with ok status", func(t *testing.T) {
		t.Parallel()

		server, _ := tokenServer(t, nil, map[string]interface{}{"error": "invalid_code"})

		manager := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/oauth/v2/token",
			CodeSupplier: &fakeSupplier{code: "used-code"},
		})

		_, err := manager.GetToken(context.Background())

		var failure *zoho.RefreshFailure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, StageExchange, failure.Stage)
	})
}

func TestOAuth2TokenManager_Defaults(t *testing.T) {
	t.Parallel()

	config := &OAuth2Config{}
	manager := NewOAuth2TokenManager(config)

	assert.Equal(t, "https://accounts.zoho.com/oauth/v2/auth", manager.oauth.Endpoint.AuthURL)
	assert.Equal(t, "https://accounts.zoho.com/oauth/v2/token", manager.oauth.Endpoint.TokenURL)
	assert.Equal(t, "http://localhost:8080/", manager.oauth.RedirectURL)
	assert.Equal(t, []string{constants.DefaultScopes}, manager.oauth.Scopes)
	assert.Contains(t, config.Scopes, "ZohoProjects.tasks.ALL")
	assert.Nil(t, manager.Token())
}

func TestOAuth2TokenManager_SetToken(t *testing.T) {
	t.Parallel()

	manager := NewOAuth2TokenManager(&OAuth2Config{RefreshToken: "keep-me"})

	expiresAt := time.Now().Add(1 * time.Hour)
	manager.SetToken("manual-token", expiresAt)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual-token", token)

	storedToken := manager.store.Get()
	assert.Equal(t, "manual-token", storedToken.AccessToken)
	assert.Equal(t, "keep-me", storedToken.RefreshToken)
	assert.Equal(t, "bearer", storedToken.TokenType)
	assert.Equal(t, expiresAt.Unix(), storedToken.ExpiresAt.Unix())
}

func TestOAuth2TokenManager_RefreshToken(t *testing.T) {
	t.Parallel()

	server, hits := tokenServer(t, nil, map[string]interface{}{
		"access_token": "refreshed-token",
		"expires_in":   3600,
		"token_type":   "bearer",
	})

	manager := NewOAuth2TokenManager(&OAuth2Config{
		TokenURL:     server.URL + "/oauth/v2/token",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh",
	})

	// Set a valid token
	manager.SetToken("current-token", time.Now().Add(1*time.Hour))

	// Force refresh
	err := manager.RefreshToken(context.Background())
	require.NoError(t, err)

	// Should have new token
	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", token)
	assert.Equal(t, int32(1), hits.Load())
}
