package auth

import (
	"context"
	"time"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// StaticTokenManager serves a pre-obtained token that cannot be refreshed.
type StaticTokenManager struct {
	store *TokenStore
}

// NewStaticTokenManager creates a manager for token. A zero expiresAt never expires.
func NewStaticTokenManager(token string, expiresAt time.Time) *StaticTokenManager {
	manager := &StaticTokenManager{store: NewTokenStore()}
	manager.SetToken(token, expiresAt)

	return manager
}

// GetToken returns the token while it is valid.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if !token.Valid() {
		return "", &zoho.RefreshFailure{Stage: StageRefresh, Err: constants.ErrStaticTokenRefresh}
	}

	return token.AccessToken, nil
}

// RefreshToken always fails.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return &zoho.RefreshFailure{Stage: StageRefresh, Err: constants.ErrStaticTokenRefresh}
}

// SetToken replaces the token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   constants.DefaultTokenType,
		ExpiresAt:   expiresAt,
	})
}

// ProviderTokenManager adapts a zoho.TokenProvider supplied by the caller.
type ProviderTokenManager struct {
	provider zoho.TokenProvider
}

// NewProviderTokenManager wraps provider.
func NewProviderTokenManager(provider zoho.TokenProvider) *ProviderTokenManager {
	return &ProviderTokenManager{provider: provider}
}

// GetToken delegates to the provider.
func (m *ProviderTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.provider.GetToken(ctx)
}

// RefreshToken is left to the provider, which refreshes on its own.
func (m *ProviderTokenManager) RefreshToken(ctx context.Context) error {
	return nil
}

// SetToken is ignored; the provider owns its tokens.
func (m *ProviderTokenManager) SetToken(token string, expiresAt time.Time) {}
