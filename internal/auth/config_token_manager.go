package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// ConfigTokenManager wraps OAuth2TokenManager and persists every new token, so a CLI
// can reuse it on the next run.
type ConfigTokenManager struct {
	oauth2Manager *OAuth2TokenManager
	persister     zoho.TokenPersister
	logger        zoho.Logger
	mutex         sync.Mutex
	lastToken     string
	lastExpiry    time.Time
}

// NewConfigTokenManager creates a new config-persisting token manager.
func NewConfigTokenManager(config *OAuth2Config, persister zoho.TokenPersister) *ConfigTokenManager {
	return &ConfigTokenManager{
		oauth2Manager: NewOAuth2TokenManager(config),
		persister:     persister,
		logger:        config.Logger,
		lastToken:     config.AccessToken,
		lastExpiry:    config.ExpiresAt,
	}
}

// GetToken returns a valid access token, refreshing and persisting it if necessary.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token, err := m.oauth2Manager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.persistIfChanged()

	return token, nil
}

// RefreshToken forces a token refresh.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.oauth2Manager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	m.persistIfChanged()

	return nil
}

// SetToken manually sets the access token without persisting it.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.oauth2Manager.SetToken(token, expiresAt)
	m.lastToken = token
	m.lastExpiry = expiresAt
}

// IsTokenExpiringSoon returns true if the token expires within the given duration.
func (m *ConfigTokenManager) IsTokenExpiringSoon(within time.Duration) bool {
	token := m.oauth2Manager.Token()
	if token == nil || token.AccessToken == "" {
		return true
	}

	if token.ExpiresAt.IsZero() {
		return false
	}

	return time.Now().Add(within).After(token.ExpiresAt)
}

// GetTokenExpiry returns the current token's expiration time.
func (m *ConfigTokenManager) GetTokenExpiry() time.Time {
	token := m.oauth2Manager.Token()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

func (m *ConfigTokenManager) persistIfChanged() {
	current := m.oauth2Manager.Token()
	if current == nil || (current.AccessToken == m.lastToken && current.ExpiresAt.Equal(m.lastExpiry)) {
		return
	}

	m.lastToken = current.AccessToken
	m.lastExpiry = current.ExpiresAt

	err := m.persistToken(current)
	if err != nil && m.logger != nil {
		m.logger.Warn("Failed to persist refreshed token", map[string]interface{}{"error": err.Error()})
	}
}

// persistToken saves the token to config.
func (m *ConfigTokenManager) persistToken(token *Token) error {
	if m.persister == nil {
		return constants.ErrNoConfigPersister
	}

	err := m.persister.UpdateToken(token.AccessToken, token.ExpiresAt, token.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}

	return nil
}
