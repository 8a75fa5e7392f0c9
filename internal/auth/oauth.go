package auth

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Refresh stages reported in zoho.RefreshFailure.
const (
	StageRefresh   = "refresh"
	StageAuthorize = "authorize"
	StageExchange  = "exchange"
)

// OAuth2Config holds the OAuth2 client and any previously issued token.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURL  string
	Scopes       []string

	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time

	// CodeSupplier runs the interactive part of the authorization code flow. It is
	// only used when no refresh token is held.
	CodeSupplier zoho.CodeSupplier
	HTTPClient   *http.Client
	Logger       zoho.Logger
}

// OAuth2TokenManager returns valid access tokens, refreshing them when they expire.
type OAuth2TokenManager struct {
	config   *OAuth2Config
	oauth    *oauth2.Config
	store    *TokenStore
	mutex    sync.Mutex
	newState func() string
}

// NewOAuth2TokenManager creates a token manager. Empty endpoints default to Zoho accounts.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	if config.AuthURL == "" {
		config.AuthURL = constants.DefaultAuthURL
	}

	if config.TokenURL == "" {
		config.TokenURL = constants.DefaultTokenURL
	}

	if config.RedirectURL == "" {
		config.RedirectURL = constants.DefaultRedirectURL
	}

	if len(config.Scopes) == 0 {
		config.Scopes = strings.Split(constants.DefaultScopes, ",")
	}

	manager := &OAuth2TokenManager{
		config: config,
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   config.AuthURL,
				TokenURL:  config.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: config.RedirectURL,
			// Zoho accounts expects one comma-separated scope parameter.
			Scopes: []string{strings.Join(config.Scopes, ",")},
		},
		store:    NewTokenStore(),
		newState: uuid.NewString,
	}

	if config.AccessToken != "" || config.RefreshToken != "" {
		manager.store.Set(&Token{
			AccessToken:  config.AccessToken,
			RefreshToken: config.RefreshToken,
			TokenType:    constants.DefaultTokenType,
			ExpiresAt:    config.ExpiresAt,
		})
	}

	return manager
}

// GetToken returns the held token while it is valid, otherwise refreshes it first.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token := m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	err := m.refresh(ctx)
	if err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken forces a token refresh.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.refresh(ctx)
}

// SetToken manually sets the access token. A held refresh token is kept.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	refreshToken := m.config.RefreshToken
	if current := m.store.Get(); current != nil && current.RefreshToken != "" {
		refreshToken = current.RefreshToken
	}

	m.store.Set(&Token{
		AccessToken:  token,
		RefreshToken: refreshToken,
		TokenType:    constants.DefaultTokenType,
		ExpiresAt:    expiresAt,
	})
}

// Token returns a copy of the held token, or nil.
func (m *OAuth2TokenManager) Token() *Token {
	token := m.store.Get()
	if token == nil {
		return nil
	}

	copied := *token

	return &copied
}

// AuthorizationURL returns the URL the user visits to grant access.
func (m *OAuth2TokenManager) AuthorizationURL(state string) string {
	return m.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

func (m *OAuth2TokenManager) refresh(ctx context.Context) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient())

	refreshToken := m.config.RefreshToken
	if current := m.store.Get(); current != nil && current.RefreshToken != "" {
		refreshToken = current.RefreshToken
	}

	if refreshToken != "" {
		return m.refreshWithToken(ctx, refreshToken)
	}

	return m.authorize(ctx)
}

func (m *OAuth2TokenManager) refreshWithToken(ctx context.Context, refreshToken string) error {
	m.log("Refreshing access token", nil)

	source := m.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	token, err := source.Token()
	if err != nil {
		return &zoho.RefreshFailure{Stage: StageRefresh, Err: err}
	}

	m.save(token)

	return nil
}

func (m *OAuth2TokenManager) authorize(ctx context.Context) error {
	if m.config.CodeSupplier == nil {
		return &zoho.RefreshFailure{Stage: StageAuthorize, Err: constants.ErrNoCodeSupplier}
	}

	state := m.newState()

	m.log("Starting authorization code flow", map[string]interface{}{"redirect_url": m.config.RedirectURL})

	code, returnedState, err := m.config.CodeSupplier.AuthorizationCode(ctx, m.AuthorizationURL(state))
	if err != nil {
		return &zoho.RefreshFailure{Stage: StageAuthorize, Err: err}
	}

	if returnedState != state {
		return &zoho.RefreshFailure{Stage: StageAuthorize, Err: constants.ErrStateMismatch}
	}

	if code == "" {
		return &zoho.RefreshFailure{Stage: StageAuthorize, Err: constants.ErrMissingCode}
	}

	token, err := m.oauth.Exchange(ctx, code)
	if err != nil {
		return &zoho.RefreshFailure{Stage: StageExchange, Err: err}
	}

	m.save(token)

	return nil
}

func (m *OAuth2TokenManager) save(token *oauth2.Token) {
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = constants.DefaultTokenType
	}

	// oauth2 folds expires_in into Expiry and leaves ExpiresIn unset.
	var expiresIn int64
	if !token.Expiry.IsZero() {
		expiresIn = int64(time.Until(token.Expiry).Round(time.Second).Seconds())
	}

	m.store.Set(&Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    expiresIn,
		TokenType:    tokenType,
		ExpiresAt:    token.Expiry,
	})

	m.log("Access token updated", map[string]interface{}{"expires_at": token.Expiry})
}

func (m *OAuth2TokenManager) httpClient() *http.Client {
	if m.config.HTTPClient != nil {
		return m.config.HTTPClient
	}

	return &http.Client{Timeout: constants.ShortHTTPTimeout}
}

func (m *OAuth2TokenManager) log(msg string, fields map[string]interface{}) {
	if m.config.Logger != nil {
		m.config.Logger.Debug(msg, fields)
	}
}
