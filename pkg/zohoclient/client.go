package zohoclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fivetwenty-io/zoho-projects/internal/auth"
	"github.com/fivetwenty-io/zoho-projects/internal/client"
	"github.com/fivetwenty-io/zoho-projects/internal/constants"
	"github.com/fivetwenty-io/zoho-projects/internal/http"
	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// defaultCache holds name lookups of every client built without its own Cache.
var defaultCache = sync.OnceValue(func() zoho.Cache {
	return zoho.NewMemoryCache(constants.DefaultCacheTTL, constants.DefaultCacheCleanupInterval)
})

// New creates a new Zoho Projects client. Portal and project names are resolved to ids
// when no id is configured.
func New(ctx context.Context, config *zoho.Config) (zoho.Client, error) {
	if config == nil {
		return nil, zoho.ErrConfigRequired
	}

	err := validator.New().Struct(config)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tokens := createTokenManager(config)
	if tokens == nil {
		return nil, zoho.ErrNoTokenProvider
	}

	apiRoot := config.APIRoot
	if apiRoot == "" {
		apiRoot = constants.DefaultAPIRoot
	}

	httpClient := http.NewClient(apiRoot, tokens, createHTTPClientOptions(config)...)

	options := client.Options{
		APIRoot:   apiRoot,
		PortalID:  config.PortalID,
		ProjectID: config.ProjectID,
		Logger:    config.Logger,
	}

	cache := config.Cache
	if cache == nil {
		cache = defaultCache()
	}

	resolver := &resolver{
		root:   apiRoot,
		client: client.New(httpClient, options),
		cache:  cache,
		logger: config.Logger,
	}

	if options.PortalID == "" && config.PortalName != "" {
		options.PortalID, err = resolver.portalID(ctx, config.PortalName)
		if err != nil {
			return nil, err
		}
	}

	if options.ProjectID == "" && config.ProjectName != "" {
		if options.PortalID == "" {
			return nil, constants.ErrNoPortalConfigured
		}

		resolver.client = client.New(httpClient, options)

		options.ProjectID, err = resolver.projectID(ctx, options.PortalID, config.ProjectName)
		if err != nil {
			return nil, err
		}
	}

	return client.New(httpClient, options), nil
}

// NewWithToken creates a client with an access token obtained elsewhere.
func NewWithToken(ctx context.Context, token, portalID, projectID string) (zoho.Client, error) {
	return New(ctx, &zoho.Config{
		AccessToken: token,
		PortalID:    portalID,
		ProjectID:   projectID,
	})
}

// NewWithRefreshToken creates a client that redeems refreshToken for access tokens.
func NewWithRefreshToken(ctx context.Context, clientID, clientSecret, refreshToken, portalID, projectID string) (zoho.Client, error) {
	return New(ctx, &zoho.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
		PortalID:     portalID,
		ProjectID:    projectID,
	})
}

// createTokenManager creates appropriate token manager based on config.
func createTokenManager(config *zoho.Config) auth.TokenManager {
	if config.TokenProvider != nil {
		return auth.NewProviderTokenManager(config.TokenProvider)
	}

	if config.AccessToken != "" && config.ClientID == "" {
		return auth.NewStaticTokenManager(config.AccessToken, config.TokenExpiresAt)
	}

	if config.ClientID != "" {
		return createOAuth2TokenManager(config)
	}

	return nil
}

// createOAuth2TokenManager creates the OAuth2 manager, persisting refreshed tokens when
// the config carries a persister.
func createOAuth2TokenManager(config *zoho.Config) auth.TokenManager {
	oauthConfig := &auth.OAuth2Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		AuthURL:      config.AuthURL,
		TokenURL:     config.TokenURL,
		RedirectURL:  config.RedirectURL,
		Scopes:       config.Scopes,
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		ExpiresAt:    config.TokenExpiresAt,
		CodeSupplier: config.CodeSupplier,
		Logger:       config.Logger,
	}

	if oauthConfig.CodeSupplier == nil {
		redirectURL := oauthConfig.RedirectURL
		if redirectURL == "" {
			redirectURL = constants.DefaultRedirectURL
		}

		supplier := auth.NewLocalCallbackSupplier(redirectURL)
		supplier.Logger = config.Logger
		oauthConfig.CodeSupplier = supplier
	}

	if config.TokenPersister != nil {
		return auth.NewConfigTokenManager(oauthConfig, config.TokenPersister)
	}

	return auth.NewOAuth2TokenManager(oauthConfig)
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *zoho.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.AuthScheme != "" {
		httpOpts = append(httpOpts, http.WithAuthScheme(config.AuthScheme))
	}

	if config.LegacyAuthToken {
		httpOpts = append(httpOpts, http.WithLegacyAuthToken(true))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// resolver turns portal and project names into ids, remembering the answers.
type resolver struct {
	root   string
	client *client.Client
	cache  zoho.Cache
	logger zoho.Logger
}

func (r *resolver) portalID(ctx context.Context, name string) (string, error) {
	key := cacheKey(r.root, "portal", strings.ToLower(name))

	id, ok := r.cached(ctx, key)
	if ok {
		return id, nil
	}

	portals, err := r.client.Portals().List(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving portal %q: %w", name, err)
	}

	for _, portal := range portals {
		if strings.EqualFold(portal.Name, name) {
			id := portal.Identifier()
			r.remember(ctx, key, id)

			return id, nil
		}
	}

	return "", fmt.Errorf("%w: %s", zoho.ErrPortalNotFound, name)
}

func (r *resolver) projectID(ctx context.Context, portalID, name string) (string, error) {
	key := cacheKey(r.root, "project", portalID+":"+strings.ToLower(name))

	id, ok := r.cached(ctx, key)
	if ok {
		return id, nil
	}

	for project, err := range r.client.Projects().List(ctx).Seq() {
		if err != nil {
			return "", fmt.Errorf("resolving project %q: %w", name, err)
		}

		if strings.EqualFold(project.Name, name) {
			id := project.Identifier()
			r.remember(ctx, key, id)

			return id, nil
		}
	}

	return "", fmt.Errorf("%w: %s", zoho.ErrProjectNotFound, name)
}

func (r *resolver) cached(ctx context.Context, key string) (string, bool) {
	entry, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, zoho.ErrCacheMiss) && !errors.Is(err, zoho.ErrCacheDisabled) && r.logger != nil {
			r.logger.Warn("Cache lookup failed", map[string]interface{}{"key": key, "error": err.Error()})
		}

		return "", false
	}

	if r.logger != nil {
		r.logger.Debug("Resolved from cache", map[string]interface{}{"key": key})
	}

	return string(entry.Data), true
}

func (r *resolver) remember(ctx context.Context, key, id string) {
	err := r.cache.Set(ctx, key, &zoho.CacheEntry{Data: []byte(id)})
	if err != nil && r.logger != nil {
		r.logger.Warn("Cache store failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// cacheKey scopes a lookup to the API root, so data centres with equally named portals
// do not share ids.
func cacheKey(root, kind, name string) string {
	return root + " " + kind + ":" + name
}
