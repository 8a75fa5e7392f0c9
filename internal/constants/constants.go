package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as the token exchange.
	ShortHTTPTimeout = 10 * time.Second

	// CallbackShutdownTimeout bounds the shutdown of the local OAuth callback listener.
	CallbackShutdownTimeout = 2 * time.Second
)

// Retry limits. The transport does not retry unless asked to.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait between opt-in retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between opt-in retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Pagination.
const (
	// DefaultPageSize is the page size used when the caller does not set range.
	DefaultPageSize = 100

	// MaxPageSize is the largest range the remote service honors.
	MaxPageSize = 100

	// RangeParam is the page size query parameter.
	RangeParam = "range"
)

// Remote rate limit: a fixed number of requests per fixed window.
const (
	// RateLimitRequests is the request budget of one window.
	RateLimitRequests = 100

	// RateLimitWindow is the length of the fixed window.
	RateLimitWindow = 120 * time.Second

	// RateLimitDelay is inserted before every child-collection request once the budget is spent.
	RateLimitDelay = RateLimitWindow / RateLimitRequests
)

// API and OAuth endpoints.
const (
	// DefaultAPIRoot is the Zoho Projects REST API root.
	DefaultAPIRoot = "https://projectsapi.zoho.com/restapi/"

	// DefaultAuthURL is the Zoho accounts authorization endpoint.
	DefaultAuthURL = "https://accounts.zoho.com/oauth/v2/auth"

	// DefaultTokenURL is the Zoho accounts token endpoint.
	DefaultTokenURL = "https://accounts.zoho.com/oauth/v2/token"

	// DefaultRedirectURL is where the local callback listener captures the authorization code.
	DefaultRedirectURL = "http://localhost:8080/"

	// DefaultCallbackAddr is the listen address matching DefaultRedirectURL.
	DefaultCallbackAddr = "localhost:8080"

	// DefaultScopes are the scopes requested by the authorization code flow.
	DefaultScopes = "ZohoProjects.portals.READ,ZohoProjects.projects.ALL,ZohoProjects.tasks.ALL," +
		"ZohoProjects.bugs.ALL,ZohoProjects.tasklists.ALL,ZohoProjects.forums.ALL"
)

// Token handling.
const (
	// TokenExpiryBuffer treats a token as expired slightly before its real expiry.
	TokenExpiryBuffer = 30 * time.Second

	// DefaultTokenType is the token type assumed when the provider omits it.
	DefaultTokenType = "bearer"

	// DefaultAuthScheme is the Authorization header scheme.
	DefaultAuthScheme = "Bearer"

	// LegacyAuthTokenParam carries a legacy auth token as a query parameter.
	LegacyAuthTokenParam = "authtoken"
)

// Cache.
const (
	// DefaultCacheTTL is how long resolved portal and project ids are kept.
	DefaultCacheTTL = 10 * time.Minute

	// DefaultCacheCleanupInterval is how often expired cache entries are purged.
	DefaultCacheCleanupInterval = 1 * time.Minute
)

// Display.
const (
	// NotAvailable is shown for empty values in tables.
	NotAvailable = "N/A"

	// NameDisplayLength truncates long names in tables.
	NameDisplayLength = 48
)
