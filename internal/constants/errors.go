package constants

import "errors"

// Configuration errors.
var (
	ErrNoClientCredentials = errors.New("no client id/secret configured, set ZOHO_CLIENT_ID and ZOHO_CLIENT_SECRET")
	ErrNoPortalConfigured  = errors.New("no portal configured, use --portal or ZOHO_PORTAL")
	ErrNoProjectConfigured = errors.New("no project configured, use --project or ZOHO_PROJECT")
	ErrNotInteractive      = errors.New("login requires an interactive terminal")
)

// Authentication errors.
var (
	ErrNoCodeSupplier      = errors.New("no authorization code supplier configured")
	ErrMissingCode         = errors.New("redirect did not carry an authorization code")
	ErrStateMismatch       = errors.New("returned state does not match the state sent")
	ErrStaticTokenRefresh  = errors.New("static token cannot be refreshed")
	ErrNoConfigPersister   = errors.New("no config persister configured")
	ErrAuthorizationDenied = errors.New("authorization was denied by the provider")
)
