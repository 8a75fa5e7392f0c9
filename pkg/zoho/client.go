package zoho

import (
	"context"
	"net/url"
	"time"
)

// PortalsClient lists the portals visible to the authenticated user.
type PortalsClient interface {
	List(ctx context.Context) ([]Portal, error)
}

// ProjectsClient reads projects of the configured portal.
type ProjectsClient interface {
	List(ctx context.Context, filters ...ProjectFilter) *PaginationIterator[Project]
	Get(ctx context.Context, projectID string) (*Project, error)
}

// TasksClient operates on tasks of the configured project.
type TasksClient interface {
	List(ctx context.Context, filters ...TaskFilter) *PaginationIterator[Task]
	ListWithSubtasks(ctx context.Context, filters ...TaskFilter) *PaginationIterator[Task]
	Subtasks(ctx context.Context, taskID string) *PaginationIterator[Task]
	Get(ctx context.Context, taskID string) (*Task, error)
	Create(ctx context.Context, request *TaskCreateRequest) (*Task, error)
	Update(ctx context.Context, taskID string, request *TaskUpdateRequest) (*Task, error)
	Delete(ctx context.Context, taskID string) error
}

// BugsClient operates on bugs of the configured project.
type BugsClient interface {
	List(ctx context.Context, filters ...BugFilter) *PaginationIterator[Bug]
	Get(ctx context.Context, bugID string) (*Bug, error)
	Create(ctx context.Context, request *BugCreateRequest) (*Bug, error)
	Update(ctx context.Context, bugID string, request *BugUpdateRequest) (*Bug, error)
	Delete(ctx context.Context, bugID string) error
}

// TasklistsClient operates on tasklists of the configured project.
type TasklistsClient interface {
	List(ctx context.Context, filters ...TasklistFilter) *PaginationIterator[Tasklist]
	Create(ctx context.Context, request *TasklistCreateRequest) (*Tasklist, error)
	Update(ctx context.Context, tasklistID string, request *TasklistUpdateRequest) (*Tasklist, error)
	Delete(ctx context.Context, tasklistID string) error
}

// CategoriesClient operates on forum categories of the configured project.
type CategoriesClient interface {
	List(ctx context.Context) *PaginationIterator[Category]
	Create(ctx context.Context, request *CategoryCreateRequest) (*Category, error)
}

// Client is the Zoho Projects API client.
type Client interface {
	Portals() PortalsClient
	Projects() ProjectsClient
	Tasks() TasksClient
	Bugs() BugsClient
	Tasklists() TasklistsClient
	Categories() CategoriesClient

	// Descriptor returns a request descriptor for a resource bound to the configured
	// portal and project.
	Descriptor(resource Resource) RequestDescriptor

	// Do sends a raw request. form is sent as the body of POST requests and as query
	// parameters otherwise. out may be nil.
	Do(ctx context.Context, method string, desc RequestDescriptor, form url.Values, out interface{}) error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenProvider returns a currently valid access token.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// CodeSupplier obtains an authorization code from the user. It receives the URL to send
// the user to and returns the code and state carried by the provider's redirect.
type CodeSupplier interface {
	AuthorizationCode(ctx context.Context, authURL string) (code, state string, err error)
}

// TokenPersister stores refreshed tokens, e.g. in a CLI config file.
type TokenPersister interface {
	UpdateToken(accessToken string, expiresAt time.Time, refreshToken string) error
}

// Config represents client configuration for building a zoho.Client.
//
// # Authentication precedence
//
//  1. TokenProvider: used as is.
//  2. AccessToken without ClientID: used as a static token that cannot be refreshed.
//  3. ClientID/ClientSecret: OAuth2 manager. A held AccessToken is used until it
//     expires, then RefreshToken is redeemed. Without a refresh token the
//     authorization code flow runs through CodeSupplier.
//
// # Portal and project
//
// PortalID and ProjectID are used as is. When only PortalName or ProjectName is set,
// zohoclient.New resolves it to an id with one lookup and caches the result.
type Config struct {
	// APIRoot: REST API root. Defaults to https://projectsapi.zoho.com/restapi/.
	APIRoot string `validate:"omitempty,url"`

	PortalID    string `validate:"omitempty,numeric"`
	PortalName  string
	ProjectID   string `validate:"omitempty,numeric"`
	ProjectName string

	// OAuth2 client registered in the Zoho API console.
	ClientID     string `validate:"required_with=ClientSecret"`
	ClientSecret string `validate:"required_with=ClientID"`
	AuthURL      string `validate:"omitempty,url"`
	TokenURL     string `validate:"omitempty,url"`
	RedirectURL  string `validate:"omitempty,url"`
	Scopes       []string

	// Previously issued credentials.
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt time.Time

	TokenProvider  TokenProvider
	CodeSupplier   CodeSupplier
	TokenPersister TokenPersister

	// AuthScheme: Authorization header scheme. Defaults to Bearer.
	AuthScheme string
	// LegacyAuthToken: send the token as the authtoken query parameter instead of a header.
	LegacyAuthToken bool

	HTTPTimeout  time.Duration `validate:"gte=0"`
	RetryMax     int           `validate:"gte=0"`
	RetryWaitMin time.Duration `validate:"gte=0"`
	RetryWaitMax time.Duration `validate:"gte=0"`

	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug     bool
	Logger    Logger
	UserAgent string

	// Cache: stores portal and project name lookups. Defaults to a memory cache shared by
	// every client built without one.
	Cache Cache
}
