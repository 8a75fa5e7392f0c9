package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-querystring/query"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
	internalhttp "github.com/fivetwenty-io/zoho-projects/internal/http"
	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// Options holds what every resource client needs besides the transport.
type Options struct {
	APIRoot   string
	PortalID  string
	ProjectID string
	Logger    zoho.Logger

	// GuardOptions configure the rate-limit guard created for every expanded listing.
	GuardOptions []zoho.RateLimitOption
}

// Client implements the zoho.Client interface.
type Client struct {
	httpClient *internalhttp.Client
	options    Options
	validate   *validator.Validate

	// Resource clients
	portals    *PortalsClient
	projects   *ProjectsClient
	tasks      *TasksClient
	bugs       *BugsClient
	tasklists  *TasklistsClient
	categories *CategoriesClient
}

// New creates a client sending requests through httpClient.
func New(httpClient *internalhttp.Client, options Options) *Client {
	client := &Client{
		httpClient: httpClient,
		options:    options,
		validate:   validator.New(),
	}

	client.initializeResourceClients()

	return client
}

// Portals implements zoho.Client.Portals.
func (c *Client) Portals() zoho.PortalsClient {
	return c.portals
}

// Projects implements zoho.Client.Projects.
func (c *Client) Projects() zoho.ProjectsClient {
	return c.projects
}

// Tasks implements zoho.Client.Tasks.
func (c *Client) Tasks() zoho.TasksClient {
	return c.tasks
}

// Bugs implements zoho.Client.Bugs.
func (c *Client) Bugs() zoho.BugsClient {
	return c.bugs
}

// Tasklists implements zoho.Client.Tasklists.
func (c *Client) Tasklists() zoho.TasklistsClient {
	return c.tasklists
}

// Categories implements zoho.Client.Categories.
func (c *Client) Categories() zoho.CategoriesClient {
	return c.categories
}

// PortalID returns the portal every project-scoped request is bound to.
func (c *Client) PortalID() string {
	return c.options.PortalID
}

// ProjectID returns the project every project-scoped request is bound to.
func (c *Client) ProjectID() string {
	return c.options.ProjectID
}

// Descriptor implements zoho.Client.Descriptor.
func (c *Client) Descriptor(resource zoho.Resource) zoho.RequestDescriptor {
	return zoho.NewRequestDescriptor(c.options.APIRoot, resource.Bind(c.options.PortalID, c.options.ProjectID))
}

// Do implements zoho.Client.Do.
func (c *Client) Do(ctx context.Context, method string, desc zoho.RequestDescriptor, form url.Values, out interface{}) error {
	return c.send(ctx, method, desc, form, "", out)
}

// send checks the method and the portal/project binding before any I/O, then decodes
// the value under key into out. An empty key decodes the whole body.
func (c *Client) send(ctx context.Context, method string, desc zoho.RequestDescriptor, form url.Values, key string, out interface{}) error {
	if !desc.Allows(method) {
		return &zoho.DisallowedMethodError{Method: method, Resource: desc.Resource().Name}
	}

	switch {
	case desc.Resource().NeedsPortal():
		return constants.ErrNoPortalConfigured
	case desc.Resource().NeedsProject():
		return constants.ErrNoProjectConfigured
	}

	req := &internalhttp.Request{
		Method: method,
		Path:   desc.URI(),
		Query:  desc.Params(),
	}

	switch method {
	case http.MethodPost, http.MethodPut:
		req.Form = form
		if req.Form == nil {
			req.Form = url.Values{}
		}
	default:
		for k, values := range form {
			req.Query[k] = append(req.Query[k], values...)
		}
	}

	if method == http.MethodDelete || out == nil {
		req.AllowEmpty = true
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return err
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}

	return internalhttp.DecodeJSON(resp.Body, key, out)
}

// encodeForm validates a request payload and turns it into form values.
func (c *Client) encodeForm(request interface{}) (url.Values, error) {
	err := c.validate.Struct(request)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	values, err := query.Values(request)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	return values, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.portals = NewPortalsClient(c)
	c.projects = NewProjectsClient(c)
	c.tasks = NewTasksClient(c)
	c.bugs = NewBugsClient(c)
	c.tasklists = NewTasklistsClient(c)
	c.categories = NewCategoriesClient(c)
}

// pageFetcher decodes one page of a collection from the value under the endpoint's items key.
type pageFetcher[T any] struct {
	client *Client
}

func (f pageFetcher[T]) FetchPage(ctx context.Context, desc zoho.RequestDescriptor) ([]T, error) {
	var items []T

	err := f.client.send(ctx, http.MethodGet, desc, nil, desc.Resource().ItemsKey, &items)
	if err != nil {
		return nil, err
	}

	return items, nil
}

// list returns an iterator over the collection addressed by desc.
func list[T any](ctx context.Context, c *Client, desc zoho.RequestDescriptor, opts ...zoho.IteratorOption[T]) *zoho.PaginationIterator[T] {
	opts = append([]zoho.IteratorOption[T]{zoho.WithIteratorLogger[T](c.options.Logger)}, opts...)

	return zoho.NewPaginationIterator[T](ctx, pageFetcher[T]{client: c}, desc, opts...)
}

// first sends a request whose response carries a one-element collection and returns
// that element.
func first[T any](ctx context.Context, c *Client, method string, desc zoho.RequestDescriptor, form url.Values) (*T, error) {
	var items []T

	err := c.send(ctx, method, desc, form, desc.Resource().ItemsKey, &items)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, zoho.ErrEmptyResponse
	}

	return &items[0], nil
}

// guard creates the rate-limit guard of one expanded listing.
func (c *Client) guard() *zoho.RateLimitGuard {
	opts := append([]zoho.RateLimitOption{zoho.WithGuardLogger(c.options.Logger)}, c.options.GuardOptions...)

	return zoho.NewRateLimitGuard(opts...)
}
