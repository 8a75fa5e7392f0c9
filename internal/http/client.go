package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

// Version is reported in the default User-Agent.
const Version = "0.1.0"

// TokenProvider supplies the access token attached to every request.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// Client sends requests to the Zoho Projects API.
type Client struct {
	baseURL         string
	httpClient      *retryablehttp.Client
	tokens          TokenProvider
	logger          zoho.Logger
	debug           bool
	userAgent       string
	authScheme      string
	legacyAuthToken bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger zoho.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		if logger != nil {
			c.httpClient.Logger = &leveledLogger{logger: logger}
		}
	}
}

// WithDebug logs every request and response at debug level.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithRetryConfig enables retries of 5xx, 429 and connection errors. Requests are not
// retried by default.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the per attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithAuthScheme overrides the Authorization header scheme.
func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		if scheme != "" {
			c.authScheme = scheme
		}
	}
}

// WithLegacyAuthToken sends the token as the authtoken query parameter.
func WithLegacyAuthToken(enabled bool) Option {
	return func(c *Client) {
		c.legacyAuthToken = enabled
	}
}

// NewClient creates a client for baseURL. tokens may be nil for unauthenticated requests.
func NewClient(baseURL string, tokens TokenProvider, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: retryClient,
		tokens:     tokens,
		userAgent:  "zoho-projects-go/" + Version,
		authScheme: constants.DefaultAuthScheme,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Request represents an HTTP request. Path is either absolute or relative to the base URL.
// Form is sent url-encoded; Body is sent as JSON. AllowEmpty accepts a 2xx without body.
type Request struct {
	Method     string
	Path       string
	Query      url.Values
	Form       url.Values
	Body       interface{}
	Headers    map[string]string
	AllowEmpty bool
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Do performs an HTTP request. Non-2xx responses return both the response and a
// *zoho.ServerError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	endpoint := c.resolve(req.Path)

	query := url.Values{}
	for key, values := range req.Query {
		query[key] = append([]string(nil), values...)
	}

	headers := http.Header{}

	if c.tokens != nil {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting access token: %w", err)
		}

		if c.legacyAuthToken {
			query.Set(constants.LegacyAuthTokenParam, token)
		} else {
			headers.Set("Authorization", c.authScheme+" "+token)
		}
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	fullURL := endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = headers
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    redact(endpoint, query),
		})
	}

	// The passthrough handler returns the last response together with the give-up error
	// once retries are exhausted; the status decides the outcome then.
	httpResp, err := c.httpClient.Do(httpReq)
	if httpResp == nil {
		if err == nil {
			err = errNoResponse
		}

		return nil, &zoho.TransportError{Method: req.Method, URI: endpoint, Err: err}
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &zoho.TransportError{Method: req.Method, URI: endpoint, Err: err}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": httpResp.StatusCode,
			"bytes":  len(respBody),
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return resp, zoho.ParseServerError(httpResp.StatusCode, respBody)
	}

	if !req.AllowEmpty && (httpResp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0) {
		return resp, zoho.ErrEmptyResponse
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request with a form body.
func (c *Client) Post(ctx context.Context, path string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Form:   form,
	})
}

// Put performs a PUT request with a form body.
func (c *Client) Put(ctx context.Context, path string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   path,
		Form:   form,
	})
}

// Delete performs a DELETE request. An empty response body is not an error.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:     http.MethodDelete,
		Path:       path,
		AllowEmpty: true,
	})
}

// DecodeJSON decodes body into out. When key is set, the value under that top-level key
// is decoded instead of the whole body.
func DecodeJSON(body []byte, key string, out interface{}) error {
	target := key
	if target == "" {
		target = "response"
	}

	if key == "" {
		err := json.Unmarshal(body, out)
		if err != nil {
			return &zoho.DecodeError{Target: target, Err: err}
		}

		return nil
	}

	var envelope map[string]json.RawMessage

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return &zoho.DecodeError{Target: target, Err: err}
	}

	raw, ok := envelope[key]
	if !ok {
		return &zoho.DecodeError{Target: target, Err: fmt.Errorf("%w: %q", errMissingKey, key)}
	}

	err = json.Unmarshal(raw, out)
	if err != nil {
		return &zoho.DecodeError{Target: target, Err: err}
	}

	return nil
}

var (
	errMissingKey = errors.New("missing key")
	errNoResponse = errors.New("no response")
)

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

func encodeBody(req *Request) (interface{}, string, error) {
	switch {
	case req.Form != nil:
		return strings.NewReader(req.Form.Encode()), "application/x-www-form-urlencoded", nil
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling request body: %w", err)
		}

		return bytes.NewReader(data), "application/json", nil
	default:
		return nil, "", nil
	}
}

func redact(endpoint string, query url.Values) string {
	if len(query) == 0 {
		return endpoint
	}

	safe := url.Values{}

	for key, values := range query {
		if key == constants.LegacyAuthTokenParam {
			safe.Set(key, "REDACTED")

			continue
		}

		safe[key] = values
	}

	return endpoint + "?" + safe.Encode()
}

// leveledLogger adapts zoho.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger zoho.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}

		if key == "url" {
			continue
		}

		out[key] = keysAndValues[i+1]
	}

	return out
}
