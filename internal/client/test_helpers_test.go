package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	internalhttp "github.com/fivetwenty-io/zoho-projects/internal/http"
	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test static errors.
var (
	ErrTestSomeError = errors.New("some error")
)

const (
	testPortalID  = "1001"
	testProjectID = "2002"
	testRoot      = "/restapi/portal/1001/projects/2002"
)

// sleepRecorder records the delays requested by rate-limit guards instead of sleeping.
type sleepRecorder struct {
	mutex  sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.delays = append(s.delays, d)

	return ctx.Err()
}

func (s *sleepRecorder) count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.delays)
}

// NewTestClient creates a new test client with the given base URL.
func NewTestClient(baseURL string, guardOptions ...zoho.RateLimitOption) *Client {
	// Create HTTP client without token manager for testing
	httpClient := internalhttp.NewClient(baseURL, nil)

	return New(httpClient, Options{
		APIRoot:      baseURL + "/restapi/",
		PortalID:     testPortalID,
		ProjectID:    testProjectID,
		GuardOptions: guardOptions,
	})
}

// writeJSON writes body with the given status.
func writeJSON(t *testing.T, writer http.ResponseWriter, status int, body interface{}) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if body != nil {
		assert.NoError(t, json.NewEncoder(writer).Encode(body))
	}
}

// notFound is the error envelope returned for a missing item.
var notFound = map[string]interface{}{
	"error": map[string]interface{}{
		"code":    6404,
		"message": "Given URL is wrong",
	},
}

// TestCreateOperation represents a generic create operation test case.
type TestCreateOperation[TRequest, TResponse any] struct {
	Name         string
	Request      *TRequest
	ExpectedPath string
	ExpectedForm map[string]string
	StatusCode   int
	Response     interface{}
	WantErr      bool
	ErrMessage   string
	Check        func(t *testing.T, result *TResponse)
}

// RunCreateTests runs a series of create operation tests. A test that expects an error
// before any I/O can leave ExpectedPath empty.
func RunCreateTests[TRequest, TResponse any](
	t *testing.T,
	tests []TestCreateOperation[TRequest, TResponse],
	createFunc func(*Client) func(context.Context, *TRequest) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			called := false

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				called = true

				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodPost, request.Method)
				assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))
				assert.NoError(t, request.ParseForm())

				for key, value := range testCase.ExpectedForm {
					assert.Equal(t, value, request.PostForm.Get(key), "form field %s", key)
				}

				writeJSON(t, writer, testCase.StatusCode, testCase.Response)
			}))
			defer server.Close()

			result, err := createFunc(NewTestClient(server.URL))(context.Background(), testCase.Request)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)

				if testCase.ExpectedPath == "" {
					assert.False(t, called, "request must not be sent")
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)

			if testCase.Check != nil {
				testCase.Check(t, result)
			}
		})
	}
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	Response     interface{}
	WantErr      bool
	ErrMessage   string
	Check        func(t *testing.T, result *TResponse)
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(*Client) func(context.Context, string) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodGet, request.Method)

				writeJSON(t, writer, testCase.StatusCode, testCase.Response)
			}))
			defer server.Close()

			result, err := getFunc(NewTestClient(server.URL))(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)

			if testCase.Check != nil {
				testCase.Check(t, result)
			}
		})
	}
}

// TestUpdateOperation represents a generic update operation test case.
type TestUpdateOperation[TRequest, TResponse any] struct {
	Name         string
	ID           string
	Request      *TRequest
	ExpectedPath string
	ExpectedForm map[string]string
	AbsentFields []string
	StatusCode   int
	Response     interface{}
	WantErr      bool
	ErrMessage   string
}

// RunUpdateTests runs a series of update operation tests. Updates are posted to the item.
func RunUpdateTests[TRequest, TResponse any](
	t *testing.T,
	tests []TestUpdateOperation[TRequest, TResponse],
	updateFunc func(*Client) func(context.Context, string, *TRequest) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodPost, request.Method)
				assert.NoError(t, request.ParseForm())

				for key, value := range testCase.ExpectedForm {
					assert.Equal(t, value, request.PostForm.Get(key), "form field %s", key)
				}

				for _, key := range testCase.AbsentFields {
					_, present := request.PostForm[key]
					assert.False(t, present, "form field %s must not be sent", key)
				}

				writeJSON(t, writer, testCase.StatusCode, testCase.Response)
			}))
			defer server.Close()

			result, err := updateFunc(NewTestClient(server.URL))(context.Background(), testCase.ID, testCase.Request)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
		})
	}
}

// TestDeleteOperation represents a generic delete operation test case.
type TestDeleteOperation struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	WantErr      bool
	ErrMessage   string
	Response     interface{}
}

// RunDeleteTests runs a series of delete operation tests.
func RunDeleteTests(
	t *testing.T,
	tests []TestDeleteOperation,
	deleteFunc func(*Client) func(context.Context, string) error,
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodDelete, request.Method)

				if testCase.Response == nil {
					writer.WriteHeader(testCase.StatusCode)

					return
				}

				writeJSON(t, writer, testCase.StatusCode, testCase.Response)
			}))
			defer server.Close()

			err := deleteFunc(NewTestClient(server.URL))(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				return
			}

			require.NoError(t, err)
		})
	}
}
