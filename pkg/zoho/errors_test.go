package zoho_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

func TestParseServerError(t *testing.T) {
	t.Parallel()

	t.Run("zoho error body", func(t *testing.T) {
		t.Parallel()

		err := zoho.ParseServerError(http.StatusBadRequest, []byte(`{"error":{"code":6831,"message":"Input Parameter Missing"}}`))
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		assert.Equal(t, 6831, err.Code)
		assert.Equal(t, "Input Parameter Missing", err.Message)
		assert.Equal(t, "server error 400: Input Parameter Missing (code: 6831)", err.Error())
	})

	t.Run("unknown body", func(t *testing.T) {
		t.Parallel()

		err := zoho.ParseServerError(http.StatusBadGateway, []byte("<html>bad gateway</html>"))
		assert.Equal(t, http.StatusBadGateway, err.StatusCode)
		assert.Equal(t, "server error 502: Bad Gateway", err.Error())
	})
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	notFound := fmt.Errorf("getting task: %w", &zoho.ServerError{StatusCode: http.StatusNotFound})
	unauthorized := &zoho.ServerError{StatusCode: http.StatusUnauthorized}
	limited := &zoho.ServerError{StatusCode: http.StatusTooManyRequests}

	assert.True(t, zoho.IsNotFound(notFound))
	assert.False(t, zoho.IsNotFound(unauthorized))
	assert.True(t, zoho.IsUnauthorized(unauthorized))
	assert.True(t, zoho.IsRateLimited(limited))
	assert.False(t, zoho.IsRateLimited(errors.New("plain")))
	assert.False(t, zoho.IsNotFound(nil))
}

func TestTypedErrors_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")

	transport := &zoho.TransportError{Method: http.MethodGet, URI: "https://example.test/", Err: cause}
	require.ErrorIs(t, transport, cause)
	assert.Contains(t, transport.Error(), "GET https://example.test/")

	decode := &zoho.DecodeError{Target: "tasks", Err: cause}
	require.ErrorIs(t, decode, cause)

	refresh := &zoho.RefreshFailure{Stage: "exchange", Err: cause}
	require.ErrorIs(t, refresh, cause)
	assert.Equal(t, "token refresh failed during exchange: connection reset", refresh.Error())

	disallowed := &zoho.DisallowedMethodError{Method: http.MethodPost, Resource: "portals"}
	assert.Equal(t, "method POST is not allowed on portals", disallowed.Error())
}
