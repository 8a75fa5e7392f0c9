package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
)

var errUnsupportedPlatform = errors.New("unsupported platform")

// LocalCallbackSupplier captures the authorization code from a single redirect to a
// local listener.
type LocalCallbackSupplier struct {
	// Addr is the listen address, derived from the redirect URL.
	Addr string
	// Out receives the authorization URL for the user.
	Out io.Writer
	// OpenBrowser opens the authorization URL. Failures are ignored.
	OpenBrowser func(url string) error
	// Listen opens the listener.
	Listen func(network, address string) (net.Listener, error)
	Logger zoho.Logger
}

// NewLocalCallbackSupplier creates a supplier listening on the host of redirectURL.
func NewLocalCallbackSupplier(redirectURL string) *LocalCallbackSupplier {
	addr := constants.DefaultCallbackAddr

	parsed, err := url.Parse(redirectURL)
	if err == nil && parsed.Host != "" {
		addr = parsed.Host
	}

	return &LocalCallbackSupplier{
		Addr:        addr,
		Out:         os.Stderr,
		OpenBrowser: OpenBrowser,
		Listen:      net.Listen,
	}
}

type callbackResult struct {
	code  string
	state string
	err   error
}

// AuthorizationCode shows authURL to the user and blocks until the provider redirects
// back or ctx is done.
func (s *LocalCallbackSupplier) AuthorizationCode(ctx context.Context, authURL string) (string, string, error) {
	listen := s.Listen
	if listen == nil {
		listen = net.Listen
	}

	listener, err := listen("tcp", s.Addr)
	if err != nil {
		return "", "", fmt.Errorf("listening for authorization callback on %s: %w", s.Addr, err)
	}

	results := make(chan callbackResult, 1)

	var once sync.Once

	server := &http.Server{
		ReadHeaderTimeout: constants.ShortHTTPTimeout,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()

			var result callbackResult

			switch {
			case query.Get("error") != "":
				result.err = fmt.Errorf("%w: %s", constants.ErrAuthorizationDenied, query.Get("error"))
			case query.Get("code") != "":
				result.code = query.Get("code")
				result.state = query.Get("state")
			default:
				http.NotFound(w, r)

				return
			}

			once.Do(func() { results <- result })

			_, _ = fmt.Fprintln(w, "Authorization received. You can close this window.")
		}),
	}

	go func() {
		_ = server.Serve(listener)
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.CallbackShutdownTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	if s.Out != nil {
		_, _ = fmt.Fprintf(s.Out, "Open the following URL in your browser to authorize access:\n\n  %s\n\n", authURL)
	}

	if s.OpenBrowser != nil {
		openErr := s.OpenBrowser(authURL)
		if openErr != nil && s.Logger != nil {
			s.Logger.Debug("Could not open browser", map[string]interface{}{"error": openErr.Error()})
		}
	}

	select {
	case <-ctx.Done():
		return "", "", ctx.Err()
	case result := <-results:
		return result.code, result.state, result.err
	}
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("%w: %s", errUnsupportedPlatform, runtime.GOOS)
	}

	return cmd.Start()
}
