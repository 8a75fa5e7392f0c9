package commands_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// useConfig resets viper to settings plus a config file in a temporary directory. Tests
// calling it share the global viper instance and must not run in parallel.
func useConfig(t *testing.T, settings map[string]interface{}) string {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.SetConfigFile(configFile)

	for key, value := range settings {
		viper.Set(key, value)
	}

	return configFile
}

// run executes cmd with args and returns what it wrote to stdout.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	// nil args would make cobra parse the test binary's own flags
	cmd.SetArgs(append([]string{}, args...))

	err := cmd.Execute()

	return out.String(), err
}

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
}

// fakeProject serves the collections of portal 11, project 201.
type fakeProject struct {
	server *httptest.Server

	mutex    sync.Mutex
	requests []recordedRequest
}

func newFakeProject(t *testing.T, routes map[string]interface{}) *fakeProject {
	t.Helper()

	project := &fakeProject{}
	project.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_ = request.ParseForm()

		project.mutex.Lock()
		project.requests = append(project.requests, recordedRequest{
			Method: request.Method,
			Path:   request.URL.Path,
			Query:  request.URL.Query(),
			Form:   request.PostForm,
		})
		project.mutex.Unlock()

		body, ok := routes[request.Method+" "+request.URL.Path]
		if !ok {
			writer.WriteHeader(http.StatusNoContent)

			return
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(body)
	}))
	t.Cleanup(project.server.Close)

	return project
}

func (p *fakeProject) settings() map[string]interface{} {
	return map[string]interface{}{
		"api_root":     p.server.URL + "/restapi/",
		"access_token": "token",
		"portal":       "11",
		"project":      "201",
		"output":       "json",
	}
}

func (p *fakeProject) recorded() []recordedRequest {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return append([]recordedRequest(nil), p.requests...)
}

func decodeOutput[T any](t *testing.T, output string) T {
	t.Helper()

	var value T
	require.NoError(t, json.Unmarshal([]byte(output), &value))

	return value
}

const projectRoot = "/restapi/portal/11/projects/201"
