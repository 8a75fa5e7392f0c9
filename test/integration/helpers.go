//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	AccessToken string
	Portal      string
	Project     string
	ZohoPath    string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		AccessToken: os.Getenv("ZOHO_ACCESS_TOKEN"),
		Portal:      os.Getenv("ZOHO_PORTAL"),
		Project:     os.Getenv("ZOHO_PROJECT"),
		ZohoPath:    getZohoPath(),
		Verbose:     os.Getenv("ZOHO_VERBOSE") == "true",
	}
}

// getZohoPath determines the path to the zoho binary
func getZohoPath() string {
	if path := os.Getenv("ZOHO_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../zoho",
		"./zoho",
		"../zoho",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "zoho" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.AccessToken == "" || config.Portal == "" || config.Project == "" {
		t.Skip("ZOHO_ACCESS_TOKEN, ZOHO_PORTAL and ZOHO_PROJECT must be set, skipping integration test")
	}

	if _, err := exec.LookPath(config.ZohoPath); err != nil {
		t.Skipf("zoho binary not found at %s, skipping integration test", config.ZohoPath)
	}
}

// CommandRunner runs zoho commands against a throwaway config file
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: t.TempDir() + "/config.yml",
		t:          t,
	}
}

// Run executes a zoho command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.ZohoPath, args...)
	cmd.Env = append(os.Environ(),
		"ZOHO_ACCESS_TOKEN="+runner.config.AccessToken,
		"ZOHO_PORTAL="+runner.config.Portal,
		"ZOHO_PROJECT="+runner.config.Project,
	)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.ZohoPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON executes a zoho command with JSON output and decodes it into out
func (runner *CommandRunner) RunJSON(out interface{}, args ...string) error {
	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	return json.Unmarshal([]byte(stdout), out)
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupResource attempts to delete a test resource
func (runner *CommandRunner) CleanupResource(resourceType, id string) {
	var args []string

	switch resourceType {
	case "task":
		args = []string{"tasks", "delete", id}
	case "bug":
		args = []string{"bugs", "delete", id}
	case "tasklist":
		args = []string{"tasklists", "delete", id}
	default:
		runner.t.Logf("Unknown resource type for cleanup: %s", resourceType)

		return
	}

	stdout, stderr, err := runner.Run(args...)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, id, stdout, stderr)
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return
	}

	t.Errorf("Output does not appear to be YAML: %s", output)
}
