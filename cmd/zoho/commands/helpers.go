package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
	"github.com/fivetwenty-io/zoho-projects/pkg/zoho"
	"github.com/fivetwenty-io/zoho-projects/pkg/zohoclient"
)

// Common string constants used throughout the commands package.
const (
	// Output formats.
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"

	// JSON formatting.
	defaultJSONIndent = 2

	Masked = "***"
)

// Common static errors used throughout the commands package.
var (
	ErrNotAuthenticated     = errors.New("not authenticated, run 'zoho login' or set ZOHO_ACCESS_TOKEN")
	ErrUnknownConfigKey     = errors.New("unknown configuration key")
	ErrInvalidOutputFormat  = errors.New("output must be one of table, json, yaml")
	ErrNothingToUpdate      = errors.New("no fields to update, pass at least one flag")
	ErrInvalidPercent       = errors.New("percent must be between 0 and 100")
	ErrInvalidBooleanConfig = errors.New("value must be 'true' or 'false'")
)

// Logger adapts a logrus logger to zoho.Logger.
type Logger struct {
	logger *logrus.Logger
}

// NewLogger creates a logger writing to out. verbose enables debug output, otherwise
// only warnings and errors are written.
func NewLogger(out io.Writer, verbose bool) *Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !verbose})

	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return &Logger{logger: logger}
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Debug(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Info(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Warn(msg)
}

func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Error(msg)
}

// CreateClient builds a client from the configuration file, environment and flags.
func CreateClient(ctx context.Context) (zoho.Client, error) {
	config := loadConfig()

	if config.AccessToken == "" && config.ClientID == "" {
		return nil, ErrNotAuthenticated
	}

	verbose := viper.GetBool("verbose")

	clientConfig := &zoho.Config{
		APIRoot:         config.APIRoot,
		ClientID:        config.ClientID,
		ClientSecret:    config.ClientSecret,
		RedirectURL:     config.RedirectURL,
		AccessToken:     config.AccessToken,
		RefreshToken:    config.RefreshToken,
		AuthScheme:      config.AuthScheme,
		LegacyAuthToken: config.LegacyAuthToken,
		Logger:          NewLogger(os.Stderr, verbose),
		Debug:           verbose,
		UserAgent:       "zoho-cli/" + viper.GetString("cli_version"),
	}

	if config.TokenExpiresAt != nil {
		clientConfig.TokenExpiresAt = *config.TokenExpiresAt
	}

	if config.ClientID != "" {
		clientConfig.TokenPersister = NewConfigPersister()
	}

	applyScope(clientConfig, config.Portal, config.Project)

	client, err := zohoclient.New(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// applyScope treats numeric portal and project values as ids and anything else as names.
func applyScope(config *zoho.Config, portal, project string) {
	if isNumeric(portal) {
		config.PortalID = portal
	} else {
		config.PortalName = portal
	}

	if isNumeric(project) {
		config.ProjectID = project
	} else {
		config.ProjectName = project
	}
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}

	_, err := strconv.ParseUint(value, 10, 64)

	return err == nil
}

// collect drains seq, stopping after limit items when limit is positive.
func collect[T any](seq iter.Seq2[T, error], limit int) ([]T, error) {
	var items []T

	for item, err := range seq {
		if err != nil {
			return items, err
		}

		items = append(items, item)
		if limit > 0 && len(items) >= limit {
			break
		}
	}

	return items, nil
}

// renderOutput writes value as JSON or YAML when asked to, otherwise calls table.
func renderOutput(out io.Writer, value interface{}, table func(io.Writer) error) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(out, value)
	case OutputFormatYAML:
		return StandardYAMLRenderer(out, value)
	default:
		return table(out)
	}
}

// StandardJSONRenderer writes value as indented JSON.
func StandardJSONRenderer(out io.Writer, value interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

	return encoder.Encode(value)
}

// StandardYAMLRenderer writes value as YAML.
func StandardYAMLRenderer(out io.Writer, value interface{}) error {
	encoder := yaml.NewEncoder(out)
	defer func() { _ = encoder.Close() }()

	return encoder.Encode(value)
}

func newTable(out io.Writer, headers ...string) *tablewriter.Table {
	elements := make([]any, 0, len(headers))
	for _, header := range headers {
		elements = append(elements, header)
	}

	table := tablewriter.NewWriter(out)
	table.Header(elements...)

	return table
}

func renderTable(table *tablewriter.Table) error {
	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// orNotAvailable returns value, or N/A when it is empty.
func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

// truncate shortens long names for table display.
func truncate(value string) string {
	runes := []rune(value)
	if len(runes) <= constants.NameDisplayLength {
		return value
	}

	return string(runes[:constants.NameDisplayLength-3]) + "..."
}

func isTableOutput() bool {
	output := viper.GetString("output")

	return output != OutputFormatJSON && output != OutputFormatYAML
}

func anyFlagChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}

	return false
}

func printEmpty(cmd *cobra.Command, what string) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No %s found\n", what)
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))

	for _, value := range values {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", value, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
