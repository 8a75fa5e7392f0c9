package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
)

// Config represents the CLI configuration.
type Config struct {
	APIRoot string `json:"api_root,omitempty" yaml:"api_root,omitempty"`
	Portal  string `json:"portal,omitempty"   yaml:"portal,omitempty"`
	Project string `json:"project,omitempty"  yaml:"project,omitempty"`
	Output  string `json:"output,omitempty"   yaml:"output,omitempty"`

	ClientID        string `json:"client_id,omitempty"         yaml:"client_id,omitempty"`
	ClientSecret    string `json:"client_secret,omitempty"     yaml:"client_secret,omitempty"`
	RedirectURL     string `json:"redirect_url,omitempty"      yaml:"redirect_url,omitempty"`
	AuthScheme      string `json:"auth_scheme,omitempty"       yaml:"auth_scheme,omitempty"`
	LegacyAuthToken bool   `json:"legacy_auth_token,omitempty" yaml:"legacy_auth_token,omitempty"`

	AccessToken    string     `json:"access_token,omitempty"     yaml:"access_token,omitempty"`
	RefreshToken   string     `json:"refresh_token,omitempty"    yaml:"refresh_token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	LastRefreshed  *time.Time `json:"last_refreshed,omitempty"   yaml:"last_refreshed,omitempty"`
}

// settableKeys are the keys accepted by 'config set' and 'config unset'.
var settableKeys = []string{
	"api_root", "portal", "project", "output",
	"client_id", "client_secret", "redirect_url", "auth_scheme", "legacy_auth_token",
	"access_token", "refresh_token",
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the Zoho CLI configuration stored in $HOME/.zoho/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskSecrets(loadConfig())

			return renderOutput(cmd.OutOrStdout(), config, func(out io.Writer) error {
				return displayConfigTable(out, config)
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + fmt.Sprint(settableKeys),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if args[0] == "legacy_auth_token" {
				config.LegacyAuthToken = false
			} else {
				err := setConfigValue(config, args[0], "")
				if err != nil {
					return err
				}
			}

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	if !slices.Contains(settableKeys, key) {
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	switch key {
	case "api_root":
		config.APIRoot = value
	case "portal":
		config.Portal = value
	case "project":
		config.Project = value
	case "output":
		if value != "" && value != OutputFormatTable && value != OutputFormatJSON && value != OutputFormatYAML {
			return ErrInvalidOutputFormat
		}

		config.Output = value
	case "client_id":
		config.ClientID = value
	case "client_secret":
		config.ClientSecret = value
	case "redirect_url":
		config.RedirectURL = value
	case "auth_scheme":
		config.AuthScheme = value
	case "legacy_auth_token":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return ErrInvalidBooleanConfig
		}

		config.LegacyAuthToken = enabled
	case "access_token":
		config.AccessToken = value
		config.TokenExpiresAt = nil
	case "refresh_token":
		config.RefreshToken = value
	}

	return nil
}

// loadConfig reads the configuration through viper, so flags and ZOHO_* environment
// variables override the file.
func loadConfig() *Config {
	config := &Config{
		APIRoot:         viper.GetString("api_root"),
		Portal:          viper.GetString("portal"),
		Project:         viper.GetString("project"),
		Output:          viper.GetString("output"),
		ClientID:        viper.GetString("client_id"),
		ClientSecret:    viper.GetString("client_secret"),
		RedirectURL:     viper.GetString("redirect_url"),
		AuthScheme:      viper.GetString("auth_scheme"),
		LegacyAuthToken: viper.GetBool("legacy_auth_token"),
		AccessToken:     viper.GetString("access_token"),
		RefreshToken:    viper.GetString("refresh_token"),
	}

	if expiresAt := viper.GetTime("token_expires_at"); !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	if refreshed := viper.GetTime("last_refreshed"); !refreshed.IsZero() {
		config.LastRefreshed = &refreshed
	}

	return config
}

// saveConfigStruct writes config to the file in use and mirrors it into viper.
func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	mirrorConfig(config)

	return nil
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".zoho")

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile = filepath.Join(configDir, "config.yml")
	viper.SetConfigFile(configFile)

	return configFile, nil
}

func mirrorConfig(config *Config) {
	viper.Set("api_root", config.APIRoot)
	viper.Set("portal", config.Portal)
	viper.Set("project", config.Project)
	viper.Set("output", config.Output)
	viper.Set("client_id", config.ClientID)
	viper.Set("client_secret", config.ClientSecret)
	viper.Set("redirect_url", config.RedirectURL)
	viper.Set("auth_scheme", config.AuthScheme)
	viper.Set("legacy_auth_token", config.LegacyAuthToken)
	viper.Set("access_token", config.AccessToken)
	viper.Set("refresh_token", config.RefreshToken)

	if config.TokenExpiresAt != nil {
		viper.Set("token_expires_at", *config.TokenExpiresAt)
	} else {
		viper.Set("token_expires_at", time.Time{})
	}

	if config.LastRefreshed != nil {
		viper.Set("last_refreshed", *config.LastRefreshed)
	} else {
		viper.Set("last_refreshed", time.Time{})
	}
}

func maskSecrets(config *Config) *Config {
	masked := *config

	for _, secret := range []*string{&masked.ClientSecret, &masked.AccessToken, &masked.RefreshToken} {
		if *secret != "" {
			*secret = Masked
		}
	}

	return &masked
}

func displayConfigTable(out io.Writer, config *Config) error {
	table := newTable(out, "Property", "Value")

	rows := [][]string{
		{"API root", orNotAvailable(config.APIRoot)},
		{"Portal", orNotAvailable(config.Portal)},
		{"Project", orNotAvailable(config.Project)},
		{"Output", orNotAvailable(config.Output)},
		{"Client ID", orNotAvailable(config.ClientID)},
		{"Client secret", orNotAvailable(config.ClientSecret)},
		{"Redirect URL", orNotAvailable(config.RedirectURL)},
		{"Auth scheme", orNotAvailable(config.AuthScheme)},
		{"Legacy auth token", strconv.FormatBool(config.LegacyAuthToken)},
		{"Access token", orNotAvailable(config.AccessToken)},
		{"Refresh token", orNotAvailable(config.RefreshToken)},
	}

	if config.TokenExpiresAt != nil {
		rows = append(rows, []string{"Token expires", config.TokenExpiresAt.Format(time.RFC3339)})
	}

	for _, row := range rows {
		_ = table.Append(row)
	}

	return renderTable(table)
}
