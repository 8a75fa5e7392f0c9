package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/zoho-projects/internal/auth"
	"github.com/fivetwenty-io/zoho-projects/internal/constants"
)

const defaultLoginTimeout = 5 * time.Minute

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		redirectURL  string
		noBrowser    bool
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to Zoho Projects",
		Long: `Run the OAuth2 authorization code flow in the browser and store the issued
access and refresh tokens in the configuration file.

The client id and secret come from the flags, ZOHO_CLIENT_ID/ZOHO_CLIENT_SECRET or the
configuration file. The secret is prompted for when missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if clientID != "" {
				config.ClientID = clientID
			}

			if clientSecret != "" {
				config.ClientSecret = clientSecret
			}

			if redirectURL != "" {
				config.RedirectURL = redirectURL
			}

			if config.ClientID == "" {
				return constants.ErrNoClientCredentials
			}

			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return constants.ErrNotInteractive
			}

			if config.ClientSecret == "" {
				secret, err := promptSecret(cmd)
				if err != nil {
					return err
				}

				config.ClientSecret = secret
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return runLogin(ctx, cmd, config, noBrowser)
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret")
	cmd.Flags().StringVar(&redirectURL, "redirect-url", "", "redirect URL registered for the client (default "+constants.DefaultRedirectURL+")")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the authorization URL without opening a browser")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultLoginTimeout, "how long to wait for the browser redirect")

	return cmd
}

func promptSecret(cmd *cobra.Command) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Client secret: ")

	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("failed to read client secret: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}

func runLogin(ctx context.Context, cmd *cobra.Command, config *Config, noBrowser bool) error {
	logger := NewLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))

	redirect := config.RedirectURL
	if redirect == "" {
		redirect = constants.DefaultRedirectURL
	}

	supplier := auth.NewLocalCallbackSupplier(redirect)
	supplier.Out = cmd.ErrOrStderr()
	supplier.Logger = logger

	if noBrowser {
		supplier.OpenBrowser = nil
	}

	// No previous tokens, so the manager has to run the code flow.
	manager := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  redirect,
		CodeSupplier: supplier,
		Logger:       logger,
	})

	err := manager.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	token := manager.Token()

	err = saveConfigStruct(config)
	if err != nil {
		return err
	}

	err = NewConfigPersister().UpdateToken(token.AccessToken, token.ExpiresAt, token.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged in")

	if token.RefreshToken == "" {
		logger.Warn("No refresh token was issued, you will have to log in again when the token expires", nil)
	}

	return nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget stored tokens",
		Long:  "Remove the access and refresh tokens from the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.AccessToken = ""
			config.RefreshToken = ""
			config.TokenExpiresAt = nil
			config.LastRefreshed = nil

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}
