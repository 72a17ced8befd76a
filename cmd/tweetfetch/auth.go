package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tweetfetch/pkg/auth"
	"tweetfetch/pkg/ui"
)

var authToken string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored Twitter bearer token",
	Long: `Manage the bearer token used to authenticate against the Twitter API.

The token is stored in the system keychain when available, falling back to
an encrypted file in the config directory. The TWITTER_API_KEY environment
variable always takes precedence over the stored token.`,
}

// authSetCmd stores a bearer token
var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a bearer token",
	Example: `  # Prompt for the token (input is hidden)
  tweetfetch auth set

  # Non-interactive
  tweetfetch auth set --token AAAA...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := authToken
		if token == "" {
			var err error
			token, err = promptForToken()
			if err != nil {
				return err
			}
		}

		token = strings.TrimSpace(token)
		if token == "" {
			return fmt.Errorf("no token provided")
		}

		manager, err := auth.NewManager()
		if err != nil {
			return fmt.Errorf("failed to open token storage: %w", err)
		}

		if err := manager.Store(token); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}

		ui.PrintSuccess("Bearer token stored")
		return nil
	},
}

// authStatusCmd reports whether a token is available
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a bearer token is configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("TWITTER_API_KEY") != "" || os.Getenv("TWEETFETCH_BEARER_TOKEN") != "" {
			ui.PrintInfo("Bearer token", "set via environment")
			return nil
		}

		manager, err := auth.NewManager()
		if err != nil {
			return fmt.Errorf("failed to open token storage: %w", err)
		}

		if manager.Exists() {
			ui.PrintInfo("Bearer token", "stored")
		} else {
			ui.PrintInfo("Bearer token", "not configured")
		}
		return nil
	},
}

// authRemoveCmd deletes the stored token
var authRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete the stored bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := auth.NewManager()
		if err != nil {
			return fmt.Errorf("failed to open token storage: %w", err)
		}

		if err := manager.Delete(); err != nil {
			if err == auth.ErrTokenNotFound {
				ui.PrintWarning("No stored token to remove")
				return nil
			}
			return fmt.Errorf("failed to remove token: %w", err)
		}

		ui.PrintSuccess("Bearer token removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRemoveCmd)

	authSetCmd.Flags().StringVar(&authToken, "token", "", "bearer token (omit to be prompted)")
}

// promptForToken reads the token from the terminal without echoing it
func promptForToken() (string, error) {
	fmt.Fprint(os.Stderr, "Bearer token: ")

	if term.IsTerminal(int(syscall.Stdin)) {
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return string(tokenBytes), nil
	}

	// Piped input
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return line, nil
}
