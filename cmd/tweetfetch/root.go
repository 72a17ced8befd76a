package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"tweetfetch/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tweetfetch",
	Short: "Download all tweets from a Twitter user as JSON",
	Long: `tweetfetch is a command-line tool for downloading every tweet a user has
authored via the Twitter API v2.

Features:
  - Cursor-based pagination across the full timeline
  - Local sqlite response cache (1 hour TTL) to avoid redundant API calls
  - Automatic retry with exponential backoff on rate limits and server errors
  - Bearer token storage in the system keychain or an encrypted file
  - JSON output named <username>_tweets.json`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Allow 'tweetfetch <username>' without the fetch subcommand
		if len(args) == 1 {
			return runFetch(args[0])
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .tweetfetch.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SilenceUsage = true

	rootCmd.SetVersionTemplate(`tweetfetch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Root accepts the same fetch flags for the shorthand form
	addFetchFlags(rootCmd)
}
