package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tweetfetch/pkg/auth"
	"tweetfetch/pkg/cache"
	"tweetfetch/pkg/config"
	"tweetfetch/pkg/fetcher"
	"tweetfetch/pkg/logger"
	"tweetfetch/pkg/output"
	"tweetfetch/pkg/ratelimit"
	"tweetfetch/pkg/twitter"
	"tweetfetch/pkg/ui"
)

var (
	// Fetch command flags
	limit      int
	pageSize   int
	outputDir  string
	noCache    bool
	maxRetries int
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <username>",
	Short: "Download all tweets from a Twitter user",
	Long: `Download every tweet a user has authored and write them to
<username>_tweets.json in the output directory.

A bearer token must be available through one of:
  - TWITTER_API_KEY environment variable (or a .env file)
  - Stored token (use 'tweetfetch auth set' to store)`,
	Example: `  # Download all tweets
  tweetfetch fetch jack

  # Download at most 10 tweets
  tweetfetch fetch jack --limit 10

  # Write to a specific directory, bypassing the response cache
  tweetfetch fetch jack --output ./archives --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(args[0])
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addFetchFlags(fetchCmd)
}

// addFetchFlags registers the fetch flags on a command. The root command
// carries the same set so 'tweetfetch <username>' works without the
// subcommand.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of tweets to download (0 = all)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "tweets per API page (5-100)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default: current directory)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	cmd.Flags().IntVar(&maxRetries, "max-retries", -1, "maximum attempts for transient errors (0 disables retries)")
}

func runFetch(rawUsername string) error {
	username := twitter.SanitizeUsername(strings.TrimSpace(rawUsername))
	if !twitter.IsValidUsername(username) {
		ui.PrintError("Invalid username", username)
		return fmt.Errorf("invalid username: %q", rawUsername)
	}

	// Build flags map from command line
	flags := make(map[string]interface{})
	if pageSize > 0 {
		flags["page-size"] = pageSize
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if noCache {
		flags["no-cache"] = true
	}
	if maxRetries >= 0 {
		flags["max-retries"] = maxRetries
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Configuration error", err)
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err)
		return err
	}
	log := logger.GetLogger()

	// Fall back to the stored token when the environment has none
	if cfg.Twitter.BearerToken == "" {
		if manager, err := auth.NewManager(); err == nil {
			if token, err := manager.Retrieve(); err == nil {
				cfg.Twitter.BearerToken = token
			}
		}
	}

	// Surfaced before any network activity
	if err := cfg.ValidateToken(); err != nil {
		ui.PrintError("Configuration error", err)
		return err
	}

	ui.PrintInfo("Target user", username)
	if limit > 0 {
		ui.PrintInfo("Limit", fmt.Sprintf("%d tweets", limit))
	}

	var responseCache twitter.ResponseCache
	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			// A broken cache degrades to always-miss, never a fatal error
			log.WarnWithFields("response cache unavailable, continuing without it", map[string]interface{}{
				"path":  cfg.Cache.Path,
				"error": err.Error(),
			})
		} else {
			defer store.Close()
			if _, err := store.CleanupExpired(); err != nil {
				log.WithError(err).Warn("failed to clean up expired cache entries")
			}
			responseCache = store
		}
	}

	client := twitter.NewClient(cfg, responseCache, log)
	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)
	f := fetcher.New(client, limiter, cfg.Twitter.PageSize, log)

	tweets, err := f.FetchUserTweets(username, limit)
	if err != nil {
		ui.PrintError("Fetch failed", err)
		return err
	}

	writer := output.NewWriter(cfg.Output.Directory, log)
	path, err := writer.Write(username, tweets)
	if err != nil {
		ui.PrintError("Failed to write output", err)
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Saved %d tweets to %s", len(tweets), path))
	fmt.Println(path)

	return nil
}
