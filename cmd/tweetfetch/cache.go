package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tweetfetch/pkg/cache"
	"tweetfetch/pkg/config"
	"tweetfetch/pkg/ui"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the response cache",
	Long: `Inspect or clear the local sqlite response cache.

The cache stores raw API responses for one hour so repeated runs within that
window do not hit the Twitter API again.`,
}

// cacheStatsCmd prints cache counters
var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show response cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openConfiguredCache()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.GetStats()
		if err != nil {
			return fmt.Errorf("failed to read cache statistics: %w", err)
		}

		ui.PrintInfo("Cache file", store.Path())
		ui.PrintInfo("Total entries", fmt.Sprintf("%d", stats.TotalEntries))
		ui.PrintInfo("Valid entries", fmt.Sprintf("%d", stats.ValidEntries))
		ui.PrintInfo("Expired entries", fmt.Sprintf("%d", stats.ExpiredEntries))

		return nil
	},
}

// cacheClearCmd empties the cache
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all entries from the response cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openConfiguredCache()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}

		ui.PrintSuccess("Response cache cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// openConfiguredCache opens the cache store at the configured path
func openConfiguredCache() (*cache.Store, error) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", cfg.Cache.Path, err)
	}

	return store, nil
}
