package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the tweet downloader
type Config struct {
	// Twitter API settings
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Retry behaviour for transient API failures
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Client-side request pacing
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Response cache settings
	Cache CacheConfig `yaml:"cache" json:"cache"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds Twitter API specific configuration
type TwitterConfig struct {
	BearerToken string        `yaml:"bearer_token" json:"bearer_token"`
	BaseURL     string        `yaml:"base_url" json:"base_url"`
	PageSize    int           `yaml:"page_size" json:"page_size"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// RetryConfig holds retry configuration for API requests
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
}

// RateLimitConfig holds client-side pacing configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Path    string        `yaml:"path" json:"path"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultCachePath is the fixed location of the response cache database
const DefaultCachePath = "twitter_cache.sqlite"

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			BaseURL:  "https://api.twitter.com/2",
			PageSize: 100,
			Timeout:  30 * time.Second,
		},
		Retry: RetryConfig{
			Enabled:     true,
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    60 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    DefaultCachePath,
			TTL:     time.Hour,
		},
		Output: OutputConfig{
			Directory: ".",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// Bearer token, TWITTER_API_KEY kept for compatibility with older setups
	if token := os.Getenv("TWITTER_API_KEY"); token != "" {
		c.Twitter.BearerToken = token
	}
	if token := os.Getenv("TWEETFETCH_BEARER_TOKEN"); token != "" {
		c.Twitter.BearerToken = token
	}
	if baseURL := os.Getenv("TWEETFETCH_BASE_URL"); baseURL != "" {
		c.Twitter.BaseURL = baseURL
	}

	if pageSize := os.Getenv("TWEETFETCH_PAGE_SIZE"); pageSize != "" {
		var val int
		fmt.Sscanf(pageSize, "%d", &val)
		if val > 0 {
			c.Twitter.PageSize = val
		}
	}

	if rpm := os.Getenv("TWEETFETCH_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if outputDir := os.Getenv("TWEETFETCH_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	if cacheEnabled := os.Getenv("TWEETFETCH_CACHE_ENABLED"); cacheEnabled != "" {
		c.Cache.Enabled = strings.ToLower(cacheEnabled) == "true"
	}

	if logLevel := os.Getenv("TWEETFETCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".tweetfetch.yaml",
		".tweetfetch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "tweetfetch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "tweetfetch", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".tweetfetch.yaml"),
		filepath.Join(os.Getenv("HOME"), ".tweetfetch.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
// The bearer token is deliberately not checked here: commands that never
// touch the API (cache inspection, auth management) must work without one.
// Use ValidateToken before network activity.
func (c *Config) Validate() error {
	var errs []error

	if c.Twitter.BaseURL == "" {
		errs = append(errs, errors.New("twitter base URL is required"))
	}
	if c.Twitter.PageSize < 5 || c.Twitter.PageSize > 100 {
		errs = append(errs, errors.New("page size must be between 5 and 100"))
	}
	if c.Twitter.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("max retry attempts cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache TTL must be positive"))
	}
	if c.Cache.Path == "" {
		errs = append(errs, errors.New("cache path is required"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ValidateToken reports whether a bearer token is configured.
// Called before any network request is attempted.
func (c *Config) ValidateToken() error {
	if c.Twitter.BearerToken == "" {
		return errors.New("no bearer token configured: set TWITTER_API_KEY (or use 'tweetfetch auth set')")
	}
	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["bearer-token"].(string); ok && token != "" {
		c.Twitter.BearerToken = token
	}
	if pageSize, ok := flags["page-size"].(int); ok && pageSize > 0 {
		c.Twitter.PageSize = pageSize
	}
	if maxRetries, ok := flags["max-retries"].(int); ok && maxRetries >= 0 {
		c.Retry.MaxAttempts = maxRetries
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if noCache, ok := flags["no-cache"].(bool); ok && noCache {
		c.Cache.Enabled = false
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tweetfetch.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
