package twitter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tweetfetch/pkg/cache"
	"tweetfetch/pkg/config"
	errs "tweetfetch/pkg/errors"
	"tweetfetch/pkg/logger"
	"tweetfetch/pkg/retry"
)

// ResponseCache is the cache consulted before each API request. A nil cache
// disables caching entirely; a failing cache degrades to always-miss.
type ResponseCache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, body []byte, ttl time.Duration) error
}

// Client is an authenticated Twitter API v2 client with a read-through
// response cache
type Client struct {
	httpClient  *http.Client
	baseURL     string
	bearerToken string
	cache       ResponseCache
	cacheTTL    time.Duration
	retryCfg    *retry.Config
	logger      logger.Logger
}

// NewClient creates a new Twitter API client. responseCache may be nil when
// caching is disabled.
func NewClient(cfg *config.Config, responseCache ResponseCache, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	// MaxAttempts of zero means the user asked for no retries; it must not
	// reach retry.Config, where zero lifts the attempt bound entirely.
	var retryCfg *retry.Config
	if cfg.Retry.Enabled && cfg.Retry.MaxAttempts > 0 {
		backoff := retry.NewErrorTypeBackoff()
		backoff.DefaultBackoff = &retry.ExponentialBackoff{
			BaseDelay:    cfg.Retry.BaseDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		}
		retryCfg = &retry.Config{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff:     backoff,
			RetryIf:     retry.DefaultRetryIf,
			Logger:      log,
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Twitter.Timeout,
		},
		baseURL:     cfg.Twitter.BaseURL,
		bearerToken: cfg.Twitter.BearerToken,
		cache:       responseCache,
		cacheTTL:    cfg.Cache.TTL,
		retryCfg:    retryCfg,
		logger:      log,
	}
}

// LookupUser resolves a username to a Twitter user
func (c *Client) LookupUser(username string) (*User, error) {
	path, params := UserByUsernamePath(username)

	c.logger.DebugWithFields("looking up user", map[string]interface{}{
		"username": username,
	})

	body, err := c.getCached(path, params)
	if err != nil {
		c.logger.ErrorWithFields("failed to look up user", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return nil, err
	}

	var response UserResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse user response: %v", err),
		}
	}

	// The API reports unknown usernames as a 200 with an errors array
	if response.Data.ID == "" {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: fmt.Sprintf("user %q not found", username),
			Code:    http.StatusNotFound,
		}
	}

	c.logger.DebugWithFields("resolved user", map[string]interface{}{
		"username": username,
		"user_id":  response.Data.ID,
	})

	return &response.Data, nil
}

// FetchTweetsPage fetches one page of a user's tweets. An empty cursor
// requests the first page.
func (c *Client) FetchTweetsPage(userID string, cursor string, pageSize int) (*TweetsResponse, error) {
	path, params := UserTweetsPath(userID, cursor, pageSize)

	c.logger.DebugWithFields("fetching tweets page", map[string]interface{}{
		"user_id": userID,
		"cursor":  cursor,
	})

	body, err := c.getCached(path, params)
	if err != nil {
		c.logger.ErrorWithFields("failed to fetch tweets page", map[string]interface{}{
			"user_id": userID,
			"cursor":  cursor,
			"error":   err.Error(),
		})
		return nil, err
	}

	var response TweetsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse tweets response", map[string]interface{}{
			"user_id":      userID,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse tweets response: %v", err),
		}
	}

	return &response, nil
}

// getCached returns the response body for a request, consulting the cache
// first and writing through after a successful network fetch
func (c *Client) getCached(path string, params url.Values) ([]byte, error) {
	key := cache.Key(path, params)

	if c.cache != nil {
		body, ok, err := c.cache.Get(key)
		if err != nil {
			// Storage trouble degrades to a miss, never fails the fetch
			c.logger.WarnWithFields("cache read failed, treating as miss", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		} else if ok {
			c.logger.DebugWithFields("cache hit", map[string]interface{}{
				"key": key,
			})
			return body, nil
		}
	}

	body, err := c.fetch(path, params)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(key, body, c.cacheTTL); err != nil {
			c.logger.WarnWithFields("cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return body, nil
}

// fetch performs the network request, with retries when enabled
func (c *Client) fetch(path string, params url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	if c.retryCfg == nil {
		return c.doGet(requestURL)
	}

	return retry.DoWithResult(func() ([]byte, error) {
		return c.doGet(requestURL)
	}, c.retryCfg)
}

// doGet performs a single authenticated GET request
func (c *Client) doGet(requestURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("User-Agent", "tweetfetch")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      requestURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      requestURL,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return body, nil
}

// checkResponseStatus maps HTTP status codes onto the error taxonomy
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return &errs.Error{
			Type:    errs.ErrorTypeAuth,
			Message: "authentication failed, check the bearer token",
			Code:    resp.StatusCode,
		}
	case http.StatusNotFound:
		return &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"url": resp.Request.URL.String(),
		})
		return &errs.Error{
			Type:       errs.ErrorTypeRateLimit,
			Message:    "rate limit exceeded",
			Code:       resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &errs.Error{
			Type:    errs.ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	default:
		if resp.StatusCode >= 400 {
			errType := errs.ErrorTypeUnknown
			if errs.IsRetryableStatusCode(resp.StatusCode) {
				errType = errs.ErrorTypeServerError
			}
			return &errs.Error{
				Type:    errType,
				Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
				Code:    resp.StatusCode,
			}
		}
		return nil
	}
}

// parseRetryAfter reads a Retry-After header value in seconds
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
