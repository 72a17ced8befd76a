package twitter

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// DefaultBaseURL is the base URL for the Twitter API v2
	DefaultBaseURL = "https://api.twitter.com/2"

	// DefaultPageSize is the default number of tweets to request per page
	DefaultPageSize = 100

	// MinPageSize is the smallest max_results value the API accepts
	MinPageSize = 5

	// MaxPageSize is the largest max_results value the API accepts
	MaxPageSize = 100
)

// UserByUsernamePath returns the endpoint path and query parameters for
// looking up a user by username
func UserByUsernamePath(username string) (string, url.Values) {
	return fmt.Sprintf("/users/by/username/%s", url.PathEscape(username)), url.Values{}
}

// UserTweetsPath returns the endpoint path and query parameters for fetching
// a page of a user's tweets. An empty cursor requests the first page.
func UserTweetsPath(userID string, cursor string, pageSize int) (string, url.Values) {
	if pageSize < MinPageSize {
		pageSize = DefaultPageSize
	} else if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	params := url.Values{}
	params.Set("max_results", strconv.Itoa(pageSize))
	params.Set("tweet.fields", "created_at")
	if cursor != "" {
		params.Set("pagination_token", cursor)
	}

	return fmt.Sprintf("/users/%s/tweets", url.PathEscape(userID)), params
}

// IsValidUsername checks if a username is valid according to Twitter rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 15 {
		return false
	}

	// Twitter usernames can only contain letters, numbers, and underscores
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '_') {
			return false
		}
	}

	return true
}

// SanitizeUsername removes any decoration from a username
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}

	// Remove @ symbol if present at the beginning
	if username[0] == '@' {
		username = username[1:]
	}

	// Remove any trailing slashes or spaces
	for len(username) > 0 && (username[len(username)-1] == '/' || username[len(username)-1] == ' ') {
		username = username[:len(username)-1]
	}

	return username
}
