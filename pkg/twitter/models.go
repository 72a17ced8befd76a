package twitter

// Tweet represents a single tweet as returned by the Twitter API v2.
// Fields are passed through to output unmodified.
type Tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// User represents a Twitter user
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// APIError is a partial-error object embedded in v2 responses
type APIError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

// UserResponse is the response envelope for the user lookup endpoint
type UserResponse struct {
	Data   User       `json:"data"`
	Errors []APIError `json:"errors,omitempty"`
}

// Meta carries pagination information for a tweets page
type Meta struct {
	ResultCount int    `json:"result_count"`
	NewestID    string `json:"newest_id,omitempty"`
	OldestID    string `json:"oldest_id,omitempty"`
	NextToken   string `json:"next_token,omitempty"`
}

// TweetsResponse is the response envelope for the user tweets endpoint.
// An absent Meta.NextToken signals the final page.
type TweetsResponse struct {
	Data   []Tweet    `json:"data"`
	Meta   Meta       `json:"meta"`
	Errors []APIError `json:"errors,omitempty"`
}
