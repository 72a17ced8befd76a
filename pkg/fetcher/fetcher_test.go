package fetcher

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "tweetfetch/pkg/errors"
	"tweetfetch/pkg/logger"
	"tweetfetch/pkg/twitter"
)

// fakeAPI serves a fixed timeline sliced into pages of the requested size
type fakeAPI struct {
	user   twitter.User
	tweets []twitter.Tweet

	lookupErr error
	pageErr   error

	lookupCalls int
	pageCalls   int
	pageSizes   []int
}

func newFakeAPI(total int) *fakeAPI {
	api := &fakeAPI{
		user: twitter.User{ID: "12", Name: "Jack", Username: "jack"},
	}
	for i := 0; i < total; i++ {
		api.tweets = append(api.tweets, twitter.Tweet{
			ID:        fmt.Sprintf("%d", i+1),
			Text:      fmt.Sprintf("tweet %d", i+1),
			CreatedAt: "2023-01-01T12:00:00Z",
		})
	}
	return api
}

func (f *fakeAPI) LookupUser(username string) (*twitter.User, error) {
	f.lookupCalls++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return &f.user, nil
}

func (f *fakeAPI) FetchTweetsPage(userID, cursor string, pageSize int) (*twitter.TweetsResponse, error) {
	f.pageCalls++
	f.pageSizes = append(f.pageSizes, pageSize)
	if f.pageErr != nil {
		return nil, f.pageErr
	}

	offset := 0
	if cursor != "" {
		fmt.Sscanf(cursor, "cursor-%d", &offset)
	}

	end := offset + pageSize
	if end > len(f.tweets) {
		end = len(f.tweets)
	}

	resp := &twitter.TweetsResponse{Data: f.tweets[offset:end]}
	resp.Meta.ResultCount = len(resp.Data)
	if end < len(f.tweets) {
		resp.Meta.NextToken = fmt.Sprintf("cursor-%d", end)
	}
	return resp, nil
}

// countingLimiter records how many times Wait was called
type countingLimiter struct {
	waits int
}

func (c *countingLimiter) Allow() bool { return true }
func (c *countingLimiter) Wait()       { c.waits++ }
func (c *countingLimiter) Reset()      {}

func TestFetchUserTweetsAll(t *testing.T) {
	api := newFakeAPI(25)
	f := New(api, nil, 10, logger.NewTestLogger())

	tweets, err := f.FetchUserTweets("jack", 0)
	require.NoError(t, err)
	require.Len(t, tweets, 25)

	// API return order is preserved across page boundaries
	for i, tweet := range tweets {
		assert.Equal(t, fmt.Sprintf("%d", i+1), tweet.ID)
	}
	assert.Equal(t, 3, api.pageCalls)
}

func TestFetchUserTweetsSinglePage(t *testing.T) {
	api := newFakeAPI(7)
	f := New(api, nil, 10, logger.NewTestLogger())

	tweets, err := f.FetchUserTweets("jack", 0)
	require.NoError(t, err)
	assert.Len(t, tweets, 7)
	assert.Equal(t, 1, api.pageCalls)
}

func TestFetchUserTweetsEmptyTimeline(t *testing.T) {
	api := newFakeAPI(0)
	f := New(api, nil, 10, logger.NewTestLogger())

	tweets, err := f.FetchUserTweets("jack", 0)
	require.NoError(t, err)
	assert.Empty(t, tweets)
	assert.Equal(t, 1, api.pageCalls)
}

func TestFetchUserTweetsLimit(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		limit     int
		want      int
		wantPages int
	}{
		{"limit below one page", 100, 20, 10, 10, 1},
		{"limit equals page", 100, 20, 20, 20, 1},
		{"limit spans pages", 100, 20, 30, 30, 2},
		{"limit exceeds timeline", 15, 20, 50, 15, 1},
		{"no limit", 45, 20, 0, 45, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(tt.total)
			f := New(api, nil, tt.pageSize, logger.NewTestLogger())

			tweets, err := f.FetchUserTweets("jack", tt.limit)
			require.NoError(t, err)
			assert.Len(t, tweets, tt.want)
			assert.Equal(t, tt.wantPages, api.pageCalls,
				"no page may be requested after the limit is satisfied")
		})
	}
}

func TestFetchUserTweetsShrinksFirstPage(t *testing.T) {
	api := newFakeAPI(100)
	f := New(api, nil, 100, logger.NewTestLogger())

	tweets, err := f.FetchUserTweets("jack", 10)
	require.NoError(t, err)
	assert.Len(t, tweets, 10)
	require.NotEmpty(t, api.pageSizes)
	assert.Equal(t, 10, api.pageSizes[0], "first page request should match the limit")
}

func TestFetchUserTweetsPageSizeFloor(t *testing.T) {
	api := newFakeAPI(100)
	f := New(api, nil, 100, logger.NewTestLogger())

	tweets, err := f.FetchUserTweets("jack", 3)
	require.NoError(t, err)
	assert.Len(t, tweets, 3, "results are truncated to the limit")
	require.NotEmpty(t, api.pageSizes)
	assert.Equal(t, twitter.MinPageSize, api.pageSizes[0],
		"requested page size never drops below the API minimum")
}

func TestFetchUserTweetsLookupError(t *testing.T) {
	api := newFakeAPI(10)
	api.lookupErr = &errs.Error{Type: errs.ErrorTypeNotFound, Message: "user not found"}
	f := New(api, nil, 10, logger.NewTestLogger())

	tweets, err := f.FetchUserTweets("nosuchuser", 0)
	require.Error(t, err)
	assert.Nil(t, tweets)
	assert.Equal(t, 0, api.pageCalls)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.ErrorTypeNotFound, apiErr.Type)
}

func TestFetchUserTweetsPageErrorDiscardsPartial(t *testing.T) {
	api := newFakeAPI(10)
	api.pageErr = &errs.Error{Type: errs.ErrorTypeServerError, Message: "server error"}
	f := New(api, nil, 10, logger.NewTestLogger())

	tweets, err := f.FetchUserTweets("jack", 0)
	require.Error(t, err)
	assert.Nil(t, tweets)
	assert.Contains(t, err.Error(), "jack")
}

func TestFetchUserTweetsRateLimiterPacesRequests(t *testing.T) {
	api := newFakeAPI(25)
	limiter := &countingLimiter{}
	f := New(api, limiter, 10, logger.NewTestLogger())

	_, err := f.FetchUserTweets("jack", 0)
	require.NoError(t, err)

	// One wait for the lookup plus one per page
	assert.Equal(t, 1+api.pageCalls, limiter.waits)
}
