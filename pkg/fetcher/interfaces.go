package fetcher

import "tweetfetch/pkg/twitter"

// TwitterAPI defines the client operations the fetcher needs.
// Satisfied by *twitter.Client; tests inject fakes.
type TwitterAPI interface {
	// LookupUser resolves a username to a Twitter user
	LookupUser(username string) (*twitter.User, error)

	// FetchTweetsPage fetches one page of a user's tweets; an empty cursor
	// requests the first page
	FetchTweetsPage(userID string, cursor string, pageSize int) (*twitter.TweetsResponse, error)
}
