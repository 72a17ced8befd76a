package fetcher

import (
	"fmt"

	"tweetfetch/pkg/logger"
	"tweetfetch/pkg/ratelimit"
	"tweetfetch/pkg/twitter"
)

// Fetcher walks the paginated tweets endpoint for a user, accumulating
// results across pages. Pagination is inherently sequential: each cursor
// comes from the previous response.
type Fetcher struct {
	client   TwitterAPI
	limiter  ratelimit.Limiter
	pageSize int
	logger   logger.Logger
}

// New creates a new Fetcher
func New(client TwitterAPI, limiter ratelimit.Limiter, pageSize int, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	return &Fetcher{
		client:   client,
		limiter:  limiter,
		pageSize: pageSize,
		logger:   log,
	}
}

// FetchUserTweets fetches tweets authored by username, in API return order,
// until the API reports no further pages or limit is reached. A limit <= 0
// means no limit. On any terminal error the partial collection is discarded.
func (f *Fetcher) FetchUserTweets(username string, limit int) ([]twitter.Tweet, error) {
	f.limiter.Wait()
	user, err := f.client.LookupUser(username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %q: %w", username, err)
	}

	f.logger.InfoWithFields("fetching tweets", map[string]interface{}{
		"username": username,
		"user_id":  user.ID,
		"limit":    limit,
	})

	pageSize := f.pageSize
	if limit > 0 && limit < pageSize {
		// No point requesting more than the caller wants on the first page
		pageSize = limit
		if pageSize < twitter.MinPageSize {
			pageSize = twitter.MinPageSize
		}
	}

	var tweets []twitter.Tweet
	cursor := ""
	pages := 0

	for {
		// Never request another page once the limit is satisfied
		if limit > 0 && len(tweets) >= limit {
			break
		}

		f.limiter.Wait()
		page, err := f.client.FetchTweetsPage(user.ID, cursor, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tweets for %q: %w", username, err)
		}

		tweets = append(tweets, page.Data...)
		pages++

		f.logger.DebugWithFields("fetched page", map[string]interface{}{
			"page":        pages,
			"page_tweets": len(page.Data),
			"total":       len(tweets),
		})

		if page.Meta.NextToken == "" {
			break
		}
		cursor = page.Meta.NextToken
	}

	if limit > 0 && len(tweets) > limit {
		tweets = tweets[:limit]
	}

	f.logger.InfoWithFields("finished fetching tweets", map[string]interface{}{
		"username": username,
		"tweets":   len(tweets),
		"pages":    pages,
	})

	return tweets, nil
}
