// Package twitter provides a client for the Twitter API v2 endpoints used to
// list a user's tweets.
//
// This package includes:
//   - An authenticated HTTP client with bounded timeouts and retry
//   - A read-through response cache consulted before every request
//   - Type-safe models for API responses
//   - Helper functions for constructing endpoint paths
//
// Example usage:
//
//	client := twitter.NewClient(cfg, store, log)
//
//	user, err := client.LookupUser("username")
//	if err != nil {
//	    var apiErr *errors.Error
//	    if errors.As(err, &apiErr) && apiErr.Type == errors.ErrorTypeNotFound {
//	        // unknown username
//	    }
//	}
//
//	page, err := client.FetchTweetsPage(user.ID, "", 100)
//	// page.Meta.NextToken carries the cursor for the following page
package twitter
