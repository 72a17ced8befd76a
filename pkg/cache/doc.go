// Package cache provides a sqlite-backed response cache for Twitter API
// requests.
//
// Responses are stored raw, keyed by a deterministic request signature
// (endpoint path plus canonically encoded query parameters) with a
// time-to-live. Reads past the TTL report a miss; the stale row is replaced
// on the next write-through.
//
// Cache failures are never fatal to a fetch: callers treat any storage error
// as a miss and go to the network.
//
// Usage:
//
//	store, err := cache.Open("twitter_cache.sqlite")
//	if err != nil {
//	    // fall back to uncached operation
//	}
//	defer store.Close()
//
//	key := cache.Key("/2/users/123/tweets", params)
//	if body, ok, _ := store.Get(key); ok {
//	    // use cached body
//	}
//	store.Put(key, body, time.Hour)
package cache
