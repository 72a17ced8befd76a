// Package ratelimit provides client-side request pacing for the Twitter API.
//
// The Twitter API enforces per-endpoint request quotas. Pacing requests on
// our side keeps a long pagination run from tripping the upstream limit and
// eating into the retry budget.
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - One token is taken per page request
//
// Interface:
//
// All limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// 60 requests per minute
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//
//	// Block until allowed, then proceed with the request
//	limiter.Wait()
package ratelimit
