// Package ratelimit implements a sliding-window rate limiter.
//
// A SlidingWindow keeps, per key, the timestamps of the requests it allowed
// during the trailing window. Every check prunes timestamps older than
// now minus the window; the request is allowed and recorded only while fewer
// than limit timestamps remain. A denied request leaves the state untouched.
//
// The algorithm talks to its state through the Store interface. MemoryStore
// keeps state in process and prunes lazily, without a background sweep.
// RedisStore keeps state in a Redis sorted set so several processes share one
// budget per key.
//
//	limiter, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 5, time.Hour)
//	if err != nil {
//		return err
//	}
//	res, err := limiter.Allow(ctx, accountID)
//	if err == nil && res.Allowed {
//		// send
//	}
package ratelimit
