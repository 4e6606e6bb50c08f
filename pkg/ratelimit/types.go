package ratelimit

import (
	"context"
	"time"
)

// Result contains the result of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests remaining in the current window.
	Remaining int

	// ResetAt is the time when the oldest counted request leaves the window.
	ResetAt time.Time
}

// RetryAfter returns how long to wait, measured from now, before the next
// request can be allowed. Returns 0 if the request was allowed.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed || !r.ResetAt.After(now) {
		return 0
	}
	return r.ResetAt.Sub(now)
}

// Limiter is what delivery channels depend on.
type Limiter interface {
	// Allow checks if a single request is allowed for the given key.
	// If allowed, it consumes one slot.
	Allow(ctx context.Context, key string) (*Result, error)

	// Status returns the current state for key without consuming a slot.
	Status(ctx context.Context, key string) (*Result, error)

	// Reset forgets every recorded request for key.
	Reset(ctx context.Context, key string) error
}

// Store holds per-key request timestamps for the sliding window.
// Implementations must be safe for concurrent use.
type Store interface {
	// RecordIfAllowed prunes timestamps not after now-window, then records n
	// copies of now if the remaining count plus n does not exceed limit.
	// It returns whether the timestamps were recorded, the count after the
	// operation and the oldest timestamp still in the window.
	RecordIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit, n int) (allowed bool, count int, oldest time.Time, err error)

	// Count returns the number of timestamps after now-window and the oldest of them.
	Count(ctx context.Context, key string, now time.Time, window time.Duration) (count int, oldest time.Time, err error)

	// Delete removes the key.
	Delete(ctx context.Context, key string) error
}
