package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// SlidingWindow implements a sliding window rate limiter that tracks
// individual request timestamps within a moving time window.
type SlidingWindow struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

var _ Limiter = (*SlidingWindow)(nil)

// Option configures a SlidingWindow.
type Option func(*SlidingWindow)

// WithClock overrides time.Now. Used by tests to move time forward.
func WithClock(now func() time.Time) Option {
	return func(sw *SlidingWindow) {
		if now != nil {
			sw.now = now
		}
	}
}

// NewSlidingWindow creates a new sliding window rate limiter.
func NewSlidingWindow(store Store, limit int, window time.Duration, opts ...Option) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	sw := &SlidingWindow{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(sw)
	}
	return sw, nil
}

// Allow checks if a single request is allowed for the given key.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	return sw.AllowN(ctx, key, 1)
}

// AllowN checks if n requests are allowed for the given key. Either all n
// are recorded or none.
func (sw *SlidingWindow) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	now := sw.now()
	allowed, count, oldest, err := sw.store.RecordIfAllowed(ctx, key, now, sw.window, sw.limit, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return sw.result(allowed, count, oldest, now), nil
}

// Status returns the current rate limit status without consuming a slot.
func (sw *SlidingWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := sw.now()
	count, oldest, err := sw.store.Count(ctx, key, now, sw.window)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return sw.result(count < sw.limit, count, oldest, now), nil
}

// Reset resets the rate limit for the given key.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	if err := sw.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return nil
}

func (sw *SlidingWindow) result(allowed bool, count int, oldest, now time.Time) *Result {
	resetAt := now
	if !oldest.IsZero() {
		resetAt = oldest.Add(sw.window)
	}
	return &Result{
		Allowed:   allowed,
		Limit:     sw.limit,
		Remaining: max(0, sw.limit-count),
		ResetAt:   resetAt,
	}
}
