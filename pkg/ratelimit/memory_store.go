package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sliding-window timestamps in process memory.
// Stale timestamps are pruned on access and keys left empty are removed, so
// there is no cleanup goroutine to stop.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string][]time.Time)}
}

// RecordIfAllowed implements Store.
func (s *MemoryStore) RecordIfAllowed(_ context.Context, key string, now time.Time, window time.Duration, limit, n int) (bool, int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	valid := s.prune(key, now, window)
	if len(valid)+n > limit {
		return false, len(valid), oldestOf(valid), nil
	}

	for range n {
		valid = append(valid, now)
	}
	s.windows[key] = valid
	return true, len(valid), oldestOf(valid), nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context, key string, now time.Time, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	valid := s.prune(key, now, window)
	return len(valid), oldestOf(valid), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// Keys returns the number of keys currently holding timestamps.
func (s *MemoryStore) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// prune drops timestamps not after now-window. Must be called with s.mu held.
func (s *MemoryStore) prune(key string, now time.Time, window time.Duration) []time.Time {
	timestamps, ok := s.windows[key]
	if !ok {
		return nil
	}

	cutoff := now.Add(-window)
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	if len(valid) == 0 {
		delete(s.windows, key)
		return nil
	}
	s.windows[key] = valid
	return valid
}

// timestamps are appended in call order, so the first one is the oldest.
func oldestOf(timestamps []time.Time) time.Time {
	if len(timestamps) == 0 {
		return time.Time{}
	}
	return timestamps[0]
}
