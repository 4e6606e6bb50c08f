package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces limiter keys in a shared Redis.
const DefaultRedisKeyPrefix = "ratelimit:"

// recordScript prunes, checks and records in one round trip so concurrent
// processes cannot both take the last slot.
//
// KEYS[1] window key; ARGV: now ms, window ms, limit, n, member ids.
var recordScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local n = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count + n <= limit then
	for i = 1, n do
		redis.call('ZADD', key, now, ARGV[4 + i])
	end
	redis.call('PEXPIRE', key, window)
	count = count + n
	allowed = 1
end

local oldest = 0
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if #first == 2 then
	oldest = tonumber(first[2])
end
return {allowed, count, oldest}
`)

// RedisStore keeps sliding-window timestamps in Redis sorted sets, scored
// by unix milliseconds. Keys expire one window after the last allowed request.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix overrides DefaultRedisKeyPrefix.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// NewRedisStore creates a store backed by client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}
	s := &RedisStore{client: client, prefix: DefaultRedisKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RecordIfAllowed implements Store.
func (s *RedisStore) RecordIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit, n int) (bool, int, time.Time, error) {
	args := make([]any, 0, 4+n)
	args = append(args, now.UnixMilli(), window.Milliseconds(), limit, n)
	for range n {
		args = append(args, uuid.NewString())
	}

	res, err := recordScript.Run(ctx, s.client, []string{s.prefix + key}, args...).Int64Slice()
	if err != nil {
		return false, 0, time.Time{}, err
	}
	if len(res) != 3 {
		return false, 0, time.Time{}, ErrStoreFailure
	}

	return res[0] == 1, int(res[1]), fromMillis(res[2]), nil
}

// Count implements Store.
func (s *RedisStore) Count(ctx context.Context, key string, now time.Time, window time.Duration) (int, time.Time, error) {
	lower := "(" + strconv.FormatInt(now.Add(-window).UnixMilli(), 10)

	entries, err := s.client.ZRangeByScoreWithScores(ctx, s.prefix+key, &redis.ZRangeBy{
		Min: lower,
		Max: "+inf",
	}).Result()
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(entries) == 0 {
		return 0, time.Time{}, nil
	}
	return len(entries), fromMillis(int64(entries[0].Score)), nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
