package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces rate limit keys.
const DefaultRedisPrefix = "formkit:ratelimit:"

// consumeScript runs the token bucket update atomically. It mirrors
// MemoryStore.ConsumeTokens; times are unix milliseconds.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local tokens = tonumber(ARGV[4])
local now = tonumber(ARGV[5])
local ttl = tonumber(ARGV[6])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'refill')
local current = tonumber(state[1])
local refill = tonumber(state[2])
if current == nil or refill == nil then
  current = capacity
  refill = now
end

local intervals = math.floor((now - refill) / interval)
local cap = math.floor(capacity / rate) + 1
if intervals > cap then
  intervals = cap
end
if intervals > 0 then
  current = math.min(current + intervals * rate, capacity)
  refill = now
end

local remaining
if current >= tokens then
  current = current - tokens
  remaining = current
else
  remaining = current - tokens
end

redis.call('HSET', KEYS[1], 'tokens', current, 'refill', refill)
redis.call('PEXPIRE', KEYS[1], ttl)
return {remaining, refill}
`)

// RedisStore implements Store on Redis so limits hold across instances.
type RedisStore struct {
	client redis.Scripter
	prefix string
}

// NewRedisStore creates a store on top of an established client.
func NewRedisStore(client redis.Scripter, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// ConsumeTokens implements Store.
func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	now := time.Now().UnixMilli()
	res, err := consumeScript.Run(ctx, s.client, []string{s.prefix + key},
		config.Capacity,
		config.RefillRate,
		config.RefillInterval.Milliseconds(),
		tokens,
		now,
		config.ttl().Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script result %v", ErrStoreUnavailable, res)
	}

	resetAt := time.UnixMilli(res[1]).Add(config.RefillInterval)
	return int(res[0]), resetAt, nil
}

// Reset implements Store.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
