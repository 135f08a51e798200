package ratelimiter

import (
	"context"
	"time"
)

// Store keeps token bucket state per key.
type Store interface {
	// ConsumeTokens refills the bucket for the elapsed intervals and then
	// takes tokens. A negative remaining count means the request is denied.
	// Zero tokens only reports the state.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}
