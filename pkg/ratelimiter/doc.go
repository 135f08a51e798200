// Package ratelimiter provides token bucket rate limiting with memory and
// Redis stores and an HTTP middleware.
//
// A Bucket allows bursts up to Capacity and refills RefillRate tokens every
// RefillInterval. Denied requests do not drain the bucket.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       60,
//		RefillRate:     1,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	mux.Handle("/forms/", ratelimiter.Middleware(limiter, clientip.GetIP))
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every limited response and Retry-After when the
// request is rejected. Use WithLimitResponder and WithErrorResponder to
// render rejections in the application's error format.
//
// RedisStore keeps buckets in Redis hashes and updates them with a Lua
// script, so several instances share a single limit per key.
package ratelimiter
