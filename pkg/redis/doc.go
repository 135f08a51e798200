// Package redis connects to Redis with go-redis/v9 and exposes a health check
// for readiness probes.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	sessions := form.NewRedisStore(client, cfg.Key("sessions"), ttl)
//	limits := ratelimiter.NewRedisStore(client, cfg.Key("ratelimit"))
//
// Connect pings up to RetryAttempts times, waiting RetryInterval between
// attempts, and fails with ErrRedisNotReady once the attempts or
// ConnectTimeout run out. Parse failures of the URL are
// reported as ErrFailedToParseRedisConnString.
package redis
