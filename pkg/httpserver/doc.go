// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts and health-check handlers.
//
// Run blocks until ctx is done, then drains in-flight requests within
// ShutdownTimeout. Tie ctx to process signals with signal.NotifyContext:
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.HealthCheckHandler(log))
//	r.Get("/health/ready", httpserver.HealthCheckHandler(log,
//		httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//	))
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Listen failures are wrapped with ErrStart and shutdown failures with
// ErrShutdown. OnStart receives the bound address, which is handy with
// "127.0.0.1:0" in tests.
package httpserver
