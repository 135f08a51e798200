// Package logger builds *slog.Logger values from functional options and
// provides attribute helpers with consistent key names.
//
// New writes JSON at info level to stdout by default. Registered
// ContextExtractor functions add attributes from the context passed to the
// *Context logging methods, which is how request ids and client addresses
// reach every record of a request:
//
//	log := logger.New(
//		logger.WithConfig(cfg.Log),
//		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.WarnContext(ctx, "form rejected",
//		logger.Form("checkout"),
//		logger.Violations(results.Failed()),
//	)
//
// WithConfig applies APP_ENV, LOG_LEVEL and LOG_FORMAT: development logs
// debug text, other environments info JSON. Error and Errors return an empty
// attribute for nil errors, so they need no guard.
package logger
