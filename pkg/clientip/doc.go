// Package clientip resolves the originating client address of a request
// served behind reverse proxies.
//
// Headers are checked in priority order (DefaultHeaders: CF-Connecting-IP,
// X-Forwarded-For, X-Real-IP) and RemoteAddr is the fallback. Only trust
// headers your proxy overwrites; MiddlewareWithHeaders narrows the list.
//
//	r.Use(clientip.Middleware)
//	r.Use(ratelimiter.Middleware(limiter, clientip.FromRequest))
//
// LoggerExtractor adds the resolved address to log records as client_ip.
package clientip
