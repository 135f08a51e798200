package clientip

import "net/http"

// Middleware resolves the client IP once per request and stores it in the
// request context.
func Middleware(next http.Handler) http.Handler {
	return MiddlewareWithHeaders(DefaultHeaders...)(next)
}

// MiddlewareWithHeaders is Middleware with a custom list of trusted headers.
// An empty list trusts only RemoteAddr.
func MiddlewareWithHeaders(headers ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := FromHeaders(r, headers...)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), ip)))
		})
	}
}
