// Package requestid tags every request with a correlation id.
//
// Middleware reuses the client's X-Request-ID when it is 1 to 128
// characters of letters, digits, '-' or '_', and otherwise generates a
// UUID. The id is echoed in the response header and stored in the request
// context, where FromContext reads it and LoggerExtractor adds it to log
// records as request_id.
package requestid
