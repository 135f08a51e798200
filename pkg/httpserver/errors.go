package httpserver

import "errors"

var (
	// ErrStart indicates that the server failed to listen or serve.
	ErrStart = errors.New("failed to start HTTP server")
	// ErrShutdown indicates that in-flight requests did not finish in time.
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
	// ErrAlreadyRunning is returned by a second concurrent Run.
	ErrAlreadyRunning = errors.New("http server already running")
)
