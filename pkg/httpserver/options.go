package httpserver

import (
	"log/slog"
	"net"
	"time"
)

// Option configures the HTTP server. Zero or empty values are ignored.
type Option func(*options)

type options struct {
	addr              string
	readTimeout       time.Duration
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	maxHeaderBytes    int
	logger            *slog.Logger
	onStart           []func(addr net.Addr)
	onStop            []func()
}

func defaultOptions() options {
	return options{
		addr:              ":8080",
		readHeaderTimeout: 5 * time.Second,
		shutdownTimeout:   10 * time.Second,
		logger:            slog.New(slog.DiscardHandler),
	}
}

// WithAddr sets the listen address. Use "127.0.0.1:0" for a random port.
func WithAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.addr = addr
		}
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { o.readTimeout = positive(d, o.readTimeout) }
}

func WithReadHeaderTimeout(d time.Duration) Option {
	return func(o *options) { o.readHeaderTimeout = positive(d, o.readHeaderTimeout) }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = positive(d, o.writeTimeout) }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) { o.idleTimeout = positive(d, o.idleTimeout) }
}

// WithShutdownTimeout bounds how long in-flight requests may finish after
// the run context ends.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) { o.shutdownTimeout = positive(d, o.shutdownTimeout) }
}

func WithMaxHeaderBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxHeaderBytes = n
		}
	}
}

// WithLogger sets the server logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// OnStart registers a callback that runs once the listener is bound.
func OnStart(fn func(addr net.Addr)) Option {
	return func(o *options) {
		if fn != nil {
			o.onStart = append(o.onStart, fn)
		}
	}
}

// OnStop registers a callback that runs after shutdown completes.
func OnStop(fn func()) Option {
	return func(o *options) {
		if fn != nil {
			o.onStop = append(o.onStop, fn)
		}
	}
}

func positive(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
