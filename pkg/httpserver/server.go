package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Server runs an http.Server until its context ends and then drains
// in-flight requests.
type Server struct {
	opts    options
	running atomic.Bool
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{opts: o}
}

// Run listens on the configured address and serves handler until ctx is
// done. Request contexts derive from ctx. It returns nil after a clean
// shutdown.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	if handler == nil {
		handler = http.NotFoundHandler()
	}

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.opts.addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}
	return s.Serve(ctx, ln, handler)
}

// Serve is Run on an existing listener. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	log := s.opts.logger.With(logger.Component("http_server"))

	// requests keep running during shutdown
	baseCtx := context.WithoutCancel(ctx)
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       s.opts.readTimeout,
		ReadHeaderTimeout: s.opts.readHeaderTimeout,
		WriteTimeout:      s.opts.writeTimeout,
		IdleTimeout:       s.opts.idleTimeout,
		MaxHeaderBytes:    s.opts.maxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	log.InfoContext(ctx, "http server listening", slog.String("addr", ln.Addr().String()))
	for _, fn := range s.opts.onStart {
		fn(ln.Addr())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Join(ErrStart, err)
	case <-ctx.Done():
	}

	log.InfoContext(baseCtx, "shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(baseCtx, s.opts.shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	<-errCh
	for _, fn := range s.opts.onStop {
		fn()
	}
	if err != nil {
		_ = srv.Close()
		return errors.Join(ErrShutdown, err)
	}
	log.InfoContext(baseCtx, "http server stopped")
	return nil
}
