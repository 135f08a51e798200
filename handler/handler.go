package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/formkit/pkg/binder"
)

// HandlerFunc handles a request bound into R.
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind parses a request into v. Binders return binder.ErrBinderNotApplicable
// to be skipped.
type Bind func(r *http.Request, v any) error

// ErrorHandler renders binding and rendering failures.
type ErrorHandler func(ctx Context, err error)

// Decorator runs around a handler. It calls next to continue and may
// replace the response.
type Decorator func(ctx Context, next func() Response) Response

// Option configures Wrap.
type Option func(*wrapConfig)

type wrapConfig struct {
	binders      []Bind
	errorHandler ErrorHandler
	decorators   []Decorator
}

// WithBinders appends binders; they run in order on a single request value.
func WithBinders(binders ...Bind) Option {
	return func(c *wrapConfig) { c.binders = append(c.binders, binders...) }
}

// WithErrorHandler replaces the default handler, which renders the JSON
// envelope without logging.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithDecorators appends decorators. The first one is the outermost.
func WithDecorators(decorators ...Decorator) Option {
	return func(c *wrapConfig) { c.decorators = append(c.decorators, decorators...) }
}

func renderError(ctx Context, err error) {
	info := ClassifyError(err)
	_ = JSONError(info.Detail, WithJSONStatus(info.StatusCode)).Render(ctx.ResponseWriter(), ctx.Request())
}

// Wrap adapts h to http.HandlerFunc.
//
//	r.Get("/{form}", handler.Wrap(describe,
//		handler.WithBinders(binder.Path(chi.URLParam)),
//		handler.WithErrorHandler(errorHandler),
//	))
func Wrap[R any](h HandlerFunc[R], opts ...Option) http.HandlerFunc {
	cfg := wrapConfig{errorHandler: renderError}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		var req R
		for _, bind := range cfg.binders {
			err := bind(r, &req)
			if err == nil || errors.Is(err, binder.ErrBinderNotApplicable) {
				continue
			}
			cfg.errorHandler(ctx, err)
			return
		}

		resp := run(ctx, cfg.decorators, func() Response { return h(ctx, req) })
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}

func run(ctx Context, decorators []Decorator, last func() Response) Response {
	if len(decorators) == 0 {
		return last()
	}
	return decorators[0](ctx, func() Response {
		return run(ctx, decorators[1:], last)
	})
}
