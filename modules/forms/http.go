package forms

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/formkit/handler"
	"github.com/dmitrymomot/formkit/pkg/binder"
	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/ratelimiter"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Handle returns the JSON API of the service.
//
//	r := chi.NewRouter()
//	r.Mount("/forms", svc.Handle())
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(i18n.Middleware(s.langExtractor()))
	if s.limiter != nil {
		r.Use(ratelimiter.Middleware(s.limiter, s.limitBy,
			ratelimiter.WithLimitResponder(s.rejectRequest(ErrTooManyRequests)),
			ratelimiter.WithErrorResponder(s.rejectRequest(ErrServiceUnavailable)),
		))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.errorHandler(handler.NewContext(w, r), handler.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.errorHandler(handler.NewContext(w, r), handler.ErrMethodNotAllowed)
	})

	path := binder.Path(chi.URLParam)
	body := binder.JSON(binder.WithMaxSize(s.maxBodySize))
	optionalBody := binder.JSON(binder.WithMaxSize(s.maxBodySize), binder.Optional())

	r.Get("/", wrap(s, s.listForms))
	r.Get("/{form}", wrap(s, s.describeForm, path))
	r.Post("/{form}/validate", wrap(s, s.validateRecord, path, body))
	r.Post("/{form}/fields/{field}/validate", wrap(s, s.validateField, path, body))

	r.Post("/{form}/sessions", wrap(s, s.createSession, path, optionalBody))
	r.Get("/{form}/sessions/{id}", wrap(s, s.getSession, path))
	r.Delete("/{form}/sessions/{id}", wrap(s, s.deleteSession, path))
	r.Put("/{form}/sessions/{id}/fields/{field}", wrap(s, s.changeField, path, body))
	r.Post("/{form}/sessions/{id}/fields/{field}/blur", wrap(s, s.blurField, path))
	r.Post("/{form}/sessions/{id}/validate", wrap(s, s.validateSession, path))
	r.Post("/{form}/sessions/{id}/reset", wrap(s, s.resetSession, path))

	return r
}

func (s *Service) rejectRequest(status error) ratelimiter.Responder {
	return func(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result, err error) {
		reason := status
		if err != nil {
			reason = fmt.Errorf("%w: %w", status, err)
		}
		s.errorHandler(handler.NewContext(w, r), reason)
	}
}

func wrap[R any](s *Service, h handler.HandlerFunc[R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders(binders...),
		handler.WithErrorHandler(s.errorHandler),
		handler.WithDecorators(s.trace),
	)
}

// trace logs each API call at debug level.
func (s *Service) trace(ctx handler.Context, next func() handler.Response) handler.Response {
	start := time.Now()
	resp := next()

	r := ctx.Request()
	route := r.URL.Path
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		route = rc.RoutePattern()
	}
	s.logger.DebugContext(ctx, "forms api call",
		slog.String("method", r.Method),
		slog.String("route", route),
		logger.Duration(time.Since(start)),
	)
	return resp
}

// langExtractor negotiates among the catalog languages and falls back to the
// translator default.
func (s *Service) langExtractor() i18n.LangExtractor {
	if s.translator == nil {
		return i18n.DefaultLangExtractor()
	}
	extract := i18n.DefaultLangExtractor(i18n.WithSupportedLanguages(s.translator.SupportedLanguages()...))
	return func(r *http.Request) string {
		if lang := extract(r); lang != "" {
			return lang
		}
		return s.translator.DefaultLanguage()
	}
}

func (s *Service) errorMessage(r *http.Request, code string) string {
	return s.message(i18n.GetLocale(r.Context()), code)
}

// fail routes err through the error handler so it is logged and localized.
func (s *Service) fail(err error) handler.Response {
	return errorResponse{err: err, handle: s.errorHandler}
}

type errorResponse struct {
	err    error
	handle handler.ErrorHandler
}

func (e errorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	e.handle(handler.NewContext(w, r), e.err)
	return nil
}

func langMeta(lang string) handler.JSONOption {
	return handler.WithJSONMeta(map[string]any{"lang": lang})
}

type formRequest struct {
	Form string `path:"form" json:"-"`
}

type validateRequest struct {
	Form   string           `path:"form" json:"-"`
	Values validator.Record `json:"values"`
}

type fieldRequest struct {
	Form  string `path:"form" json:"-"`
	Field string `path:"field" json:"-"`
	Value any    `json:"value"`
}

type createSessionRequest struct {
	Form    string           `path:"form" json:"-"`
	Initial validator.Record `json:"initial"`
}

type sessionRequest struct {
	Form string `path:"form" json:"-"`
	ID   string `path:"id" json:"-"`
}

type sessionFieldRequest struct {
	Form  string `path:"form" json:"-"`
	ID    string `path:"id" json:"-"`
	Field string `path:"field" json:"-"`
	Value any    `json:"value"`
}

func (s *Service) listForms(ctx handler.Context, _ struct{}) handler.Response {
	return handler.JSON(s.Forms())
}

func (s *Service) describeForm(ctx handler.Context, req formRequest) handler.Response {
	view, err := s.Describe(req.Form)
	if err != nil {
		return s.fail(err)
	}
	return handler.JSON(view)
}

func (s *Service) validateRecord(ctx handler.Context, req validateRequest) handler.Response {
	lang := i18n.GetLocale(ctx)
	results, err := s.Validate(ctx, req.Form, lang, req.Values)
	if err != nil {
		return s.fail(err)
	}

	if err := results.Err(); err != nil {
		return s.fail(err)
	}
	return handler.JSON(ValidationView{Valid: true, Fields: results}, langMeta(lang))
}

func (s *Service) validateField(ctx handler.Context, req fieldRequest) handler.Response {
	lang := i18n.GetLocale(ctx)
	result, err := s.ValidateField(req.Form, req.Field, lang, req.Value)
	if err != nil {
		return s.fail(err)
	}
	return handler.JSON(result, langMeta(lang))
}

func (s *Service) createSession(ctx handler.Context, req createSessionRequest) handler.Response {
	lang := i18n.GetLocale(ctx)
	state, err := s.CreateSession(ctx, req.Form, lang, req.Initial)
	if err != nil {
		return s.fail(err)
	}
	return handler.JSON(newSessionView(state), handler.WithJSONStatus(http.StatusCreated), langMeta(lang))
}

func (s *Service) getSession(ctx handler.Context, req sessionRequest) handler.Response {
	state, err := s.Session(ctx, req.Form, req.ID)
	if err != nil {
		return s.fail(err)
	}
	return handler.JSON(newSessionView(state))
}

func (s *Service) deleteSession(ctx handler.Context, req sessionRequest) handler.Response {
	if err := s.DeleteSession(ctx, req.Form, req.ID); err != nil {
		return s.fail(err)
	}
	return handler.Empty()
}

func (s *Service) changeField(ctx handler.Context, req sessionFieldRequest) handler.Response {
	lang := i18n.GetLocale(ctx)
	state, err := s.ChangeField(ctx, req.Form, req.ID, lang, req.Field, req.Value)
	if err != nil {
		return s.fail(err)
	}
	return handler.JSON(newSessionView(state), langMeta(lang))
}

func (s *Service) blurField(ctx handler.Context, req sessionFieldRequest) handler.Response {
	lang := i18n.GetLocale(ctx)
	state, err := s.BlurField(ctx, req.Form, req.ID, lang, req.Field)
	if err != nil {
		return s.fail(err)
	}
	return handler.JSON(newSessionView(state), langMeta(lang))
}

func (s *Service) validateSession(ctx handler.Context, req sessionRequest) handler.Response {
	lang := i18n.GetLocale(ctx)
	state, err := s.ValidateSession(ctx, req.Form, req.ID, lang)
	if err != nil {
		return s.fail(err)
	}
	return handler.JSON(newSessionView(state), langMeta(lang))
}

func (s *Service) resetSession(ctx handler.Context, req sessionRequest) handler.Response {
	lang := i18n.GetLocale(ctx)
	state, err := s.ResetSession(ctx, req.Form, req.ID, lang)
	if err != nil {
		return s.fail(err)
	}
	return handler.JSON(newSessionView(state), langMeta(lang))
}
