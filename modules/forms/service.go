package forms

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit/handler"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/ratelimiter"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Service validates records and drives stored form sessions for a set of
// named forms. It is safe for concurrent use; operations on the same session
// are serialized.
type Service struct {
	configs    validator.FormSet
	registries map[string]*validator.Registry

	store        form.Store
	translator   *i18n.Translator
	logger       *slog.Logger
	errorHandler handler.ErrorHandler
	maxBodySize  int64
	newID        func() string
	locks        *keyedMutex

	limiter ratelimiter.Limiter
	limitBy ratelimiter.KeyFunc
}

// Option configures a Service.
type Option func(*Service)

// WithStore sets the session store. Defaults to an in-memory store.
func WithStore(store form.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithTranslator localizes validation messages and error envelopes.
func WithTranslator(t *i18n.Translator) Option {
	return func(s *Service) {
		s.translator = t
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithErrorHandler replaces the default JSON error handler.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(s *Service) {
		s.errorHandler = h
	}
}

// WithMaxBodySize limits JSON request bodies.
func WithMaxBodySize(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// WithIDGenerator overrides the session id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithRateLimiter limits API requests per key, e.g. per client IP.
func WithRateLimiter(l ratelimiter.Limiter, keyFunc ratelimiter.KeyFunc) Option {
	return func(s *Service) {
		if l != nil && keyFunc != nil {
			s.limiter = l
			s.limitBy = keyFunc
		}
	}
}

// New builds a registry per form of fs.
func New(fs validator.FormSet, opts ...Option) (*Service, error) {
	s := &Service{
		configs:     fs,
		logger:      slog.New(slog.DiscardHandler),
		maxBodySize: 64 << 10,
		newID:       uuid.NewString,
		locks:       newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("forms"))

	registries, err := fs.Registries(validator.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.registries = registries

	if s.store == nil {
		s.store = form.NewMemoryStore(form.DefaultTTL, 0)
	}
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler(s.logger, handler.ErrorHandlerConfig{
			Message: s.errorMessage,
		})
	}
	return s, nil
}

// Forms lists the configured forms, sorted by name.
func (s *Service) Forms() []FormInfo {
	out := make([]FormInfo, 0, len(s.registries))
	for _, name := range slices.Sorted(maps.Keys(s.registries)) {
		out = append(out, FormInfo{Name: name, Fields: s.registries[name].Fields()})
	}
	return out
}

// Describe returns the rule descriptors of a form.
func (s *Service) Describe(name string) (FormView, error) {
	cfg, ok := s.configs[name]
	if !ok {
		return FormView{}, ErrFormNotFound
	}
	return FormView{Name: name, Fields: cfg}, nil
}

// Validate checks every field present in record.
func (s *Service) Validate(ctx context.Context, name, lang string, record validator.Record) (validator.Results, error) {
	registry, err := s.registry(name)
	if err != nil {
		return nil, err
	}
	results := registry.ValidateAll(record)
	if s.translator != nil {
		results = results.Localize(s.translator, lang)
	}
	s.logger.DebugContext(ctx, "record validated",
		logger.Form(name),
		logger.Violations(results.Failed()),
	)
	return results, nil
}

// ValidateField checks a single value against the rules of field. Fields
// without rules always pass.
func (s *Service) ValidateField(name, field, lang string, value any) (validator.Result, error) {
	registry, err := s.registry(name)
	if err != nil {
		return validator.Result{}, err
	}
	result := registry.Validate(field, value)
	if s.translator != nil {
		result = result.Localize(s.translator, lang)
	}
	return result, nil
}

// CreateSession starts a stored session over initial values.
func (s *Service) CreateSession(ctx context.Context, name, lang string, initial validator.Record) (form.State, error) {
	registry, err := s.registry(name)
	if err != nil {
		return form.State{}, err
	}

	session := form.NewWithRegistry(initial, registry, s.sessionOptions(lang)...)
	state := session.State(s.newID(), name)
	if err := s.store.Create(ctx, state); err != nil {
		return form.State{}, storeError(err)
	}

	s.logger.InfoContext(ctx, "form session created",
		logger.Form(name),
		logger.SessionID(state.ID),
	)
	return state, nil
}

// Session loads a stored session of form name.
func (s *Service) Session(ctx context.Context, name, id string) (form.State, error) {
	if _, err := s.registry(name); err != nil {
		return form.State{}, err
	}
	return s.load(ctx, name, id)
}

// DeleteSession removes a stored session of form name.
func (s *Service) DeleteSession(ctx context.Context, name, id string) error {
	if _, err := s.registry(name); err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.load(ctx, name, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError(err)
	}
	s.logger.InfoContext(ctx, "form session deleted",
		logger.Form(name),
		logger.SessionID(id),
	)
	return nil
}

// ChangeField records a new value and revalidates only that field.
func (s *Service) ChangeField(ctx context.Context, name, id, lang, field string, value any) (form.State, error) {
	return s.mutate(ctx, name, id, lang, func(session *form.Session) {
		session.HandleChange(field, value)
	})
}

// BlurField marks field as touched.
func (s *Service) BlurField(ctx context.Context, name, id, lang, field string) (form.State, error) {
	return s.mutate(ctx, name, id, lang, func(session *form.Session) {
		session.HandleBlur(field)
	})
}

// ValidateSession revalidates every present value of the session.
func (s *Service) ValidateSession(ctx context.Context, name, id, lang string) (form.State, error) {
	return s.mutate(ctx, name, id, lang, func(session *form.Session) {
		session.ValidateAll()
	})
}

// ResetSession restores the initial values and clears errors and touched flags.
func (s *Service) ResetSession(ctx context.Context, name, id, lang string) (form.State, error) {
	return s.mutate(ctx, name, id, lang, func(session *form.Session) {
		session.Reset()
	})
}

// mutate restores a session, applies fn and writes the result back while
// holding the session lock.
func (s *Service) mutate(ctx context.Context, name, id, lang string, fn func(*form.Session)) (form.State, error) {
	registry, err := s.registry(name)
	if err != nil {
		return form.State{}, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	state, err := s.load(ctx, name, id)
	if err != nil {
		return form.State{}, err
	}
	if lang == "" {
		lang = state.Lang
	}

	session := form.Restore(state, registry, s.sessionOptions(lang)...)
	fn(session)

	next := session.State(id, name)
	if err := s.store.Update(ctx, next); err != nil {
		return form.State{}, storeError(err)
	}
	return next, nil
}

func (s *Service) load(ctx context.Context, name, id string) (form.State, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return form.State{}, storeError(err)
	}
	if state.Form != name {
		return form.State{}, fmt.Errorf("%w: session %s belongs to form %q", ErrSessionNotFound, id, state.Form)
	}
	return state, nil
}

func (s *Service) registry(name string) (*validator.Registry, error) {
	registry, ok := s.registries[name]
	if !ok {
		return nil, ErrFormNotFound
	}
	return registry, nil
}

func (s *Service) sessionOptions(lang string) []form.Option {
	var t validator.Translator
	if s.translator != nil {
		t = s.translator
	}
	return []form.Option{form.WithLogger(s.logger), form.WithLocalizer(t, lang)}
}

// message renders the catalog entry for an error code, or "" when there is none.
func (s *Service) message(lang, code string) string {
	if s.translator == nil {
		return ""
	}
	key := "errors." + code
	if !s.translator.HasTranslation(lang, key) {
		return ""
	}
	return s.translator.T(lang, key)
}
