package form

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Session binds a rule registry to the live values of one form.
// It is owned by a single caller and performs no locking.
type Session struct {
	initial  validator.Record
	values   validator.Record
	errors   map[string][]string
	touched  map[string]bool
	registry *validator.Registry
	logger   *slog.Logger

	translator validator.Translator
	lang       string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used to trace validation activity at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLocalizer renders error messages for lang through t. Messages set
// with validator.WithMessage are kept verbatim.
func WithLocalizer(t validator.Translator, lang string) Option {
	return func(s *Session) {
		s.translator = t
		s.lang = lang
	}
}

// New creates a session over initial values and builds a registry from
// rules, registering each field's rules in the order given.
func New(initial validator.Record, rules map[string][]validator.Rule, opts ...Option) *Session {
	registry := validator.NewRegistry()
	for _, field := range slices.Sorted(maps.Keys(rules)) {
		registry.Register(field, rules[field]...)
	}
	return NewWithRegistry(initial, registry, opts...)
}

// NewWithRegistry creates a session that validates through a shared registry.
func NewWithRegistry(initial validator.Record, registry *validator.Registry, opts ...Option) *Session {
	if registry == nil {
		registry = validator.NewRegistry()
	}
	s := &Session{
		initial:  initial.Clone(),
		errors:   make(map[string][]string),
		touched:  make(map[string]bool),
		registry: registry,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.values = s.initial.Clone()
	return s
}

// HandleChange stores value and revalidates only that field. The field's
// error list is replaced; other fields are left alone.
func (s *Session) HandleChange(field string, value any) {
	s.values[field] = value
	res := s.registry.Validate(field, value).Localize(s.translator, s.lang)
	s.errors[field] = res.Errors
	s.logger.Debug("form field changed",
		logger.Field(field),
		slog.Bool("valid", res.Valid),
	)
}

// HandleBlur marks field as touched without validating it.
func (s *Session) HandleBlur(field string) {
	s.touched[field] = true
}

// ValidateAll validates the current values and replaces the error map with
// the failing fields only. Values are not modified.
func (s *Session) ValidateAll() bool {
	results := s.registry.ValidateAll(s.values).Localize(s.translator, s.lang)
	s.errors = results.Failed()
	valid := len(s.errors) == 0
	s.logger.Debug("form validated",
		slog.Bool("valid", valid),
		logger.Violations(s.errors),
	)
	return valid
}

// Reset restores the initial values and clears errors and touched flags.
func (s *Session) Reset() {
	s.values = s.initial.Clone()
	s.errors = make(map[string][]string)
	s.touched = make(map[string]bool)
}

// IsValid reports whether the most recent validation left no error messages.
// A field revalidated to an empty list counts as valid; fields that were never
// validated do not count at all.
func (s *Session) IsValid() bool {
	for _, msgs := range s.errors {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}

// Values returns a copy of the live values.
func (s *Session) Values() validator.Record {
	return s.values.Clone()
}

// Value returns the live value of field.
func (s *Session) Value(field string) (any, bool) {
	v, ok := s.values[field]
	return v, ok
}

// InitialValues returns a copy of the snapshot Reset restores.
func (s *Session) InitialValues() validator.Record {
	return s.initial.Clone()
}

// Errors returns a copy of the per-field error lists.
func (s *Session) Errors() map[string][]string {
	return cloneErrors(s.errors)
}

// FieldErrors returns the messages recorded for field, nil when none.
func (s *Session) FieldErrors(field string) []string {
	return slices.Clone(s.errors[field])
}

// Touched returns a copy of the touched flags.
func (s *Session) Touched() map[string]bool {
	return maps.Clone(s.touched)
}

func (s *Session) IsTouched(field string) bool {
	return s.touched[field]
}

// Lang returns the language messages are rendered in, "" when not localized.
func (s *Session) Lang() string {
	return s.lang
}

// Registry returns the registry the session validates with.
func (s *Session) Registry() *validator.Registry {
	return s.registry
}

func cloneErrors(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for field, msgs := range in {
		if msgs == nil {
			msgs = []string{}
		}
		out[field] = slices.Clone(msgs)
	}
	return out
}
