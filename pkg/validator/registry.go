package validator

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Registry holds the ordered rules of each field. Build it once, then share
// it freely: validation never mutates the registry.
type Registry struct {
	rules  map[string][]Rule
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report rule faults.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		rules:  make(map[string][]Rule),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddRule appends rule to the field's list. The same rule added twice runs twice.
// Panics on a malformed field name or a rule without predicate.
func (r *Registry) AddRule(field string, rule Rule) {
	if err := ValidateFieldName(field); err != nil {
		panic(err)
	}
	if !rule.valid() {
		panic(fmt.Errorf("%w: rule %q for field %q has no predicate", ErrInvalidRule, rule.Name, field))
	}
	r.rules[field] = append(r.rules[field], rule)
}

// Register appends rules to field in order.
func (r *Registry) Register(field string, rules ...Rule) *Registry {
	for _, rule := range rules {
		r.AddRule(field, rule)
	}
	return r
}

// Validate runs every rule of field against value and collects all failures.
func (r *Registry) Validate(field string, value any) Result {
	rules := r.rules[field]
	var violations []ValidationError
	for _, rule := range rules {
		ok, faulted := r.check(field, rule, value)
		switch {
		case faulted:
			violations = append(violations, faultViolation(field, rule))
		case !ok:
			violations = append(violations, rule.Violation(field))
		}
	}
	return newResult(violations)
}

// ValidateAll validates the fields present in record. Fields that have rules
// but are missing from record are not checked.
func (r *Registry) ValidateAll(record Record) Results {
	results := make(Results, len(record))
	for field, value := range record {
		results[field] = r.Validate(field, value)
	}
	return results
}

// check runs a single rule, turning a panicking predicate into a violation.
func (r *Registry) check(field string, rule Rule, value any) (ok, faulted bool) {
	defer func() {
		if rec := recover(); rec != nil {
			ok, faulted = false, true
			r.logger.Warn("validation rule panicked",
				logger.Field(field),
				logger.Rule(rule.Name),
				slog.Any("panic", rec),
			)
		}
	}()
	return rule.Check(value), false
}

func faultViolation(field string, rule Rule) ValidationError {
	return ValidationError{
		Field:          field,
		Message:        ErrRuleFault.Error(),
		TranslationKey: "validation.rule_fault",
		TranslationValues: map[string]any{
			"field": field,
			"rule":  rule.Name,
		},
	}
}

// Fields returns the registered field names, sorted.
func (r *Registry) Fields() []string {
	fields := make([]string, 0, len(r.rules))
	for field := range r.rules {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

// Rules returns a copy of the rules registered for field.
func (r *Registry) Rules(field string) []Rule {
	return slices.Clone(r.rules[field])
}

// Len returns the number of fields with at least one rule.
func (r *Registry) Len() int {
	return len(r.rules)
}

// ValidateFieldName rejects empty names, names padded with whitespace and
// names containing control characters.
func ValidateFieldName(field string) error {
	if field == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidField)
	}
	if strings.TrimSpace(field) != field {
		return fmt.Errorf("%w: %q has leading or trailing whitespace", ErrInvalidField, field)
	}
	if strings.IndexFunc(field, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: %q contains control characters", ErrInvalidField, field)
	}
	return nil
}
