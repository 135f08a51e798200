package validator

import (
	"fmt"
	"maps"
)

// Predicate reports whether a value satisfies a rule. Predicates must be pure.
type Predicate func(value any) bool

// Rule is a named predicate paired with the message reported when it fails.
// Rules are immutable values and can be shared between registries.
type Rule struct {
	Name              string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any

	check      Predicate
	allowEmpty bool
}

// Check evaluates the rule. Empty input passes every rule built with
// NewRule; only presence rules see it.
func (r Rule) Check(value any) bool {
	if r.allowEmpty && IsEmpty(value) {
		return true
	}
	return r.check(value)
}

// Violation builds the error entry reported for field when the rule fails.
func (r Rule) Violation(field string) ValidationError {
	values := make(map[string]any, len(r.TranslationValues)+1)
	maps.Copy(values, r.TranslationValues)
	values["field"] = field
	return ValidationError{
		Field:             field,
		Message:           r.Message,
		TranslationKey:    r.TranslationKey,
		TranslationValues: values,
	}
}

func (r Rule) valid() bool {
	return r.check != nil
}

// RuleOption customizes a rule built by the library constructors.
type RuleOption func(*ruleConfig)

type ruleConfig struct {
	message    string
	key        string
	keyIsSet   bool
	messageSet bool
}

// WithMessage replaces the default failure message. Unless a translation key
// is also given, the custom message is never localized.
func WithMessage(msg string) RuleOption {
	return func(c *ruleConfig) {
		if msg != "" {
			c.message = msg
			c.messageSet = true
		}
	}
}

// WithTranslationKey sets the i18n key used to localize the failure message.
func WithTranslationKey(key string) RuleOption {
	return func(c *ruleConfig) {
		c.key = key
		c.keyIsSet = true
	}
}

// NewRule builds a custom rule. Empty values (nil, nil pointers and "")
// bypass pred and pass.
func NewRule(name, message string, pred Predicate, opts ...RuleOption) Rule {
	if pred == nil {
		panic(fmt.Errorf("%w: rule %q has no predicate", ErrInvalidRule, name))
	}
	return build(name, message, "", nil, true, pred, opts)
}

func build(name, message, key string, values map[string]any, allowEmpty bool, pred Predicate, opts []RuleOption) Rule {
	cfg := ruleConfig{message: message, key: key}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.messageSet && !cfg.keyIsSet {
		cfg.key = ""
	}
	return Rule{
		Name:              name,
		Message:           cfg.message,
		TranslationKey:    cfg.key,
		TranslationValues: values,
		check:             pred,
		allowEmpty:        allowEmpty,
	}
}
