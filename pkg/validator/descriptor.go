package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Descriptor is the declarative form of a library rule, as found in
// configuration files. In YAML and JSON a descriptor is either a mapping or
// a shorthand string such as "required", "minLength=3" or `pattern=^\d+$`.
type Descriptor struct {
	Rule    string   `json:"rule" yaml:"rule" validate:"required,oneof=required email minLength maxLength number min max pattern"`
	Value   *float64 `json:"value,omitempty" yaml:"value,omitempty" validate:"required_if=Rule minLength,required_if=Rule maxLength,required_if=Rule min,required_if=Rule max"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty" validate:"required_if=Rule pattern"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// Config maps each field to its ordered rule descriptors.
type Config map[string][]Descriptor

var descriptorValidator = playground.New()

// ParseDescriptor parses the shorthand "name" or "name=param" form.
func ParseDescriptor(s string) (Descriptor, error) {
	name, param, hasParam := strings.Cut(s, "=")
	d := Descriptor{Rule: strings.TrimSpace(name)}
	if !hasParam {
		return d, nil
	}

	switch d.Rule {
	case RulePattern:
		d.Pattern = param
	case RuleMinLength, RuleMaxLength, RuleMin, RuleMax:
		f, err := strconv.ParseFloat(strings.TrimSpace(param), 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%w: %s expects a number, got %q", ErrInvalidParam, d.Rule, param)
		}
		d.Value = &f
	default:
		return Descriptor{}, fmt.Errorf("%w: %s takes no parameter", ErrInvalidParam, d.Rule)
	}
	return d, nil
}

// Build turns the descriptor into a library rule.
func (d Descriptor) Build() (Rule, error) {
	if err := descriptorValidator.Struct(d); err != nil {
		return Rule{}, descriptorError(d, err)
	}

	var opts []RuleOption
	if d.Message != "" {
		opts = append(opts, WithMessage(d.Message))
	}

	switch d.Rule {
	case RuleRequired:
		return Required(opts...), nil
	case RuleEmail:
		return Email(opts...), nil
	case RuleNumber:
		return Number(opts...), nil
	case RuleMinLength, RuleMaxLength:
		n, err := lengthParam(d)
		if err != nil {
			return Rule{}, err
		}
		if d.Rule == RuleMinLength {
			return MinLength(n, opts...), nil
		}
		return MaxLength(n, opts...), nil
	case RuleMin, RuleMax:
		f := *d.Value
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Rule{}, fmt.Errorf("%w: %s bound must be finite", ErrInvalidParam, d.Rule)
		}
		if d.Rule == RuleMin {
			return Min(f, opts...), nil
		}
		return Max(f, opts...), nil
	case RulePattern:
		re, err := regexp.Compile(d.Pattern)
		if err != nil {
			return Rule{}, errors.Join(fmt.Errorf("%w: pattern %q", ErrInvalidParam, d.Pattern), err)
		}
		return Pattern(re, opts...), nil
	}
	return Rule{}, fmt.Errorf("%w: %q", ErrUnknownRule, d.Rule)
}

func lengthParam(d Descriptor) (int, error) {
	f := *d.Value
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %v", ErrInvalidParam, d.Rule, f)
	}
	return int(f), nil
}

func descriptorError(d Descriptor, err error) error {
	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Join(ErrInvalidConfig, err)
	}
	for _, fe := range verrs {
		switch {
		case fe.StructField() == "Rule":
			return fmt.Errorf("%w: %q", ErrUnknownRule, d.Rule)
		case fe.Tag() == "required_if":
			return fmt.Errorf("%w: %s requires %s", ErrMissingParam, d.Rule, strings.ToLower(fe.StructField()))
		}
	}
	return errors.Join(ErrInvalidConfig, err)
}

func (d *Descriptor) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := ParseDescriptor(node.Value)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	type plain Descriptor
	return node.Decode((*plain)(d))
}

func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseDescriptor(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	type plain Descriptor
	return json.Unmarshal(data, (*plain)(d))
}

// Build creates a registry from cfg. Every descriptor is checked and all
// problems are reported together.
func Build(cfg Config, opts ...RegistryOption) (*Registry, error) {
	registry := NewRegistry(opts...)
	var errs []error

	fields := make([]string, 0, len(cfg))
	for field := range cfg {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	for _, field := range fields {
		if err := ValidateFieldName(field); err != nil {
			errs = append(errs, err)
			continue
		}
		for i, d := range cfg[field] {
			rule, err := d.Build()
			if err != nil {
				errs = append(errs, fmt.Errorf("field %q rule #%d: %w", field, i+1, err))
				continue
			}
			registry.AddRule(field, rule)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return registry, nil
}

// MustBuild is like Build but panics on an invalid configuration.
func MustBuild(cfg Config, opts ...RegistryOption) *Registry {
	registry, err := Build(cfg, opts...)
	if err != nil {
		panic(fmt.Sprintf("invalid rule configuration: %v", err))
	}
	return registry
}
