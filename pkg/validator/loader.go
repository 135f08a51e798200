package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a configuration document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormSet maps form names to their rule configuration.
//
// Document shape:
//
//	forms:
//	  checkout:
//	    email: [required, email]
//	    name:
//	      - required
//	      - rule: minLength
//	        value: 3
//	        message: Name is too short
type FormSet map[string]Config

type formSetDocument struct {
	Forms FormSet `json:"forms" yaml:"forms"`
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// LoadFormSet reads and parses a YAML or JSON form set file.
func LoadFormSet(path string) (FormSet, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return ParseFormSet(data, format)
}

// ParseFormSet decodes a form set document.
func ParseFormSet(data []byte, format Format) (FormSet, error) {
	var doc formSetDocument
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if len(doc.Forms) == 0 {
		return nil, fmt.Errorf("%w: no forms defined", ErrInvalidConfig)
	}
	return doc.Forms, nil
}

// Registries builds one registry per form.
func (fs FormSet) Registries(opts ...RegistryOption) (map[string]*Registry, error) {
	out := make(map[string]*Registry, len(fs))
	var errs []error
	for name, cfg := range fs {
		registry, err := Build(cfg, opts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("form %q: %w", name, err))
			continue
		}
		out[name] = registry
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
