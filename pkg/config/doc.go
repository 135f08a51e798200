// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for dotenv files,
// github.com/caarlos0/env/v11 for `env` struct tags and
// github.com/go-playground/validator/v10 for `validate` struct tags.
// Each configuration type is parsed once per process and cached; ResetCache
// clears the cache in tests.
//
//	type StoreConfig struct {
//		Kind string        `env:"FORM_STORE" envDefault:"memory" validate:"oneof=memory redis postgres"`
//		TTL  time.Duration `env:"FORM_SESSION_TTL" envDefault:"24h" validate:"gt=0"`
//	}
//
//	var cfg StoreConfig
//	config.MustLoad(&cfg)
//
// Parse failures wrap ErrParsingConfig and failed tag checks wrap
// ErrInvalidConfig, so callers can tell a missing variable from a bad value.
package config
