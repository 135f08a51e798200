package logger

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/formkit/pkg/environment"
)

// Config is the environment-driven logger configuration. Empty Level and
// Format keep the defaults of the environment: debug text logs in
// development, info JSON logs elsewhere.
type Config struct {
	Service string `env:"SERVICE_NAME" envDefault:"formkit"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Level   string `env:"LOG_LEVEL"`
	Format  string `env:"LOG_FORMAT"`
}

// ParseLevel maps debug, info, warn/warning and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// WithConfig applies the defaults of cfg.Env, tags records with service and
// env, then applies the explicit level and format. Panics on an unknown
// environment, level or format, like WithFormat.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		env, err := environment.Parse(cfg.Env)
		if err != nil {
			panic(err)
		}
		if env == environment.Development {
			o.level = slog.LevelDebug
			o.format = FormatText
		} else {
			o.level = slog.LevelInfo
			o.format = FormatJSON
		}
		if cfg.Service != "" {
			o.attrs = append(o.attrs, slog.String("service", cfg.Service))
		}
		o.attrs = append(o.attrs, slog.String("env", env.String()))

		if cfg.Level != "" {
			level, err := ParseLevel(cfg.Level)
			if err != nil {
				panic(err)
			}
			o.level = level
		}
		if cfg.Format != "" {
			WithFormat(Format(strings.ToLower(cfg.Format)))(o)
		}
	}
}
