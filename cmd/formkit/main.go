// Command formkit serves the form validation API for the forms described in
// FORMS_CONFIG.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/formkit/modules/forms"
	"github.com/dmitrymomot/formkit/pkg/clientip"
	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/environment"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/httpserver"
	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/pg"
	"github.com/dmitrymomot/formkit/pkg/ratelimiter"
	"github.com/dmitrymomot/formkit/pkg/redis"
	"github.com/dmitrymomot/formkit/pkg/requestid"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

type appConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	FormsConfig     string        `env:"FORMS_CONFIG" envDefault:"forms.yaml" validate:"required"`
	Store           string        `env:"FORM_STORE" envDefault:"memory" validate:"oneof=memory redis postgres"`
	SessionTTL      time.Duration `env:"FORM_SESSION_TTL" envDefault:"24h" validate:"gt=0"`
	CleanupInterval time.Duration `env:"FORM_CLEANUP_INTERVAL" envDefault:"1m"`
	DefaultLang     string        `env:"DEFAULT_LANG" envDefault:"en" validate:"required"`
	LocalesDir      string        `env:"LOCALES_DIR"`
	MaxBodySize     int64         `env:"MAX_BODY_SIZE" envDefault:"65536" validate:"gt=0"`
	MountPath       string        `env:"FORMS_MOUNT_PATH" envDefault:"/forms" validate:"startswith=/"`
	RateLimit       bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	Limits ratelimiter.Config
	Log    logger.Config
	HTTP   httpserver.Config
}

// backend is the storage selected by FORM_STORE.
type backend struct {
	sessions form.Store
	limits   ratelimiter.Store
	checks   []httpserver.Check
	closers  []func()
}

func (b *backend) close() {
	for _, fn := range slices.Backward(b.closers) {
		fn()
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "formkit:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	env, err := environment.Parse(cfg.Env)
	if err != nil {
		return err
	}
	cfg.Log.Env = env.String()

	log := logger.New(
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	formSet, err := validator.LoadFormSet(cfg.FormsConfig)
	if err != nil {
		return fmt.Errorf("load forms %s: %w", cfg.FormsConfig, err)
	}

	translator, err := newTranslator(ctx, cfg, log)
	if err != nil {
		return err
	}

	be, err := newBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.close()

	opts := []forms.Option{
		forms.WithStore(be.sessions),
		forms.WithTranslator(translator),
		forms.WithLogger(log),
		forms.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.RateLimit {
		limiter, err := ratelimiter.NewBucket(be.limits, cfg.Limits)
		if err != nil {
			return err
		}
		opts = append(opts, forms.WithRateLimiter(limiter, clientip.FromRequest))
	}

	svc, err := forms.New(formSet, opts...)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware,
		middleware.Recoverer,
		environment.Middleware(env),
	)
	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, be.checks...))
	r.Mount(cfg.MountPath, svc.Handle())

	log.InfoContext(ctx, "formkit starting",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("store", cfg.Store),
		slog.Bool("rate_limit", cfg.RateLimit),
		slog.Int("forms", len(formSet)),
		slog.Any("languages", translator.SupportedLanguages()),
	)

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

func newTranslator(ctx context.Context, cfg appConfig, log *slog.Logger) (*i18n.Translator, error) {
	catalog := i18n.MergedAdapter{i18n.DefaultCatalog()}
	if cfg.LocalesDir != "" {
		catalog = append(catalog, i18n.NewFSAdapter(i18n.NewYAMLParser(), os.DirFS(cfg.LocalesDir), "."))
	}

	translator, err := i18n.NewTranslator(ctx, catalog,
		i18n.WithDefaultLanguage(cfg.DefaultLang),
		i18n.WithLogger(log),
		i18n.WithMissingTranslationsLogging(true),
	)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	if err := translator.Require(cfg.DefaultLang); err != nil {
		return nil, err
	}
	return translator, nil
}

// newBackend connects the configured session backend. Rate limit buckets
// share the redis client when FORM_STORE=redis and live in memory otherwise.
func newBackend(ctx context.Context, cfg appConfig, log *slog.Logger) (*backend, error) {
	be := &backend{}

	switch cfg.Store {
	case "redis":
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		be.sessions = form.NewRedisStore(client, redisCfg.Key("sessions"), cfg.SessionTTL)
		be.limits = ratelimiter.NewRedisStore(client, redisCfg.Key("ratelimit"))
		be.checks = append(be.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		be.closers = append(be.closers, closer(log, "redis", client))
		return be, nil

	case "postgres":
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		if err := pg.MigrateFS(ctx, pool, form.Migrations, form.MigrationsDir, pgCfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		store := form.NewPostgresStore(pool, cfg.SessionTTL)
		go purgeExpired(ctx, store, cfg.CleanupInterval, log)
		be.sessions = store
		be.checks = append(be.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
		be.closers = append(be.closers, pool.Close)

	default:
		store := form.NewMemoryStore(cfg.SessionTTL, cfg.CleanupInterval)
		be.sessions = store
		be.closers = append(be.closers, closer(log, "memory", store))
	}

	limits := ratelimiter.NewMemoryStore()
	be.limits = limits
	be.closers = append(be.closers, closer(log, "rate limit", limits))
	return be, nil
}

func closer(log *slog.Logger, name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Error("failed to close store", slog.String("store", name), logger.Error(err))
		}
	}
}

// purgeExpired deletes expired postgres sessions until ctx is done.
func purgeExpired(ctx context.Context, store *form.PostgresStore, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.DeleteExpired(ctx); err != nil && ctx.Err() == nil {
				log.WarnContext(ctx, "failed to purge expired form sessions", logger.Error(err))
			}
		}
	}
}
