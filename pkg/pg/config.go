package pg

import "time"

// Config holds the pool and migration settings.
type Config struct {
	ConnectionString  string        `env:"PG_CONN_URL,required"`
	MaxConns          int32         `env:"PG_MAX_CONNS" envDefault:"10" validate:"gte=1"`
	MinConns          int32         `env:"PG_MIN_CONNS" envDefault:"1" validate:"gte=0"`
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	ConnectTimeout time.Duration `env:"PG_CONNECT_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	RetryAttempts  int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3" validate:"gte=1"`
	RetryInterval  time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"2s"` // grows linearly per attempt

	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"formkit_migrations"`
}
