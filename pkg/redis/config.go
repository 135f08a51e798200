package redis

import "time"

// Config holds the Redis connection settings.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required"`                                    // redis://:password@host:6379/0
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"formkit:"`                // namespace for every key written by formkit
	PoolSize       int           `env:"REDIS_POOL_SIZE" envDefault:"0" validate:"gte=0"`       // 0 keeps the go-redis default
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" validate:"gte=1"`  // connection attempts before giving up
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`                  // pause between attempts
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s" validate:"gt=0"` // overall budget for Connect
}

// Key joins the configured prefix with parts, e.g. Key("sessions") returns
// "formkit:sessions:".
func (c Config) Key(part string) string {
	return c.KeyPrefix + part + ":"
}
