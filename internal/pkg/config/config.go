package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Activity trail sinks.
const (
	SinkLog   = "log"
	SinkMongo = "mongo"
)

// Session slot backends.
const (
	BackendBolt     = "bolt"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, default=dev-device-secret"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Session  SessionConfig
	External ExternalIDPConfig
	Bolt     BoltConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type SessionConfig struct {
	Backend         string        `env:"SESSION_BACKEND,  default=bolt"`
	Key             string        `env:"SESSION_KEY,      default=user"`
	DeviceCookie    string        `env:"DEVICE_COOKIE,    default=homiin_device"`
	DeviceTTL       time.Duration `env:"DEVICE_TTL,       default=720h"`
	DeviceCacheSize int           `env:"DEVICE_CACHE_SIZE, default=10000"`
	CookieSecure    bool          `env:"COOKIE_SECURE,    default=false"`
	ActivityWorkers int           `env:"ACTIVITY_WORKERS, default=4"`
	ActivitySink    string        `env:"ACTIVITY_SINK,    default=log"`
}

// ExternalIDPConfig configures /auth/external. An empty secret disables it.
type ExternalIDPConfig struct {
	Secret   string        `env:"EXTERNAL_IDP_SECRET"`
	Issuer   string        `env:"EXTERNAL_IDP_ISSUER"`
	Audience string        `env:"EXTERNAL_IDP_AUDIENCE"`
	Leeway   time.Duration `env:"EXTERNAL_IDP_LEEWAY, default=30s"`
}

// Enabled reports whether provider ID tokens can be verified.
func (c ExternalIDPConfig) Enabled() bool {
	return c.Secret != ""
}

type BoltConfig struct {
	Path string `env:"BOLT_PATH, default=./data/portal.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=homiin_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendBolt, BackendRedis, BackendMongo, BackendMemory:
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres session backend")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	switch c.Session.ActivitySink {
	case SinkLog, SinkMongo:
	default:
		return fmt.Errorf("config: unknown ACTIVITY_SINK %q", c.Session.ActivitySink)
	}
	if c.IsProduction() && c.JWTSecret == "dev-device-secret" {
		return fmt.Errorf("config: JWT_SECRET must be set in production")
	}
	if c.Session.DeviceTTL <= 0 {
		return fmt.Errorf("config: DEVICE_TTL must be > 0")
	}
	if c.Session.DeviceCacheSize <= 0 {
		return fmt.Errorf("config: DEVICE_CACHE_SIZE must be > 0")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
