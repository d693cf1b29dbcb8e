package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Cache     CacheConfig
	CORS      CORSConfig
	Commerce  UpstreamConfig
	Events    UpstreamConfig
	Marketing UpstreamConfig
	Picking   UpstreamConfig
	Resellers UpstreamConfig
	Campaigns UpstreamConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PANELOPS_APP_ENV" required:"true"`
	Port         string `envconfig:"PANELOPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PANELOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PANELOPS_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"PANELOPS_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"PANELOPS_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"PANELOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PANELOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PANELOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PANELOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PANELOPS_REDIS_URL" required:"true"`
	Password     string        `envconfig:"PANELOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"PANELOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PANELOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PANELOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PANELOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PANELOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PANELOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CacheConfig controls the Redis-backed cache for upstream range queries.
type CacheConfig struct {
	Enabled bool          `envconfig:"PANELOPS_CACHE_ENABLED" default:"true"`
	TTL     time.Duration `envconfig:"PANELOPS_CACHE_TTL" default:"5m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PANELOPS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// UpstreamConfig describes one external REST collaborator.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"BASE_URL"`
	Token   string        `envconfig:"TOKEN"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`
}
