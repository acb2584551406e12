package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cache        CacheConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TLDPRICER_APP_ENV" default:"dev"`
	Port         string `envconfig:"TLDPRICER_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TLDPRICER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TLDPRICER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"TLDPRICER_DB_DSN"`

	Host     string `envconfig:"TLDPRICER_DB_HOST"`
	Port     int    `envconfig:"TLDPRICER_DB_PORT" default:"5432"`
	User     string `envconfig:"TLDPRICER_DB_USER"`
	Password string `envconfig:"TLDPRICER_DB_PASSWORD"`
	Name     string `envconfig:"TLDPRICER_DB_NAME"`
	SSLMode  string `envconfig:"TLDPRICER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TLDPRICER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TLDPRICER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TLDPRICER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TLDPRICER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a postgres DSN from the discrete vars when an explicit
// DSN is not configured. SQLite mode skips the check entirely.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return nil
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TLDPRICER_REDIS_URL"`
	Address      string        `envconfig:"TLDPRICER_REDIS_ADDR"`
	Password     string        `envconfig:"TLDPRICER_REDIS_PASSWORD"`
	DB           int           `envconfig:"TLDPRICER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TLDPRICER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TLDPRICER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TLDPRICER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TLDPRICER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TLDPRICER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint is configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type CacheConfig struct {
	CheapestTTL time.Duration `envconfig:"TLDPRICER_CACHE_CHEAPEST_TTL" default:"60s"`
}

type FeatureFlagsConfig struct {
	UseSQLite     bool `envconfig:"TLDPRICER_USE_SQLITE" default:"false"`
	AutoMigrate   bool `envconfig:"TLDPRICER_AUTO_MIGRATE" default:"false"`
	CacheCheapest bool `envconfig:"TLDPRICER_FEATURE_CACHE_CHEAPEST" default:"false"`
}
