package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Meals   MealsConfig
	Cart    CartConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Meals.validate(); err != nil {
		return nil, err
	}
	if err := cfg.DB.validate(cfg.Meals); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"REACTMEALS_APP_ENV" required:"true"`
	Port         string `envconfig:"REACTMEALS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"REACTMEALS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REACTMEALS_LOG_WARN_STACK" default:"false"`
	AllowOrigin  string `envconfig:"REACTMEALS_ALLOW_ORIGIN" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN         string `envconfig:"REACTMEALS_DB_DSN"`
	Driver      string `envconfig:"REACTMEALS_DB_DRIVER" default:"postgres"`
	AutoMigrate bool   `envconfig:"REACTMEALS_DB_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"REACTMEALS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"REACTMEALS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"REACTMEALS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REACTMEALS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Enabled reports whether a database connection should be opened.
func (db DBConfig) Enabled() bool {
	return strings.TrimSpace(db.DSN) != ""
}

// Dialect returns the goose dialect matching the configured driver.
func (db DBConfig) Dialect() string {
	if strings.EqualFold(db.Driver, DBDriverSQLite) {
		return "sqlite3"
	}
	return "postgres"
}

func (db DBConfig) validate(meals MealsConfig) error {
	switch strings.ToLower(db.Driver) {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("%s must be one of %s, %s", EnvDBDriver, DBDriverPostgres, DBDriverSQLite)
	}
	if meals.Source == MealsSourceDatabase && !db.Enabled() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvMealsSource, MealsSourceDatabase)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"REACTMEALS_REDIS_URL"`
	Address      string        `envconfig:"REACTMEALS_REDIS_ADDR"`
	Password     string        `envconfig:"REACTMEALS_REDIS_PASSWORD"`
	DB           int           `envconfig:"REACTMEALS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REACTMEALS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REACTMEALS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REACTMEALS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REACTMEALS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REACTMEALS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether redis has been configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type MealsConfig struct {
	Source       string        `envconfig:"REACTMEALS_MEALS_SOURCE" default:"remote"`
	RemoteURL    string        `envconfig:"REACTMEALS_MEALS_REMOTE_URL"`
	FetchTimeout time.Duration `envconfig:"REACTMEALS_MEALS_FETCH_TIMEOUT" default:"10s"`
	CacheTTL     time.Duration `envconfig:"REACTMEALS_MEALS_CACHE_TTL" default:"5m"`
}

func (m MealsConfig) validate() error {
	switch m.Source {
	case MealsSourceRemote:
		if strings.TrimSpace(m.RemoteURL) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvMealsRemoteURL, EnvMealsSource, MealsSourceRemote)
		}
	case MealsSourceDatabase:
	default:
		return fmt.Errorf("%s must be one of %s, %s", EnvMealsSource, MealsSourceRemote, MealsSourceDatabase)
	}
	return nil
}

type CartConfig struct {
	SessionIdleTTL time.Duration `envconfig:"REACTMEALS_CART_SESSION_IDLE_TTL" default:"2h"`
	SweepInterval  time.Duration `envconfig:"REACTMEALS_CART_SWEEP_INTERVAL" default:"5m"`
	CookieSecure   bool          `envconfig:"REACTMEALS_CART_COOKIE_SECURE" default:"false"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"REACTMEALS_METRICS_ENABLED" default:"true"`
}
