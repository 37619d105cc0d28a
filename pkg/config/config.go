package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Storage driver names accepted by FRESHMART_STORAGE_DRIVER.
const (
	StorageDriverMemory   = "memory"
	StorageDriverRedis    = "redis"
	StorageDriverDatabase = "database"
)

// Database driver names accepted by FRESHMART_DB_DRIVER.
const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Redis    RedisConfig
	DB       DBConfig
	Chat     ChatConfig
	Checkout CheckoutConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRESHMART_APP_ENV" default:"dev"`
	Port         string `envconfig:"FRESHMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FRESHMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRESHMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the backing implementation for the client blob store
// (the local-storage analogue holding carts and session ids).
type StorageConfig struct {
	Driver string `envconfig:"FRESHMART_STORAGE_DRIVER" default:"memory"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRESHMART_REDIS_URL"`
	Address      string        `envconfig:"FRESHMART_REDIS_ADDR"`
	Password     string        `envconfig:"FRESHMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRESHMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRESHMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRESHMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRESHMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRESHMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRESHMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	Driver string `envconfig:"FRESHMART_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"FRESHMART_DB_DSN"`
	Path   string `envconfig:"FRESHMART_DB_PATH" default:"freshmart.db"`

	MaxOpenConns    int           `envconfig:"FRESHMART_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"FRESHMART_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"FRESHMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRESHMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ChatConfig carries the external chat backend contract. The upstream source
// leaves the call unbounded; the timeout here is our explicit bound.
type ChatConfig struct {
	BackendURL    string        `envconfig:"FRESHMART_CHAT_BACKEND_URL" default:"http://localhost:5000/api/chat"`
	Timeout       time.Duration `envconfig:"FRESHMART_CHAT_TIMEOUT" default:"10s"`
	FallbackDelay time.Duration `envconfig:"FRESHMART_CHAT_FALLBACK_DELAY" default:"500ms"`
}

type CheckoutConfig struct {
	ProcessingDelay time.Duration `envconfig:"FRESHMART_CHECKOUT_PROCESSING_DELAY" default:"2s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FRESHMART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:8000"`
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case StorageDriverMemory:
	case StorageDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("redis storage driver requires FRESHMART_REDIS_URL or FRESHMART_REDIS_ADDR")
		}
	case StorageDriverDatabase:
		if err := c.DB.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Chat.Timeout <= 0 {
		return fmt.Errorf("chat timeout must be positive")
	}
	return nil
}

func (db DBConfig) validate() error {
	switch strings.ToLower(db.Driver) {
	case DBDriverSQLite:
		if db.Path == "" {
			return fmt.Errorf("sqlite driver requires FRESHMART_DB_PATH")
		}
	case DBDriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("postgres driver requires FRESHMART_DB_DSN")
		}
	default:
		return fmt.Errorf("unknown database driver %q", db.Driver)
	}
	return nil
}
