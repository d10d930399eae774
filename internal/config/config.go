package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Store drivers
const (
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App       AppConfig
	Store     StoreConfig
	Mongo     MongoConfig
	Firestore FirestoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Session   SessionConfig
	Worker    WorkerConfig
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"Storefront API"`
	Environment string `env:"APP_ENV" envDefault:"development"` // development, staging, production
	Port        string `env:"APP_PORT" envDefault:"8080"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// StoreConfig chọn document store và cache cho address book
type StoreConfig struct {
	Driver      string        `env:"STORE_DRIVER" envDefault:"mongo"`
	CacheDriver string        `env:"STORE_CACHE_DRIVER" envDefault:"redis"` // redis, memory
	SnapshotTTL time.Duration `env:"STORE_SNAPSHOT_TTL" envDefault:"30m"`
	SeedUsers   []string      `env:"STORE_SEED_USERS" envSeparator:","` // driver memory và postgres
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DATABASE" envDefault:"storefront"`
	Username       string        `env:"MONGO_USER"`
	Password       string        `env:"MONGO_PASSWORD"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
}

type FirestoreConfig struct {
	ProjectID       string `env:"FIRESTORE_PROJECT_ID"`
	CredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`
}

type DatabaseConfig struct {
	Host              string        `env:"DB_HOST" envDefault:"localhost"`
	Port              int           `env:"DB_PORT" envDefault:"5432"`
	User              string        `env:"DB_USER" envDefault:"storefront"`
	Password          string        `env:"DB_PASSWORD"`
	Database          string        `env:"DB_NAME" envDefault:"storefront_dev"`
	SSLMode           string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns          int32         `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConns          int32         `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"5m"`
	MaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"1m"`
	HealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MaxRetries        int           `env:"DB_MAX_RETRIES" envDefault:"5"`
	RetryDelay        time.Duration `env:"DB_RETRY_DELAY" envDefault:"1s"`
	ConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
}

type RedisConfig struct {
	Host      string `env:"REDIS_HOST" envDefault:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"storefront:"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"storefront-backend"`
	Expiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`
}

type SessionConfig struct {
	TTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

type WorkerConfig struct {
	Concurrency     int           `env:"WORKER_CONCURRENCY" envDefault:"10"`
	SweepCron       string        `env:"WORKER_SWEEP_CRON" envDefault:"0 3 * * *"`
	SweepPageSize   int           `env:"WORKER_SWEEP_PAGE_SIZE" envDefault:"200"`
	RepairDelay     time.Duration `env:"WORKER_REPAIR_DELAY" envDefault:"5s"`
	HealthCheckAddr string        `env:"WORKER_HEALTH_ADDR" envDefault:":9999"`
}

// Load đọc .env (nếu có) rồi parse environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFrom parses from an explicit environment map; used by tests.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverFirestore, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Store.CacheDriver {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown STORE_CACHE_DRIVER %q", c.Store.CacheDriver)
	}

	if c.Store.Driver == DriverFirestore && c.Firestore.ProjectID == "" {
		return errors.New("FIRESTORE_PROJECT_ID must be set for the firestore driver")
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be set in production")
		}
		if c.Store.Driver == DriverPostgres && c.Database.Password == "" {
			return errors.New("DB_PASSWORD must be set in production")
		}
		if c.Store.Driver == DriverMemory {
			log.Warn().Msg("WARNING: memory store driver in production - addresses are lost on restart")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
