package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

const EnvDevelopment = "development"

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h" validate:"gt=0"`

	Log      LogConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	API      APIConfig
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL,        default=info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB,  default=100" validate:"gte=1"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS,  default=3"   validate:"gte=0"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS, default=28"  validate:"gte=0"`
}

type DatabaseConfig struct {
	Type string `env:"DB_TYPE, default=sqlite" validate:"oneof=sqlite postgres"`
	// DSN is a file path for sqlite (empty means in-memory) and a
	// connection string for postgres.
	DSN string `env:"DB_DSN, default=bookhive.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017" validate:"required"`
	Database string `env:"MONGO_DB,  default=bookhive"                  validate:"required"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379" validate:"required"`
	DB   int    `env:"REDIS_DB,   default=0"              validate:"gte=0"`
}

type APIConfig struct {
	PageSize      int `env:"PAGE_SIZE,      default=10"  validate:"gte=1"`
	MaxPageSize   int `env:"MAX_PAGE_SIZE,  default=100" validate:"gtefield=PageSize"`
	NotifyWorkers int `env:"NOTIFY_WORKERS, default=4"   validate:"gte=1,lte=64"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// Validate checks field constraints and rejects an empty JWT secret outside
// development.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.JWTSecret == "" && !c.IsDevelopment() {
		return errors.New("invalid configuration: JWT_SECRET is required outside development")
	}
	return nil
}

// Secret returns the signing key, falling back to a fixed development key.
func (c *Config) Secret() string {
	if c.JWTSecret == "" {
		return "bookhive-development-secret"
	}
	return c.JWTSecret
}
