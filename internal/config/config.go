package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
	StorageRedis    = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	Storage     string `env:"STORAGE" envDefault:"file"`
	AddressFile string `env:"ADDRESS_FILE" envDefault:"addresses.json"`

	DBHost     string `env:"DB_HOST"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	MongoURI        string `env:"MONGO_URI"`
	MongoDBName     string `env:"MONGO_DB_NAME" envDefault:"addresses_db"`
	MongoCollection string `env:"MONGO_DB_COLLECTION" envDefault:"addresses"`

	RedisURL string `env:"REDIS_URL"`

	JWTSecret      string  `env:"JWT_SECRET"`
	CORSOrigin     string  `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// LoadConfig reads an optional .env file, then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Storage = normalizeStorage(cfg.Storage)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected storage backend has what it needs.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile:
		if c.AddressFile == "" {
			return fmt.Errorf("%w: ADDRESS_FILE is required for file storage", ErrInvalidConfig)
		}
	case StorageMemory:
	case StoragePostgres:
		if c.DBHost == "" {
			return fmt.Errorf("%w: DB_HOST is required for postgres storage", ErrInvalidConfig)
		}
	case StorageMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("%w: MONGO_URI is required for mongo storage", ErrInvalidConfig)
		}
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for redis storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORAGE %q", ErrInvalidConfig, c.Storage)
	}
	return nil
}

func normalizeStorage(s string) string {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "inmemory", "in-memory":
		return StorageMemory
	case "mongodb":
		return StorageMongo
	case "postgresql", "pg":
		return StoragePostgres
	default:
		return s
	}
}
