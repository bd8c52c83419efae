package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	// StoragePostgres keeps customers in postgres table
	StoragePostgres = "postgres"
	// StorageMongo keeps customers in mongo collection
	StorageMongo = "mongo"
)

// HTTPCfg configures http server
type HTTPCfg struct {
	Port            int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// PostgresCfg configures postgres connection pool
type PostgresCfg struct {
	User           string        `env:"POSTGRES_USER"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DB"`
	Host           string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port           int           `env:"POSTGRES_PORT" envDefault:"5432"`
	SslMode        string        `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	PoolMaxConn    int           `env:"POSTGRES_POOL_MAX_CONN" envDefault:"100"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" envDefault:"5s"`
}

// DSN builds connection string for pgxpool
func (c PostgresCfg) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s sslmode=%s pool_max_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SslMode, c.PoolMaxConn)
}

// MongoCfg configures mongo client
type MongoCfg struct {
	URI            string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB" envDefault:"customers"`
	MaxPoolSize    uint64        `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"5s"`
}

// RedisCfg configures customer cache, cache is disabled when Addr is empty
type RedisCfg struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LogCfg configures logrus level and formatter
type LogCfg struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Config is application configuration, Storage selects customers datasource
type Config struct {
	Storage     string `env:"STORAGE" envDefault:"postgres"`
	HTTPCfg     HTTPCfg
	PostgresCfg PostgresCfg
	MongoCfg    MongoCfg
	RedisCfg    RedisCfg
	LogCfg      LogCfg
}

// Build reads configuration from environment, variables from .env file (if any) are loaded first
func Build(envFiles ...string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load env file - %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	switch cfg.Storage {
	case StoragePostgres:
		if cfg.PostgresCfg.User == "" || cfg.PostgresCfg.Database == "" {
			return cfg, errors.New("POSTGRES_USER and POSTGRES_DB must be set for postgres storage")
		}
	case StorageMongo:
	default:
		return cfg, fmt.Errorf("unknown storage %q, must be %s or %s", cfg.Storage, StoragePostgres, StorageMongo)
	}

	return cfg, nil
}
