package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT    JWTConfig
	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Worker WorkerConfig
}

type JWTConfig struct {
	Secret            string `env:"JWT_SECRET, required"`
	Issuer            string `env:"JWT_ISSUER, default=https://localhost:7032"`
	Audience          string `env:"JWT_AUDIENCE, default=https://localhost:5173"`
	ExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES, default=1440"`
}

// TTL is the configured session window.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationMinutes) * time.Minute
}

type AuthConfig struct {
	BcryptCost     int           `env:"BCRYPT_COST,     default=12"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,  default=legalvibes"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=0"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

type WorkerConfig struct {
	ActivityWorkers int `env:"ACTIVITY_WORKERS, default=4"`
}

// IsDevelopment reports whether human-friendly console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through an arbitrary lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if cfg.JWT.ExpirationMinutes <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION_MINUTES must be positive, got %d", cfg.JWT.ExpirationMinutes)
	}
	return &cfg, nil
}
