// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/utafrali/addressbook/pkg/config"
	"github.com/utafrali/addressbook/pkg/database"
)

// Config holds all service configuration.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8007"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"addressbook"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	RedisEnabled  bool   `env:"REDIS_ENABLED" envDefault:"true"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	JWTAccessTTL   time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	SuperUserID    int64         `env:"SUPER_USER_ID" envDefault:"1"`
	GrantsCacheTTL time.Duration `env:"GRANTS_CACHE_TTL" envDefault:"5m"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// PostgresConfig maps the config to the database package's connection config.
func (c *Config) PostgresConfig() database.PostgresConfig {
	return database.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSLMode,
		MaxConns: c.PostgresMaxConns,
	}
}

// RedisConfig maps the config to the database package's Redis config.
func (c *Config) RedisConfig() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// HTTPAddr returns the listen address of the HTTP server.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
