package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/wallet-server/internal/session"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// PostgresConfig is the database part of Config. The migration script reads
// only this part.
type PostgresConfig struct {
	PostgresAddress  string `envconfig:"POSTGRES_ADDRESS" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5433"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"postgres"`
	PostgresUsername string `envconfig:"POSTGRES_USERNAME" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"testpassword"`
}

// Config is read from the environment. Defaults match the docker compose
// setup.
type Config struct {
	Port           string `envconfig:"PORT" default:"9446"`
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"postgres"`

	PostgresConfig

	TokenSecret     string        `envconfig:"TOKEN_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"2h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"10"`

	RedisAddress       string        `envconfig:"REDIS_ADDRESS"`
	StatisticsCacheTTL time.Duration `envconfig:"STATISTICS_CACHE_TTL" default:"5m"`

	OperatorWorkers int    `envconfig:"OPERATOR_WORKERS" default:"4"`
	AuthRateLimit   int    `envconfig:"AUTH_RATE_LIMIT" default:"20"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
}

// ProcessEnvironmentVariables loads an optional .env file and then reads the
// process environment.
func ProcessEnvironmentVariables() (*Config, error) {
	_ = godotenv.Load()

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// ProcessPostgresVariables reads only the database settings.
func ProcessPostgresVariables() (*PostgresConfig, error) {
	_ = godotenv.Load()

	var env PostgresConfig
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Config) validate() error {
	if len(c.TokenSecret) < 32 {
		return errors.New("TOKEN_SECRET must be at least 32 bytes")
	}
	if c.StorageBackend != BackendPostgres && c.StorageBackend != BackendMemory {
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST %d out of range", c.BcryptCost)
	}
	if c.OperatorWorkers < 1 {
		return errors.New("OPERATOR_WORKERS must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// PostgresURL is the connection string for lib/pq and golang-migrate.
func (c *PostgresConfig) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     c.PostgresAddress + ":" + c.PostgresPort,
		Path:     c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) Session() session.Config {
	return session.Config{
		Secret:     []byte(c.TokenSecret),
		AccessTTL:  c.AccessTokenTTL,
		RefreshTTL: c.RefreshTokenTTL,
	}
}
