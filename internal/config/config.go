package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the whole application configuration, read from the environment.
type Config struct {
	Port     string `env:"PORT" env-default:"8080"`
	GoEnv    string `env:"GO_ENV" env-default:"dev"` // dev / prod
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// DatabaseURL wins over the POSTGRES_* parts when set.
	DatabaseURL string `env:"DATABASE_URL"`
	Postgres    Postgres

	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	AccessTTL time.Duration `env:"ACCESS_TTL" env-default:"24h"`

	Vandar  Vandar
	Breaker Breaker
	Kafka   Kafka

	// storefront page the verify-redirect endpoint sends buyers back to
	StorefrontURL string `env:"STOREFRONT_URL" env-default:"http://localhost:3000"`
	// public origin of this API, used to build gateway callback URLs
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	// written to the site config row at boot
	DefaultDeliveryFee int64 `env:"DEFAULT_DELIVERY_FEE" env-default:"0"`
}

type Postgres struct {
	Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port     int    `env:"POSTGRES_PORT" env-default:"5432"`
	User     string `env:"POSTGRES_USER" env-default:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	DB       string `env:"POSTGRES_DB" env-default:"bookstore"`
	SSLMode  string `env:"POSTGRES_SSLMODE" env-default:"disable"`
}

type Vandar struct {
	APIKey  string        `env:"VANDAR_API_KEY"`
	BaseURL string        `env:"VANDAR_BASE_URL" env-default:"https://ipg.vandar.io"`
	IPGURL  string        `env:"VANDAR_IPG_URL" env-default:"https://ipg.vandar.io"`
	Timeout time.Duration `env:"VANDAR_TIMEOUT" env-default:"10s"`
}

type Breaker struct {
	MaxRequests uint32        `env:"BREAKER_MAX_REQUESTS" env-default:"3"`
	Interval    time.Duration `env:"BREAKER_INTERVAL" env-default:"5s"`
	Timeout     time.Duration `env:"BREAKER_TIMEOUT" env-default:"10s"`
}

type Kafka struct {
	// empty disables event publishing
	Brokers []string `env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `env:"KAFKA_INVOICE_TOPIC" env-default:"invoice-events"`
}

// DSN returns DatabaseURL or a DSN assembled from the POSTGRES_* parts.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	p := c.Postgres
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode,
	)
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if cfg.IsProd() && cfg.Vandar.APIKey == "" {
		return Config{}, fmt.Errorf("VANDAR_API_KEY is required")
	}
	if cfg.DefaultDeliveryFee < 0 {
		return Config{}, fmt.Errorf("DEFAULT_DELIVERY_FEE must not be negative")
	}

	return cfg, nil
}
