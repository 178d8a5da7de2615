package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"

	"github.com/nekogravitycat/stay-booking-backend/internal/account"
	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/calendar"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
)

const PROD_STRING = "prod"

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	ProdOrigins string `envconfig:"PROD_ORIGINS"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	// Prometheus is served on its own listener. Empty disables it.
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
	DBDSN         string `envconfig:"DB_DSN"`

	JWTSecret         string        `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"15m"`
	BcryptCost        int           `envconfig:"BCRYPT_COST" default:"12"`

	RegistryAddress      string        `envconfig:"REGISTRY_ADDRESS" default:"stays.testnet"`
	RegistryOwner        string        `envconfig:"REGISTRY_OWNER" required:"true"`
	RegistryCreatePolicy string        `envconfig:"REGISTRY_CREATE_POLICY" default:"open"`
	RegistryCreationFee  amount.Amount `envconfig:"REGISTRY_CREATION_FEE" default:"10000000000000000000000000"`
	CalendarLeapRule     string        `envconfig:"CALENDAR_LEAP_RULE" default:"gregorian"`

	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"staybook.events"`

	UploadDir      string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	UploadMaxBytes int64  `envconfig:"UPLOAD_MAX_BYTES" default:"5242880"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Derived by Load.
	IsProduction bool                    `ignored:"true"`
	Policy       registry.CreationPolicy `ignored:"true"`
	Calendar     calendar.Calendar       `ignored:"true"`
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	return FromEnv()
}

// FromEnv decodes and validates the process environment without reading .env.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.IsProduction = c.AppEnv == PROD_STRING

	if c.IsProduction && strings.TrimSpace(c.ProdOrigins) == "" {
		return errors.New("PROD_ORIGINS is required when APP_ENV is prod")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StoragePostgres:
		if c.DBDSN == "" {
			return errors.New("DB_DSN is required when STORAGE_DRIVER is postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: must be postgres or memory", c.StorageDriver)
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("invalid BCRYPT_COST: %d is outside [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.JWTAccessTokenTTL <= 0 {
		return errors.New("invalid JWT_ACCESS_TOKEN_TTL: must be positive")
	}

	if !account.ValidID(c.RegistryAddress) {
		return fmt.Errorf("invalid REGISTRY_ADDRESS %q", c.RegistryAddress)
	}
	if !account.ValidID(c.RegistryOwner) {
		return fmt.Errorf("invalid REGISTRY_OWNER %q", c.RegistryOwner)
	}

	policy, err := registry.ParsePolicy(c.RegistryCreatePolicy)
	if err != nil {
		return fmt.Errorf("invalid REGISTRY_CREATE_POLICY: %w", err)
	}
	c.Policy = policy

	rule, err := calendar.ParseLeapRule(c.CalendarLeapRule)
	if err != nil {
		return fmt.Errorf("invalid CALENDAR_LEAP_RULE: %w", err)
	}
	c.Calendar = calendar.NewCalendar(rule)

	if c.UploadMaxBytes <= 0 {
		return errors.New("invalid UPLOAD_MAX_BYTES: must be positive")
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", c.LogFormat)
	}
	return nil
}
