package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"gopkg.in/yaml.v2"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	HTTPAddr       string        `yaml:"http_addr"`
	CatalogURL     string        `yaml:"catalog_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Currency       string        `yaml:"currency"`

	StorageDriver string `yaml:"storage_driver"`
	StorageKey    string `yaml:"storage_key"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	RedisAddr     string `yaml:"redis_addr"`

	OTLPEndpoint string `yaml:"otlp_endpoint"`

	CatalogAddr string `yaml:"catalog_addr"`
	CatalogSeed string `yaml:"catalog_seed"`
}

func Default() Config {
	return Config{
		AppEnv:         "dev",
		LogLevel:       "info",
		HTTPAddr:       ":8080",
		CatalogURL:     "http://localhost:3333",
		RequestTimeout: 10 * time.Second,
		Currency:       "BRL",
		StorageDriver:  StorageMemory,
		StorageKey:     "@RocketShoes:cart",
		CatalogAddr:    ":3333",
		CatalogSeed:    "configs/catalog.yaml",
	}
}

// Load applies, in order: defaults, the YAML file at path (if path is not
// empty) and environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("os.ReadFile: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("yaml.UnmarshalStrict: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("cfg.applyEnv: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.AppEnv, "APP_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.CatalogURL, "CATALOG_URL")
	setString(&c.Currency, "CURRENCY")
	setString(&c.StorageDriver, "STORAGE_DRIVER")
	setString(&c.StorageKey, "STORAGE_KEY")
	setString(&c.PostgresDSN, "POSTGRES_DSN")
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&c.CatalogAddr, "CATALOG_ADDR")
	setString(&c.CatalogSeed, "CATALOG_SEED")

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT[%s] is not valid: %w", v, err)
		}
		c.RequestTimeout = d
	}

	return nil
}

func (c Config) Validate() error {
	var errs []error

	if _, err := currency.ParseISO(c.Currency); err != nil {
		errs = append(errs, fmt.Errorf("currency[%s] is not valid: %w", c.Currency, err))
	}
	if c.StorageKey == "" {
		errs = append(errs, errors.New("storage key is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres dsn is required for postgres storage"))
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis addr is required for redis storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage driver[%s] is not supported", c.StorageDriver))
	}

	return errors.Join(errs...)
}

// CurrencyUnit assumes Validate has passed.
func (c Config) CurrencyUnit() currency.Unit {
	return currency.MustParseISO(c.Currency)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
