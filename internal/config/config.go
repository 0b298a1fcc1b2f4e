// Package config provides configuration management for domainverse.
//
// Values come from a YAML file, overridden by environment variables. A .env
// file in the working directory is loaded first when present.
//
// Config file locations (priority order):
//  1. $DOMAINVERSE_CONFIG
//  2. ./domainverse.yaml
//  3. ~/.config/domainverse/config.yaml
//  4. /etc/domainverse/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MinSecretLength is the shortest accepted editor signing secret
const MinSecretLength = 32

// Config is the root configuration structure
type Config struct {
	// Environment selects the logger flavour (development or production)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	HTTP     HTTPConfig     `yaml:"http"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`

	// GracefulShutdownTimeout bounds how long in-flight requests may run on shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// HTTPConfig holds the listener settings
type HTTPConfig struct {
	Addr              string        `env:"HTTP_ADDR" env-default:":3000" yaml:"addr"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
	// WriteTimeout stays zero by default so the event stream is not cut off
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"0s" yaml:"writeTimeout"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
	MetricsPath  string        `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
}

// CatalogConfig points at the domain catalog. An empty path uses the built-in one.
type CatalogConfig struct {
	Path string `env:"CATALOG_PATH" yaml:"path"`
}

// DatabaseConfig points at the edit journal. An empty path disables it.
type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH" yaml:"path"`
}

// CacheConfig sizes the related-domain cache
type CacheConfig struct {
	Size int `env:"CACHE_SIZE" env-default:"256" yaml:"size"`
}

// AuthConfig guards the edit endpoints. An empty secret leaves them open.
type AuthConfig struct {
	Secret   string        `env:"AUTH_SECRET" yaml:"secret"`
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" env-default:"24h" yaml:"tokenTTL"`
}

// Load finds and loads the config file, or falls back to defaults and the
// environment when none is found
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg, err := FromEnv()
		return cfg, "", err
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	loadDotEnv()

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, path, fmt.Errorf("could not read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// FromEnv builds a config from defaults and environment variables only
func FromEnv() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv exports ./.env into the environment. Variables that are already
// set win, and a missing file is not an error.
func loadDotEnv() {
	_ = godotenv.Load()
}

// DefaultConfig returns the defaults, ignoring the environment
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		HTTP: HTTPConfig{
			Addr:              ":3000",
			ReadTimeout:       time.Minute,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       2 * time.Minute,
			MetricsPath:       "/metrics",
		},
		Cache:                   CacheConfig{Size: 256},
		Auth:                    AuthConfig{TokenTTL: 24 * time.Hour},
		GracefulShutdownTimeout: 10 * time.Second,
	}
}

// Validate rejects settings that would fail later at runtime
func (c *Config) Validate() error {
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative, got %d", c.Cache.Size)
	}
	if c.Auth.Secret != "" && len(c.Auth.Secret) < MinSecretLength {
		return fmt.Errorf("auth.secret must be at least %d characters", MinSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.tokenTTL must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}

// EditsProtected reports whether edit endpoints require a token
func (c *Config) EditsProtected() bool {
	return c.Auth.Secret != ""
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	catalog := c.Catalog.Path
	if catalog == "" {
		catalog = "built-in"
	}
	journal := c.Database.Path
	if journal == "" {
		journal = "disabled"
	}
	return fmt.Sprintf("Env: %s, Addr: %s, Catalog: %s, Journal: %s, Edits protected: %v",
		c.Environment, c.HTTP.Addr, catalog, journal, c.EditsProtected())
}
