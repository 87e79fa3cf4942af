// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Cart       CartConfig       `yaml:"cart"`
	Quantity   QuantityConfig   `yaml:"quantity"`
	MockServer MockServerConfig `yaml:"mock_server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// APIConfig defines the remote catalog API settings.
type APIConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines client-side rate limiting for the remote API.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// CatalogConfig defines product listing behavior.
type CatalogConfig struct {
	PageSize       int           `yaml:"page_size"`
	SearchDebounce time.Duration `yaml:"search_debounce"`
}

// CartConfig defines the cart seed and pricing.
type CartConfig struct {
	ID       int      `yaml:"id"`
	Delivery *float64 `yaml:"delivery"` // nil means default; 0 is free delivery
	Unit     string   `yaml:"unit"`
}

// DeliveryFee returns the configured delivery fee.
func (c *CartConfig) DeliveryFee() float64 {
	if c.Delivery == nil {
		return defaultDelivery
	}
	return *c.Delivery
}

// QuantityConfig bounds the quantity steppers.
type QuantityConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// MockServerConfig defines the local mock API listener.
type MockServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port listen address.
func (m *MockServerConfig) Addr() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

const defaultDelivery = 2.00

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a complete configuration for running without a file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyAPIDefaults(&cfg.API)
	applyCatalogDefaults(&cfg.Catalog)
	applyCartDefaults(&cfg.Cart)
	applyQuantityDefaults(&cfg.Quantity)
	applyMockServerDefaults(&cfg.MockServer)
	applyLoggingDefaults(&cfg.Logging)
}

func applyAPIDefaults(a *APIConfig) {
	if a.BaseURL == "" {
		a.BaseURL = "https://dummyjson.com"
	}
	if a.Timeout == 0 {
		a.Timeout = 30 * time.Second
	}
	if a.RateLimit.PerSecond == 0 {
		a.RateLimit.PerSecond = 5.0
	}
	if a.RateLimit.Burst == 0 {
		a.RateLimit.Burst = 10
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.PageSize == 0 {
		c.PageSize = 10
	}
	if c.SearchDebounce == 0 {
		c.SearchDebounce = 500 * time.Millisecond
	}
}

func applyCartDefaults(c *CartConfig) {
	if c.ID == 0 {
		c.ID = 1
	}
	if c.Delivery == nil {
		fee := defaultDelivery
		c.Delivery = &fee
	}
	if c.Unit == "" {
		c.Unit = "1 pc"
	}
}

func applyQuantityDefaults(q *QuantityConfig) {
	if q.Min == 0 {
		q.Min = 1
	}
	if q.Max == 0 {
		q.Max = 99
	}
}

func applyMockServerDefaults(m *MockServerConfig) {
	if m.Host == "" {
		m.Host = "127.0.0.1"
	}
	if m.Port == 0 {
		m.Port = 8089
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("api.base_url must be an absolute http(s) URL (got %q)", cfg.API.BaseURL))
	}
	if cfg.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative"))
	}
	if cfg.API.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit.burst must not be negative"))
	}

	if cfg.Catalog.PageSize < 1 {
		errs = append(errs, fmt.Errorf("catalog.page_size must be at least 1"))
	}
	if cfg.Catalog.SearchDebounce < 0 {
		errs = append(errs, fmt.Errorf("catalog.search_debounce must not be negative"))
	}

	if cfg.Cart.ID < 1 {
		errs = append(errs, fmt.Errorf("cart.id must be at least 1"))
	}
	if cfg.Cart.DeliveryFee() < 0 {
		errs = append(errs, fmt.Errorf("cart.delivery must not be negative"))
	}

	if cfg.Quantity.Min < 1 {
		errs = append(errs, fmt.Errorf("quantity.min must be at least 1"))
	}
	if cfg.Quantity.Max < cfg.Quantity.Min {
		errs = append(
			errs,
			fmt.Errorf("quantity.max (%d) must not be below quantity.min (%d)", cfg.Quantity.Max, cfg.Quantity.Min),
		)
	}

	if cfg.MockServer.Port < 1 || cfg.MockServer.Port > 65535 {
		errs = append(errs, fmt.Errorf("mock_server.port must be between 1 and 65535"))
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(
			errs,
			fmt.Errorf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level),
		)
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		errs = append(
			errs,
			fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format),
		)
	}

	return errors.Join(errs...)
}
