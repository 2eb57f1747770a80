// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Docs     DocsConfig     `yaml:"docs"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	OpenAPI  OpenAPIConfig  `yaml:"openapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig configures the API that try-it requests are sent to.
type UpstreamConfig struct {
	URL             string        `yaml:"url"`
	APIPrefix       string        `yaml:"api_prefix"` // prepended to every documented path
	Timeout         time.Duration `yaml:"timeout"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// BaseURL returns the upstream URL joined with the API prefix.
func (u UpstreamConfig) BaseURL() string {
	return strings.TrimRight(u.URL, "/") + u.APIPrefix
}

// DocsConfig configures the reference pages.
type DocsConfig struct {
	Title        string `yaml:"title"`
	DefaultTheme string `yaml:"default_theme"` // "dark" or "light"
	LogoURL      string `yaml:"logo_url,omitempty"`
}

// CatalogConfig selects the catalog document. An empty path uses the embedded one.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // default: /metrics
}

// OpenAPIConfig configures the OpenAPI export and Swagger UI.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv creates configuration from defaults and environment variables.
//
// Environment variables:
//
//	APIDOCS_SERVER_HOST        - Server host (default: 0.0.0.0)
//	APIDOCS_SERVER_PORT        - Server port (default: 8080)
//	APIDOCS_UPSTREAM_URL       - Try-it target (default: https://app.monada.ai)
//	APIDOCS_UPSTREAM_PREFIX    - Path prefix of the API (default: /api)
//	APIDOCS_UPSTREAM_TIMEOUT   - Try-it request timeout (default: 30s)
//	APIDOCS_DOCS_TITLE         - Page title
//	APIDOCS_DOCS_THEME         - Default theme: dark or light (default: dark)
//	APIDOCS_CATALOG_PATH       - Catalog YAML file (default: embedded)
//	APIDOCS_LOG_LEVEL          - Log level: debug, info, warn, error (default: info)
//	APIDOCS_LOG_FORMAT         - Log format: json or console (default: json)
//	APIDOCS_METRICS_ENABLED    - Enable /metrics endpoint (default: true)
//	APIDOCS_OPENAPI_ENABLED    - Enable OpenAPI/Swagger (default: true)
func LoadFromEnv() (*Config, error) {
	cfg := newConfig()

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadWithFallback loads path when it exists, otherwise the environment.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// newConfig returns a config with the boolean switches on, so a file
// that omits a section keeps the feature.
func newConfig() *Config {
	return &Config{
		Metrics: MetricsConfig{Enabled: true},
		OpenAPI: OpenAPIConfig{Enabled: true},
	}
}

// applyEnvOverrides applies APIDOCS_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("APIDOCS_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("APIDOCS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	envDuration("APIDOCS_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("APIDOCS_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)

	// Upstream
	if v := os.Getenv("APIDOCS_UPSTREAM_URL"); v != "" {
		cfg.Upstream.URL = v
	}
	if v, ok := os.LookupEnv("APIDOCS_UPSTREAM_PREFIX"); ok {
		cfg.Upstream.APIPrefix = v
	}
	envDuration("APIDOCS_UPSTREAM_TIMEOUT", &cfg.Upstream.Timeout)

	// Docs
	if v := os.Getenv("APIDOCS_DOCS_TITLE"); v != "" {
		cfg.Docs.Title = v
	}
	if v := os.Getenv("APIDOCS_DOCS_THEME"); v != "" {
		cfg.Docs.DefaultTheme = v
	}
	if v := os.Getenv("APIDOCS_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}

	// Logging
	if v := os.Getenv("APIDOCS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("APIDOCS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics
	if v := os.Getenv("APIDOCS_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("APIDOCS_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	// OpenAPI
	if v := os.Getenv("APIDOCS_OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Upstream.URL == "" {
		cfg.Upstream.URL = "https://app.monada.ai"
		if cfg.Upstream.APIPrefix == "" {
			cfg.Upstream.APIPrefix = "/api"
		}
	}
	cfg.Upstream.APIPrefix = strings.TrimRight(cfg.Upstream.APIPrefix, "/")
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 30 * time.Second
	}
	if cfg.Upstream.MaxIdleConns == 0 {
		cfg.Upstream.MaxIdleConns = 100
	}
	if cfg.Upstream.IdleConnTimeout == 0 {
		cfg.Upstream.IdleConnTimeout = 90 * time.Second
	}

	if cfg.Docs.Title == "" {
		cfg.Docs.Title = "Monada API Documentation"
	}
	if cfg.Docs.DefaultTheme == "" {
		cfg.Docs.DefaultTheme = "dark"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port))
	}

	u, err := url.Parse(cfg.Upstream.URL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("upstream.url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("upstream.url must use http or https, got %q", cfg.Upstream.URL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("upstream.url must include a host, got %q", cfg.Upstream.URL))
	}
	if p := cfg.Upstream.APIPrefix; p != "" && !strings.HasPrefix(p, "/") {
		errs = append(errs, fmt.Errorf("upstream.api_prefix must start with '/', got %q", p))
	}
	if cfg.Upstream.Timeout < 0 {
		errs = append(errs, errors.New("upstream.timeout must not be negative"))
	}

	switch cfg.Docs.DefaultTheme {
	case "dark", "light":
	default:
		errs = append(errs, fmt.Errorf("docs.default_theme must be 'dark' or 'light', got %q", cfg.Docs.DefaultTheme))
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of: debug, info, warn, error"))
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format))
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path))
	}

	return errors.Join(errs...)
}
