// Package config loads the gateway's configuration file and applies the
// environment-variable overlay described in spec.md §6, following the
// teacher's load-then-override shape (config/config.go) adapted to the
// single <PREFIX>__SECTION__KEY separator convention the original Rust
// implementation took from the `config` crate's Environment source.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/artpar/gateway/domain/route"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix environment overrides are matched under, e.g.
// GATEWAY__SERVER__PORT=9000.
const EnvPrefix = "GATEWAY"

// ServerConfig configures the listener.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// LoggingConfig configures the logger. It is opaque to the core beyond
// Level/Format, which bootstrap uses to construct the zerolog.Logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" (default) or "console"
}

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Routes  []route.Route `yaml:"routes"`
	Debug   bool          `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no file is supplied and none
// is found at the default path: listener on 127.0.0.1:8080, no routes.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			MaxConnections: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultPath is searched when no -c/--config flag is given. Its absence is
// not an error.
const DefaultPath = "gateway.yaml"

// Load reads and decodes the YAML file at path, applies environment
// expansion inside the file (os.ExpandEnv, matching the teacher's
// config.Load) and then the GATEWAY__ env overlay, and normalizes each
// route's defaults (MatchType, Methods). Environment values always take
// precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	normalizeRoutes(cfg)
	return cfg, nil
}

// LoadOrDefault behaves like the CLI's config-resolution rule in spec.md
// §6: if explicitPath is non-empty, it must exist — Load's os.ReadFile
// error is returned, wrapped as "read config: ...". If explicitPath is empty, DefaultPath is
// tried and its absence falls back to Default() overlaid with environment
// variables.
func LoadOrDefault(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return Load(DefaultPath)
	}
	cfg := Default()
	applyEnvOverrides(cfg)
	normalizeRoutes(cfg)
	return cfg, nil
}

func normalizeRoutes(cfg *Config) {
	for i, r := range cfg.Routes {
		r = r.WithDefaults()
		if r.Methods == nil {
			r.Methods = route.DefaultMethods
		}
		cfg.Routes[i] = r
	}
}

// applyEnvOverrides applies GATEWAY_* environment variables to cfg.
// Environment variables always override file-based configuration. Only
// server/logging/debug are overridable this way — routes are configured
// exclusively through the file, matching spec.md §6's schema (routes has
// no corresponding env var form).
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "__SERVER__HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv(EnvPrefix + "__SERVER__PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv(EnvPrefix + "__SERVER__MAX_CONNECTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MaxConnections = n
		}
	}
	if v := os.Getenv(EnvPrefix + "__DEBUG"); v != "" {
		cfg.Debug = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv(EnvPrefix + "__LOGGING__LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "__LOGGING__FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Addr returns the listener address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
