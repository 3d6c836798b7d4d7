// Package config loads and validates the application configuration from
// YAML, applying defaults for everything optional.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/builtnorth/schemagraph/errors"
)

// Duration wraps time.Duration with YAML scalar support for values like
// "30m" or "1h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Cache store backends.
const (
	StoreMemory = "memory" // in-process map, single instance
	StoreNATS   = "nats"   // NATS JetStream KV bucket, shared
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the complete application configuration.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Site    SiteConfig    `yaml:"site"`
	Logging LoggingConfig `yaml:"logging"`
}

// CacheConfig selects and tunes the cache backing store.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Namespace  string        `yaml:"namespace"`
	DefaultTTL Duration      `yaml:"default_ttl"`
	Store      string        `yaml:"store"`
	NATS       NATSConfig    `yaml:"nats"`
}

// NATSConfig is the connection target for the NATS-backed store.
type NATSConfig struct {
	URL    string `yaml:"url"`
	Bucket string `yaml:"bucket"`
}

// SiteConfig is the site identity used by the built-in providers when no
// content source supplies one.
type SiteConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
}

// LoggingConfig tunes the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every default applied: memory
// store, hour TTL, text logging at info.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled:    true,
			Namespace:  "schemagraph",
			DefaultTTL: Duration(time.Hour),
			Store:      StoreMemory,
			NATS: NATSConfig{
				URL:    "nats://localhost:4222",
				Bucket: "schemagraph-cache",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}

// Load reads a YAML config file, layers it over the defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Config", "Load", "file read")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapInvalid(err, "Config", "Load", "YAML parse")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Cache.Namespace == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"cache namespace check")
	}
	if c.Cache.DefaultTTL <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"cache default_ttl check")
	}

	switch c.Cache.Store {
	case StoreMemory:
	case StoreNATS:
		if c.Cache.NATS.URL == "" || c.Cache.NATS.Bucket == "" {
			return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
				"nats url and bucket check")
		}
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("unknown cache store %q", c.Cache.Store))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("unknown log level %q", c.Logging.Level))
	}

	switch c.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("unknown log format %q", c.Logging.Format))
	}

	return nil
}
