package mercury

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration consumed by application bootstraps.
type Config struct {
	Addr     string `yaml:"addr"`
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	RateLimit RateLimitSettings `yaml:"rate_limit"`
}

// RateLimitSettings configures the optional per-client rate limiter.
type RateLimitSettings struct {
	Enabled bool    `yaml:"enabled"`
	Rate    float64 `yaml:"rate"`
	Burst   int     `yaml:"burst"`
}

// DefaultConfig returns the baseline configuration: listen on :8080, info
// logging, debug off.
func DefaultConfig() *Config {
	return &Config{
		Addr:     ":8080",
		LogLevel: "info",
		RateLimit: RateLimitSettings{
			Rate:  50,
			Burst: 100,
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // operator-provided path
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.RateLimit.Enabled && c.RateLimit.Rate <= 0 {
		return fmt.Errorf("config: rate_limit.rate must be positive")
	}
	return nil
}

// SlogLevel maps the configured log level onto slog's scale.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("config: unknown log_level %q", c.LogLevel)
}
