// Package config loads serpscope's worker configuration. Values resolve in
// three layers: built-in defaults, then an optional YAML file, then
// SERPSCOPE_* environment variables. Provider API keys never appear here;
// provider rows reference them by environment variable name.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds worker configuration
type Config struct {
	// DBPath is the SQLite database file path
	// Default: ".serpscope/serpscope.db"
	DBPath string `yaml:"db_path"`

	// RefreshInterval is the rolling freshness window per (word, provider)
	// pair; a pair with a capture newer than this is not due.
	// Default: 336h (14 days)
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// MaxConcurrent bounds simultaneous in-flight provider calls
	// Default: 5, Range: 1-64
	MaxConcurrent int `yaml:"max_concurrent"`

	// MaxAttempts is the per-pair retry budget for transient provider errors
	// Default: 3, Range: 1-10
	MaxAttempts int `yaml:"max_attempts"`

	// InitialBackoff is the first retry delay; doubles per attempt up to
	// MaxBackoff, with jitter.
	// Default: 1s
	InitialBackoff time.Duration `yaml:"initial_backoff"`

	// MaxBackoff caps the retry delay
	// Default: 30s
	MaxBackoff time.Duration `yaml:"max_backoff"`

	// CallTimeout bounds one provider call (connect through body read)
	// Default: 60s
	CallTimeout time.Duration `yaml:"call_timeout"`

	// ProviderRPS paces requests per provider; 0 disables pacing
	// Default: 0
	ProviderRPS float64 `yaml:"provider_rps"`

	// ExtractionProvider names the provider used for entity extraction and
	// mention analysis. Empty picks the first active provider with usable
	// credentials.
	ExtractionProvider string `yaml:"extraction_provider"`

	// AnalyzeMentions enables the brand-mention pass after extraction
	// Default: true
	AnalyzeMentions bool `yaml:"analyze_mentions"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		DBPath:          ".serpscope/serpscope.db",
		RefreshInterval: 14 * 24 * time.Hour,
		MaxConcurrent:   5,
		MaxAttempts:     3,
		InitialBackoff:  1 * time.Second,
		MaxBackoff:      30 * time.Second,
		CallTimeout:     60 * time.Second,
		ProviderRPS:     0,
		AnalyzeMentions: true,
	}
}

// Load resolves configuration from defaults, an optional YAML file, and
// environment overrides, in that order. A missing file is not an error;
// an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from SERPSCOPE_* environment variables
func (c *Config) applyEnv() error {
	if v := os.Getenv("SERPSCOPE_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if err := envDuration("SERPSCOPE_REFRESH_INTERVAL", &c.RefreshInterval); err != nil {
		return err
	}
	if err := envInt("SERPSCOPE_MAX_CONCURRENT", &c.MaxConcurrent); err != nil {
		return err
	}
	if err := envInt("SERPSCOPE_MAX_ATTEMPTS", &c.MaxAttempts); err != nil {
		return err
	}
	if err := envDuration("SERPSCOPE_INITIAL_BACKOFF", &c.InitialBackoff); err != nil {
		return err
	}
	if err := envDuration("SERPSCOPE_MAX_BACKOFF", &c.MaxBackoff); err != nil {
		return err
	}
	if err := envDuration("SERPSCOPE_CALL_TIMEOUT", &c.CallTimeout); err != nil {
		return err
	}
	if v := os.Getenv("SERPSCOPE_PROVIDER_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SERPSCOPE_PROVIDER_RPS: %w", err)
		}
		c.ProviderRPS = f
	}
	if v := os.Getenv("SERPSCOPE_EXTRACTION_PROVIDER"); v != "" {
		c.ExtractionProvider = v
	}
	if v := os.Getenv("SERPSCOPE_ANALYZE_MENTIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SERPSCOPE_ANALYZE_MENTIONS: %w", err)
		}
		c.AnalyzeMentions = b
	}
	return nil
}

// Validate checks configuration ranges
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %v", c.RefreshInterval)
	}
	if c.MaxConcurrent < 1 || c.MaxConcurrent > 64 {
		return fmt.Errorf("max_concurrent must be in 1-64, got %d", c.MaxConcurrent)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("max_attempts must be in 1-10, got %d", c.MaxAttempts)
	}
	if c.InitialBackoff <= 0 || c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("backoff range is invalid: initial=%v max=%v", c.InitialBackoff, c.MaxBackoff)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call_timeout must be positive, got %v", c.CallTimeout)
	}
	if c.ProviderRPS < 0 {
		return fmt.Errorf("provider_rps must be >= 0, got %v", c.ProviderRPS)
	}
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
