// Package config loads the terminal configuration: a YAML file under the user
// config directory, overlaid with TILL_* environment variables. A .env file in
// the working directory is honored so a lane terminal can be pointed at its
// backend without editing the config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all till configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Scanner ScannerConfig `yaml:"scanner"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig points the terminal at the POS backend.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// StoreConfig carries per-store display and pricing settings.
type StoreConfig struct {
	Name    string  `yaml:"name"`
	TaxRate float64 `yaml:"tax_rate"`
}

// ScannerConfig tunes the barcode input decoder.
type ScannerConfig struct {
	IdleTimeout string `yaml:"idle_timeout"`
	MinLength   int    `yaml:"min_length"`
}

// LoggingConfig configures the file logger. The TUI owns the terminal, so
// logs always go to a file.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000/api",
			Timeout: "10s",
		},
		Store: StoreConfig{
			Name:    "Main Store",
			TaxRate: 0.16,
		},
		Scanner: ScannerConfig{
			IdleTimeout: "100ms",
			MinLength:   4,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "till.log",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "till.yaml")
	}
	return filepath.Join(dir, "till", "config.yaml")
}

// Load reads the YAML file at path (defaults are returned when it does not
// exist), then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Missing .env is the normal case.
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TILL_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("TILL_SERVER_TIMEOUT"); v != "" {
		c.Server.Timeout = v
	}
	if v := os.Getenv("TILL_STORE_NAME"); v != "" {
		c.Store.Name = v
	}
	if v := os.Getenv("TILL_TAX_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			c.Store.TaxRate = rate
		}
	}
	if v := os.Getenv("TILL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TILL_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// ServerTimeout parses the server timeout, falling back to 10s.
func (c *Config) ServerTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Server.Timeout); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

// ScannerIdleTimeout parses the scanner idle window, falling back to 100ms.
func (c *Config) ScannerIdleTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Scanner.IdleTimeout); err == nil && d > 0 {
		return d
	}
	return 100 * time.Millisecond
}

// Validate rejects configurations the terminal cannot run with.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	if c.Store.TaxRate < 0 || c.Store.TaxRate >= 1 {
		return fmt.Errorf("store.tax_rate must be in [0, 1), got %v", c.Store.TaxRate)
	}
	if c.Scanner.MinLength < 1 {
		return fmt.Errorf("scanner.min_length must be at least 1")
	}
	return nil
}
