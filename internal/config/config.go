// Package config loads passctl's YAML configuration. Every field has a
// working default, so a missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full passctl configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
	Cache CacheConfig `yaml:"cache"`
	Log   LogConfig   `yaml:"log"`
	Audit AuditConfig `yaml:"audit"`
}

// StoreConfig locates the backing store and its tools.
type StoreConfig struct {
	// Root is the store directory. Empty defers to the
	// PASSWORD_STORE_DIR environment variable and then the tool default.
	Root string `yaml:"root"`

	PassBin string `yaml:"pass_bin"`
	GPGBin  string `yaml:"gpg_bin"`

	// TimeoutSeconds caps each external tool call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// CacheConfig bounds the decrypted-entry cache.
type CacheConfig struct {
	Capacity   int `yaml:"capacity"`
	TTLSeconds int `yaml:"ttl_seconds"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AuditConfig controls the operation audit trail.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			PassBin:        "pass",
			GPGBin:         "gpg",
			TimeoutSeconds: 15,
		},
		Cache: CacheConfig{
			Capacity:   64,
			TTLSeconds: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
		Audit: AuditConfig{
			Enabled: false,
			Dir:     defaultAuditDir(),
		},
	}
}

// DefaultPath returns ~/.config/passctl/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "passctl", "config.yaml")
	}
	return filepath.Join(home, ".config", "passctl", "config.yaml")
}

func defaultAuditDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share", "passctl")
	}
	return filepath.Join(home, ".local", "share", "passctl")
}

// Load reads the configuration from the default path. A missing file
// yields the defaults.
func Load() (*Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile reads the configuration from path, merging it over the
// defaults: fields the file omits keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Timeout returns the tool timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Store.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
