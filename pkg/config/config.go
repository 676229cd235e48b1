// Package config loads client settings from a YAML file, an optional .env
// file and FITCOACH_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/NicolasHaas/fitcoach/pkg/logging"
)

// Environment overrides.
const (
	EnvAPIURL     = "FITCOACH_API_URL"
	EnvTimeout    = "FITCOACH_TIMEOUT"
	EnvStorage    = "FITCOACH_STORAGE"
	EnvPassphrase = "FITCOACH_PASSPHRASE"
	EnvLogLevel   = "FITCOACH_LOG_LEVEL"
	EnvLogFormat  = "FITCOACH_LOG_FORMAT"
)

// Config holds everything the client needs to reach the backend and persist the session.
type Config struct {
	APIURL            string        `yaml:"api_url"`
	Timeout           time.Duration `yaml:"timeout"`
	StoragePath       string        `yaml:"storage_path"`
	StoragePassphrase string        `yaml:"storage_passphrase,omitempty"` // empty = token stored unsealed
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		APIURL:      "http://localhost:3000/api",
		Timeout:     15 * time.Second,
		StoragePath: filepath.Join(Dir(), "storage.db"),
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Dir is the per-user directory holding config.yaml and storage.db.
// Falls back to the directory of the executable when no config dir exists.
func Dir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "fitcoach")
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// DefaultPath returns the location of config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Override adjusts loaded settings before validation.
type Override func(*Config)

// Flags holds command-line values. Empty fields leave the loaded value alone.
type Flags struct {
	APIURL      string
	StoragePath string
	LogLevel    string
	LogFormat   string
}

// Apply is an Override setting every non-empty flag.
func (f Flags) Apply(c *Config) {
	setIfNotEmpty(&c.APIURL, f.APIURL)
	setIfNotEmpty(&c.StoragePath, f.StoragePath)
	setIfNotEmpty(&c.LogLevel, f.LogLevel)
	setIfNotEmpty(&c.LogFormat, f.LogFormat)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Load reads path (missing file is fine), then envFile, then the process
// environment, then applies overrides in order, and validates the result.
// Pass an empty envFile to skip it.
func Load(path, envFile string, overrides ...Override) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path from user-provided CLI flag
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no config file, using defaults", "path", path)
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if envFile != "" {
		// godotenv never overrides variables already set in the environment
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvStorage); ok && v != "" {
		c.StoragePath = v
	}
	if v, ok := lookup(EnvPassphrase); ok {
		c.StoragePassphrase = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}
	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api_url must be an http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.StoragePath == "" {
		return fmt.Errorf("config: storage_path must not be empty")
	}
	if err := logging.Validate(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.LogFormat {
	case "text", "json", "":
	default:
		return fmt.Errorf("config: unknown log_format %q (valid: text, json)", c.LogFormat)
	}
	return nil
}

// Save writes the settings as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
