// Package config loads pdnsq configuration from a YAML file and the
// environment. Environment variables override file values; flags override
// both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the per-user configuration file looked up when no
// --config flag is given.
const DefaultFileName = ".pdnsq.yaml"

const defaultTimeoutSeconds = 60

// Config holds credentials, backend selection and transfer tuning.
type Config struct {
	APIKey         string `yaml:"api_key"`
	Server         string `yaml:"server"`
	System         string `yaml:"system"`
	CirclUser      string `yaml:"circl_user"`
	CirclPassword  string `yaml:"circl_password"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{TimeoutSeconds: defaultTimeoutSeconds}
}

// Load reads the configuration file at path, or the per-user default when
// path is empty. A missing default file is not an error; a missing
// explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, DefaultFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeoutSeconds
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto the configuration.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DNSDB_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("DNSDB_SERVER"); v != "" {
		c.Server = v
	}
	if v := os.Getenv("PDNSQ_SYSTEM"); v != "" {
		c.System = v
	}
	if v := os.Getenv("CIRCL_AUTH"); v != "" {
		user, pass, found := strings.Cut(v, ":")
		if !found {
			return fmt.Errorf("CIRCL_AUTH must be user:password")
		}
		c.CirclUser = user
		c.CirclPassword = pass
	}
	if v := os.Getenv("PDNSQ_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return fmt.Errorf("PDNSQ_TIMEOUT must be a positive integer, got %q", v)
		}
		c.TimeoutSeconds = secs
	}
	return nil
}

// Timeout returns the per-transfer timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
