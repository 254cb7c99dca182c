// Package config loads runtime configuration from an optional TOML or YAML
// file and the environment. Environment variables win over the file, and anything
// still unset falls back to a default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when API_KEY is not set.
var ErrMissingAPIKey = errors.New("API_KEY environment variable is not set")

// Config holds runtime configuration for groundchat.
type Config struct {
	// APIKey is only ever read from the environment.
	APIKey string `toml:"-" yaml:"-"`
	Model  string `toml:"model" yaml:"model"`

	Server ServerConfig `toml:"server" yaml:"server"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host         string        `toml:"host" yaml:"host"`
	Port         int           `toml:"port" yaml:"port"`
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `toml:"idle_timeout" yaml:"idle_timeout"`
}

const (
	envKeyAPIKey       = "API_KEY"
	envKeyModel        = "MODEL"
	envKeyHost         = "HOST"
	envKeyPort         = "PORT"
	envKeyReadTimeout  = "READ_TIMEOUT"
	envKeyWriteTimeout = "WRITE_TIMEOUT"
	envKeyIdleTimeout  = "IDLE_TIMEOUT"
)

const (
	defaultModel        = "gemini-2.5-flash"
	defaultHost         = "0.0.0.0"
	defaultPort         = 8080
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 2 * time.Minute // a grounded answer can take a while
	defaultIdleTimeout  = 60 * time.Second
)

// Load builds the configuration. path may be empty, in which case only the
// environment and defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	fillDefaults(cfg)

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return cfg, nil
}

// loadFile decodes path into cfg, choosing the format by extension.
// Anything that is not .yaml or .yml is read as TOML.
func loadFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("could not read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("could not decode config file %s: %w", path, err)
		}
	default:
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("could not decode config file %s: %w", path, err)
		}
	}
	return nil
}

// applyEnv overrides cfg with any environment variables that are set.
func applyEnv(cfg *Config) error {
	cfg.APIKey = os.Getenv(envKeyAPIKey)
	cfg.Model = envOr(envKeyModel, cfg.Model)
	cfg.Server.Host = envOr(envKeyHost, cfg.Server.Host)

	if v := os.Getenv(envKeyPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid %s %q", envKeyPort, v)
		}
		cfg.Server.Port = port
	}

	for key, dst := range map[string]*time.Duration{
		envKeyReadTimeout:  &cfg.Server.ReadTimeout,
		envKeyWriteTimeout: &cfg.Server.WriteTimeout,
		envKeyIdleTimeout:  &cfg.Server.IdleTimeout,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("could not parse %s: %w", key, err)
		}
		*dst = d
	}
	return nil
}

func fillDefaults(cfg *Config) {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
