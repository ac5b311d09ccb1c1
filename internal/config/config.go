// Package config loads and persists the chatbot client configuration.
// Configuration lives in <state dir>/config.yaml; a missing file means
// defaults. A small set of environment variables override the file so the
// client can be pointed at another backend without editing anything.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all chatbot client configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the backend connection.
type ServerConfig struct {
	// BaseURL is the backend address all endpoints are relative to.
	BaseURL string `yaml:"base_url"`
	// Timeout is the per-request timeout, e.g. "30s". Zero means no timeout;
	// the backend contract has no streaming, so a bound is safe.
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	Theme string `yaml:"theme"` // "light", "dark", or "" for auto-detect
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
	JSONFormat bool            `yaml:"json_format"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
			Timeout: "30s",
		},
		UI: UIConfig{},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// StateDir returns the directory holding config, credentials, cookies and
// logs. CHATBOT_HOME overrides the default ~/.chatbot.
func StateDir() (string, error) {
	if dir := os.Getenv("CHATBOT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".chatbot"), nil
}

// ConfigFile returns the full path to the config file.
func ConfigFile() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from disk and applies environment overrides.
// A missing file yields defaults, not an error.
func Load() (Config, error) {
	cfg := Default()

	path, err := ConfigFile()
	if err != nil {
		return applyEnv(cfg), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return applyEnv(cfg), err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return applyEnv(Default()), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return applyEnv(cfg), nil
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := StateDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, "config.yaml")
	return os.WriteFile(path, data, 0644)
}

// applyEnv layers environment variable overrides on top of cfg.
func applyEnv(cfg Config) Config {
	if v := os.Getenv("CHATBOT_API_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("CHATBOT_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return cfg
}

// RequestTimeout parses the configured timeout, falling back to 30s on a
// malformed or missing value.
func (s ServerConfig) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d < 0 {
		return 30 * time.Second
	}
	return d
}
