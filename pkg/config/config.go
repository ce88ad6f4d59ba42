package config

import (
	"os"
	"path/filepath"

	"cliptools/pkg/errors"

	"gopkg.in/yaml.v3"
)

// Config holds per-user defaults. Command-line flags override every field.
type Config struct {
	// Binary is the default paste --binary policy: auto, always, or never.
	Binary string `yaml:"binary,omitempty"`
	// Color controls stderr error colorization: auto, always, or never.
	Color string `yaml:"color,omitempty"`
	// Newline appends a trailing newline to paste output when true.
	Newline bool `yaml:"newline,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Binary: "auto",
		Color:  "auto",
	}
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "cliptools", "config.yaml"), nil
}

// Load reads the user configuration. A missing file yields the defaults;
// a malformed one is a usage-class error.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return Default(), nil
	}
	return loadFromPath(configPath)
}

func loadFromPath(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.NewWithError(errors.KindInternal, "failed to read config file", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewWithError(errors.KindArgument, "invalid config file "+configPath, err)
	}
	if cfg.Binary == "" {
		cfg.Binary = "auto"
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}
	return cfg, nil
}

// Save writes the configuration to the config file, creating the
// directory if needed.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return errors.NewWithError(errors.KindInternal, "failed to get config path", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.NewWithError(errors.KindInternal, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewWithError(errors.KindInternal, "failed to marshal config", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.NewWithError(errors.KindInternal, "failed to write config file", err)
	}

	return nil
}
