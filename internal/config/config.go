// Package config loads the server configuration from defaults and an
// optional YAML or TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"checklist/internal/logutils"
	"checklist/internal/store"
)

// DefaultPort is used when neither the config file nor PORT set one.
const DefaultPort = 3000

// Config is the server configuration.
type Config struct {
	Port      int    `yaml:"port" toml:"port"`
	LogLevel  string `yaml:"log_level" toml:"log_level"`
	LogFormat string `yaml:"log_format" toml:"log_format"`

	// Store selects the backend: "memory" or "sqlite". Both keep data for
	// the lifetime of the process only.
	Store string `yaml:"store" toml:"store"`

	// Seed loads the sample checklists at start.
	Seed bool `yaml:"seed" toml:"seed"`

	// Strict rejects tasks and steps with missing or blank fields instead of
	// storing them empty.
	Strict bool `yaml:"strict" toml:"strict"`

	// StaticDir serves the frontend from disk instead of the embedded copy.
	StaticDir string `yaml:"static_dir" toml:"static_dir"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Port:      DefaultPort,
		LogLevel:  "info",
		LogFormat: logutils.FormatAuto,
		Store:     store.DriverMemory,
		Seed:      true,
	}
}

// Load reads the config file at path over the defaults. A missing file is not
// an error. Files ending in .toml are decoded as TOML, anything else as YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := decodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.DecodeFile(path, cfg)
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("port", c.Port, validPort),
		criterio.Run("log_level", c.LogLevel, validLevel),
		criterio.Run("log_format", c.LogFormat, validFormat),
		criterio.Run("store", c.Store, validStore),
		criterio.Run("static_dir", c.StaticDir, isDirectoryOrEmpty),
	)
}

func validPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("must be between 1 and 65535, got %d", port)
	}
	return nil
}

func validLevel(level string) error {
	if level == "" {
		return errors.New("is required")
	}
	if _, err := zerolog.ParseLevel(level); err != nil {
		return fmt.Errorf("unknown level %q", level)
	}
	return nil
}

func validFormat(format string) error {
	switch format {
	case "", logutils.FormatAuto, logutils.FormatJSON, logutils.FormatConsole:
		return nil
	}
	return fmt.Errorf("must be auto, json or console, got %q", format)
}

func validStore(driver string) error {
	switch driver {
	case store.DriverMemory, store.DriverSQLite:
		return nil
	}
	return fmt.Errorf("must be %s or %s, got %q", store.DriverMemory, store.DriverSQLite, driver)
}

func isDirectoryOrEmpty(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
