// Package config loads ledger settings from defaults, an optional YAML file
// and the environment, in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ledger/internal/log"
)

type Config struct {
	// Storage
	LedgerFile   string `yaml:"ledger_file"`
	Backend      string `yaml:"backend"`
	SQLiteDBPath string `yaml:"sqlite_path"`
	StrictLoad   bool   `yaml:"strict_load"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

var validBackends = []string{"csv", "sqlite", "memory"}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		LedgerFile:   "expenses.csv",
		Backend:      "csv",
		SQLiteDBPath: "./data/ledger.db",
		StrictLoad:   false,
		LogLevel:     "warn",
	}
}

// LoadEnvFile loads a .env file for local use. A missing default .env is
// ignored; an explicitly named one must exist.
func LoadEnvFile(path string) error {
	if path == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration. yamlPath may be empty.
func Load(yamlPath string) (*Config, error) {
	cfg := Defaults()
	if yamlPath != "" {
		if err := cfg.mergeYAML(yamlPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	c.LedgerFile = getEnv("LEDGER_FILE", c.LedgerFile)
	c.Backend = getEnv("LEDGER_BACKEND", c.Backend)
	c.SQLiteDBPath = getEnv("LEDGER_SQLITE_PATH", c.SQLiteDBPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	strict, err := getEnvBool("LEDGER_STRICT_LOAD", c.StrictLoad)
	if err != nil {
		return err
	}
	c.StrictLoad = strict
	return nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	isValidBackend := false
	for _, b := range validBackends {
		if c.Backend == b {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		problems = append(problems, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if c.Backend == "csv" && strings.TrimSpace(c.LedgerFile) == "" {
		problems = append(problems, "ledger file cannot be empty when using csv backend")
	}

	if c.Backend == "sqlite" {
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}
	return b, nil
}
