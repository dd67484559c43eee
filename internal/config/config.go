// Package config loads shell settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the shell's settings.
type Config struct {
	// Prompt is printed before each line when input is a terminal.
	Prompt string `yaml:"prompt"`
	// AlwaysPrompt prints the prompt even when input is not a terminal.
	AlwaysPrompt bool `yaml:"always_prompt"`
	// MaxJobs is the job table capacity.
	MaxJobs int `yaml:"max_jobs"`
	// PathLookup resolves commands without a slash through $PATH.
	PathLookup bool `yaml:"path_lookup"`
	// LogFile receives diagnostics instead of standard error.
	LogFile string `yaml:"log_file"`
	Debug   bool   `yaml:"debug"`
}

const (
	DefaultPrompt  = "jsh> "
	DefaultMaxJobs = 64
)

var ErrInvalidConfig = errors.New("invalid config")

func Default() Config {
	return Config{
		Prompt:  DefaultPrompt,
		MaxJobs: DefaultMaxJobs,
	}
}

// DefaultPath is $JSH_CONFIG, or ~/.jshrc.yaml.
func DefaultPath() string {
	if path, ok := os.LookupEnv("JSH_CONFIG"); ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jshrc.yaml")
}

// Load reads path on top of the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.Prompt = getEnv("JSH_PROMPT", c.Prompt)
	c.LogFile = getEnv("JSH_LOG_FILE", c.LogFile)

	var err error
	if c.MaxJobs, err = getEnvInt("JSH_MAX_JOBS", c.MaxJobs); err != nil {
		return err
	}
	if c.PathLookup, err = getEnvBool("JSH_PATH_LOOKUP", c.PathLookup); err != nil {
		return err
	}
	if c.Debug, err = getEnvBool("JSH_DEBUG", c.Debug); err != nil {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	if c.MaxJobs <= 0 {
		return fmt.Errorf("%w: max_jobs must be positive, got %d", ErrInvalidConfig, c.MaxJobs)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, value)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, value)
	}
	return b, nil
}
