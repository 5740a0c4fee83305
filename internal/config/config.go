package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"expense-tracker-tui/internal/log"
	"expense-tracker-tui/internal/storage"
)

// Environment variables, applied over the config file.
const (
	EnvDataDir  = "EXPENSE_TRACKER_DATA_DIR"
	EnvBackend  = "EXPENSE_TRACKER_BACKEND"
	EnvLogLevel = "EXPENSE_TRACKER_LOG_LEVEL"
	EnvLogFile  = "EXPENSE_TRACKER_LOG_FILE"
)

type Config struct {
	// DataDir holds the storage files and, by default, the log file
	DataDir  string `yaml:"data_dir,omitempty"`
	Backend  string `yaml:"backend,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
	LogFile  string `yaml:"log_file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir, err := storage.DefaultDataDir()
	if err != nil {
		dataDir = ".expense-tracker"
	}
	return &Config{
		DataDir:  dataDir,
		Backend:  string(storage.BackendFile),
		LogLevel: "info",
	}
}

// DefaultPath returns ~/.expense-tracker/config.yaml.
func DefaultPath() string {
	dataDir, err := storage.DefaultDataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dataDir, "config.yaml")
}

// Load builds the configuration from defaults, the YAML file at path (a
// missing file is fine), a .env file in the working directory, and the
// environment, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	c.Override(fileCfg)
	return nil
}

func (c *Config) applyEnv() {
	c.Override(Config{
		DataDir:  os.Getenv(EnvDataDir),
		Backend:  os.Getenv(EnvBackend),
		LogLevel: os.Getenv(EnvLogLevel),
		LogFile:  os.Getenv(EnvLogFile),
	})
}

// Override copies every non-empty field of o into c.
func (c *Config) Override(o Config) {
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.Backend != "" {
		c.Backend = o.Backend
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
}

// LogPath is LogFile, or debug.log inside the data directory.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "debug.log")
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if !storage.Backend(c.Backend).IsValid() {
		errs = append(errs, fmt.Sprintf("invalid backend '%s': must be one of file, sqlite, memory", c.Backend))
	}

	if c.DataDir == "" && c.Backend != string(storage.BackendMemory) {
		errs = append(errs, "data directory cannot be empty")
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
