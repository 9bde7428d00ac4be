// ABOUTME: Woodshed configuration management with backend selection.
// ABOUTME: Handles settings persistence and the storage backend factory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/woodshed/internal/storage"
)

// Config stores woodshed tool configuration.
type Config struct {
	// Backend selects the storage backend: "csv" (default) or "sqlite".
	// CSV keeps songs.csv and sessions.csv in DataDir; SQLite keeps a
	// single woodshed.db there.
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage. Supports ~
	// expansion for the home directory. Defaults to the XDG data dir.
	DataDir string `json:"data_dir,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "csv".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "csv"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the config file path following XDG spec.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "woodshed", "config.json")
}

// Load reads the config file, returning defaults when it does not exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config file, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o640); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// OpenStorage creates a Repository implementation based on the configured
// backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return OpenBackend(c.GetBackend(), c.GetDataDir())
}

// OpenBackend creates a Repository for an explicit backend name and
// data directory.
func OpenBackend(backend, dataDir string) (storage.Repository, error) {
	switch backend {
	case "csv":
		return storage.NewCSVStore(dataDir)
	case "sqlite":
		return storage.Open(filepath.Join(dataDir, "woodshed.db"))
	default:
		return nil, fmt.Errorf("unknown backend %q (want csv or sqlite)", backend)
	}
}
