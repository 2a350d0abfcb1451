// ABOUTME: Fitlog configuration management with backend selection.
// ABOUTME: Loads the JSON config file, .env files, env overrides, and opens the store.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harperreed/fitlog/internal/kvstore"
	"github.com/joho/godotenv"
)

// CharmDBName is the Charm KV database fitlog stores its collections in.
const CharmDBName = "fitlog"

// Backends lists the storage backends OpenBackend understands.
var Backends = []string{"charm", "badger", "sqlite", "memory"}

// AIConfig configures the meal analysis endpoint.
type AIConfig struct {
	BaseURL   string `json:"base_url,omitempty"`
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Addr string `json:"addr,omitempty"`
}

// Config stores fitlog configuration.
type Config struct {
	// Backend selects the storage backend: "charm" (default), "badger", "sqlite" or "memory".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local backends. Badger keeps kv/ here
	// and SQLite keeps fitlog.db. Supports ~ expansion.
	DataDir string `json:"data_dir,omitempty"`

	// CharmHost overrides the Charm server.
	CharmHost string `json:"charm_host,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty"`

	AI  AIConfig  `json:"ai"`
	API APIConfig `json:"api"`
}

// GetBackend returns the configured backend, defaulting to "charm".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "charm"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DefaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetLogFile returns the log file path with ~ expanded, or "" for stderr.
func (c *Config) GetLogFile() string {
	return ExpandPath(c.LogFile)
}

// GetAPIAddr returns the HTTP listen address, defaulting to 127.0.0.1:8420.
func (c *Config) GetAPIAddr() string {
	if c.API.Addr == "" {
		return "127.0.0.1:8420"
	}
	return c.API.Addr
}

// DefaultDataDir returns the data directory following the XDG spec.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "fitlog")
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

// OpenStore opens the configured backend.
func (c *Config) OpenStore() (kvstore.Store, error) {
	return c.OpenBackend(c.GetBackend())
}

// OpenBackend opens the named backend using this config's paths.
func (c *Config) OpenBackend(backend string) (kvstore.Store, error) {
	dataDir := c.GetDataDir()

	switch backend {
	case "charm":
		return kvstore.OpenCharm(CharmDBName, c.CharmHost)
	case "badger":
		return kvstore.OpenBadger(filepath.Join(dataDir, "kv"))
	case "sqlite":
		return kvstore.OpenSQLite(filepath.Join(dataDir, "fitlog.db"))
	case "memory":
		return kvstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q (want one of %s)", backend, strings.Join(Backends, ", "))
	}
}

// GetConfigDir returns the fitlog config directory.
func GetConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitlog")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.json")
}

// LoadDotEnv loads .env from the working directory and the config directory.
// Variables already set in the environment win.
func LoadDotEnv() {
	for _, path := range []string{".env", filepath.Join(GetConfigDir(), ".env")} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(GetConfigPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", GetConfigPath(), err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from FITLOG_* and OPENAI_* variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("FITLOG_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("FITLOG_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("FITLOG_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FITLOG_API_ADDR"); v != "" {
		c.API.Addr = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.AI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("OPENAI_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.AI.MaxTokens = n
		}
	}
}

// EnvAPIKey returns OPENAI_API_KEY, used when no key is stored in settings.
func EnvAPIKey() string {
	return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
