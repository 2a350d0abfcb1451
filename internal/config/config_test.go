// ABOUTME: Tests for fitlog configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, backend selection, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/fitlog/internal/kvstore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FITLOG_BACKEND", "FITLOG_DATA_DIR", "FITLOG_LOG_LEVEL", "FITLOG_API_ADDR", "OPENAI_BASE_URL", "OPENAI_MODEL", "OPENAI_MAX_TOKENS", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "charm" {
		t.Errorf("GetBackend() = %q, want %q", got, "charm")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "badger"}
	if got := cfg.GetBackend(); got != "badger" {
		t.Errorf("GetBackend() = %q, want %q", got, "badger")
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetLogLevel(); got != "info" {
		t.Errorf("GetLogLevel() = %q, want info", got)
	}
	if got := cfg.GetAPIAddr(); got != "127.0.0.1:8420" {
		t.Errorf("GetAPIAddr() = %q", got)
	}
	if got := cfg.GetLogFile(); got != "" {
		t.Errorf("GetLogFile() = %q, want empty", got)
	}
}

func TestGetDataDirDefault(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)

	cfg := &Config{}
	if got := cfg.GetDataDir(); got != filepath.Join(tmpDir, "fitlog") {
		t.Errorf("GetDataDir() = %q", got)
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/fitlog-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "fitlog-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/fitlog", filepath.Join(home, "data/fitlog")},
		{"data/fitlog", "data/fitlog"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" {
		t.Errorf("Expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		Backend: "sqlite",
		DataDir: "/tmp/fitlog-data",
		AI:      AIConfig{Model: "gpt-4o-mini", MaxTokens: 500},
		API:     APIConfig{Addr: ":9000"},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Backend != "sqlite" || loaded.DataDir != "/tmp/fitlog-data" {
		t.Errorf("unexpected loaded config %+v", loaded)
	}
	if loaded.AI.Model != "gpt-4o-mini" || loaded.AI.MaxTokens != 500 || loaded.API.Addr != ":9000" {
		t.Errorf("nested sections not round-tripped: %+v", loaded)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{Backend: "badger"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "fitlog")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "fitlog")
	_ = os.MkdirAll(configDir, 0750)
	_ = os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600)

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := (&Config{Backend: "sqlite", LogLevel: "warn"}).Save(); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FITLOG_BACKEND", "badger")
	t.Setenv("FITLOG_LOG_LEVEL", "debug")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234")
	t.Setenv("OPENAI_MAX_TOKENS", "nope")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != "badger" || cfg.LogLevel != "debug" || cfg.AI.BaseURL != "http://localhost:1234" {
		t.Errorf("env did not override file: %+v", cfg)
	}
	if cfg.AI.MaxTokens != 0 {
		t.Errorf("invalid OPENAI_MAX_TOKENS should be ignored, got %d", cfg.AI.MaxTokens)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "fitlog")
	_ = os.MkdirAll(configDir, 0750)
	_ = os.WriteFile(filepath.Join(configDir, ".env"), []byte("OPENAI_API_KEY=sk-from-dotenv\nFITLOG_BACKEND=sqlite\n"), 0600)

	// godotenv only fills variables that are entirely unset.
	_ = os.Unsetenv("OPENAI_API_KEY")
	// Already-set variables win over .env.
	t.Setenv("FITLOG_BACKEND", "memory")

	LoadDotEnv()
	if got := EnvAPIKey(); got != "sk-from-dotenv" {
		t.Errorf("EnvAPIKey() = %q, want sk-from-dotenv", got)
	}
	if got := os.Getenv("FITLOG_BACKEND"); got != "memory" {
		t.Errorf("FITLOG_BACKEND = %q, want memory", got)
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "fitlog", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStoreSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: "sqlite", DataDir: tmpDir}

	store, err := cfg.OpenStore()
	if err != nil {
		t.Fatalf("OpenStore() for sqlite failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*kvstore.SQLiteStore); !ok {
		t.Errorf("expected *kvstore.SQLiteStore, got %T", store)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "fitlog.db")); os.IsNotExist(err) {
		t.Error("Expected fitlog.db to be created")
	}
}

func TestOpenStoreBadger(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: "badger", DataDir: tmpDir}

	store, err := cfg.OpenStore()
	if err != nil {
		t.Fatalf("OpenStore() for badger failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "kv")); os.IsNotExist(err) {
		t.Error("Expected kv directory to be created")
	}
}

func TestOpenBackendMemory(t *testing.T) {
	store, err := (&Config{}).OpenBackend("memory")
	if err != nil {
		t.Fatalf("OpenBackend(memory) failed: %v", err)
	}
	if _, ok := store.(*kvstore.MemoryStore); !ok {
		t.Errorf("expected *kvstore.MemoryStore, got %T", store)
	}
}

func TestOpenStoreInvalidBackend(t *testing.T) {
	cfg := &Config{Backend: "invalid", DataDir: "/tmp"}
	if _, err := cfg.OpenStore(); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestConfigJSONSerialization(t *testing.T) {
	cfg := &Config{
		Backend: "badger",
		DataDir: "~/fitlog-data",
		AI:      AIConfig{BaseURL: "http://x"},
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, *cfg)
	}
}
