package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Remote.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Remote.BaseURL, DefaultBaseURL)
	}
	if cfg.Remote.ListTimeoutSec != 10 || cfg.Remote.RequestTimeoutSec != 5 {
		t.Errorf("timeouts = %d/%d, want 10/5", cfg.Remote.ListTimeoutSec, cfg.Remote.RequestTimeoutSec)
	}
	if cfg.Server.Prefix != "/todos" || cfg.Server.DBPath != ":memory:" {
		t.Errorf("unexpected server defaults %+v", cfg.Server)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
remote:
  base_url: http://localhost:9999/todos/
  request_timeout_sec: 2
server:
  addr: ":9999"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Remote.BaseURL != "http://localhost:9999/todos" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.Remote.BaseURL)
	}
	if cfg.Remote.RequestTimeoutSec != 2 {
		t.Errorf("RequestTimeoutSec = %d, want 2", cfg.Remote.RequestTimeoutSec)
	}
	if cfg.Remote.ListTimeoutSec != DefaultListTimeoutSec {
		t.Errorf("ListTimeoutSec = %d, want default", cfg.Remote.ListTimeoutSec)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TODO_REMOTE_BASE_URL", "http://env.example/todos")
	t.Setenv("TODO_REMOTE_LIST_TIMEOUT_SEC", "0")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Remote.BaseURL != "http://env.example/todos" {
		t.Errorf("BaseURL = %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.ListTimeoutSec != DefaultListTimeoutSec {
		t.Errorf("non-positive timeout should fall back to default, got %d", cfg.Remote.ListTimeoutSec)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("remote: [unclosed"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.Remote.BaseURL = "http://saved.example/todos"
	cfg.Remote.RequestTimeoutSec = 3

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Remote.BaseURL != cfg.Remote.BaseURL || loaded.Remote.RequestTimeoutSec != 3 {
		t.Errorf("round trip lost values: %+v", loaded.Remote)
	}
}
