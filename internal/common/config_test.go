package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8090 {
		t.Errorf("default port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Errorf("default API url = %s", cfg.API.BaseURL)
	}
	if cfg.Dashboard.GetNoticeTTL() != 3*time.Second {
		t.Errorf("default notice TTL = %v, want 3s", cfg.Dashboard.GetNoticeTTL())
	}
	if cfg.IsProduction() {
		t.Error("default config must not be production")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vista.toml")
	content := `
environment = "production"

[server]
host = "127.0.0.1"
port = 9001

[api]
base_url = "https://api.example.com/api"
rate_limit = 5
timeout = "10s"

[dashboard]
list_limit = 25
notice_ttl = "5s"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.API.GetTimeout() != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", cfg.API.GetTimeout())
	}
	if cfg.Dashboard.ListLimit != 25 {
		t.Errorf("list limit = %d, want 25", cfg.Dashboard.ListLimit)
	}
	if !cfg.IsProduction() {
		t.Error("environment = production not applied")
	}
	// Untouched sections keep defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level = %s, want default info", cfg.Logging.Level)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("port = %d, want default 8090", cfg.Server.Port)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("VISTA_PORT", "7777")
	t.Setenv("VISTA_API_URL", "https://env.example.com/api")
	t.Setenv("VISTA_ENV", "staging")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want env override 7777", cfg.Server.Port)
	}
	if cfg.API.BaseURL != "https://env.example.com/api" {
		t.Errorf("API url = %s, want env override", cfg.API.BaseURL)
	}
	if cfg.Environment != "staging" {
		t.Errorf("environment = %s, want staging", cfg.Environment)
	}
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vista.toml")
	if err := os.WriteFile(path, []byte("[server]\nport = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("negative port must fail validation")
	}
}

func TestGetTimeout_BadValueFallsBack(t *testing.T) {
	api := APIConfig{Timeout: "not-a-duration"}
	if api.GetTimeout() != 30*time.Second {
		t.Errorf("timeout fallback = %v, want 30s", api.GetTimeout())
	}
}
