package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/iksnae/studio-session/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "studio-session", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Store.Backend != config.BackendSQLite {
		t.Fatalf("unexpected backend: %q", cfg.Store.Backend)
	}
	wantPath := filepath.Join(tempHome, ".local", "share", "studio-session", "session.db")
	if cfg.Store.Path != wantPath {
		t.Fatalf("unexpected store path: got %q want %q", cfg.Store.Path, wantPath)
	}
	if cfg.Webhooks.TimeoutSeconds != 10 {
		t.Fatalf("unexpected webhook timeout: %d", cfg.Webhooks.TimeoutSeconds)
	}
	if !cfg.Session.AutoSync {
		t.Fatal("expected auto sync enabled by default")
	}
}

func TestLoadParsesFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "custom.toml")
	content := `
[store]
backend = " Redis "
redis_url = "redis://localhost:6379/0"

[webhooks]
default_url = "https://hooks.example.com/all"
timeout_seconds = 3

[webhooks.urls]
session_started = " https://hooks.example.com/start "
session_restored = ""

[session]
auto_sync = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Store.Backend != config.BackendRedis {
		t.Fatalf("expected backend normalized to redis, got %q", cfg.Store.Backend)
	}
	if cfg.Store.RedisPrefix != "studio-session" {
		t.Fatalf("expected default redis prefix, got %q", cfg.Store.RedisPrefix)
	}
	if cfg.Webhooks.TimeoutSeconds != 3 {
		t.Fatalf("unexpected timeout: %d", cfg.Webhooks.TimeoutSeconds)
	}
	if got := cfg.Webhooks.URLs["session_started"]; got != "https://hooks.example.com/start" {
		t.Fatalf("expected trimmed url, got %q", got)
	}
	if _, ok := cfg.Webhooks.URLs["session_restored"]; ok {
		t.Fatal("expected blank url to be dropped")
	}
	if cfg.Session.AutoSync {
		t.Fatal("expected auto sync disabled")
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown backend", content: "[store]\nbackend = \"etcd\"\n", wantErr: "store.backend"},
		{name: "redis without url", content: "[store]\nbackend = \"redis\"\n", wantErr: "store.redis_url"},
		{name: "bad webhook scheme", content: "[webhooks]\ndefault_url = \"ftp://example.com\"\n", wantErr: "webhooks.default_url"},
		{name: "negative timeout", content: "[webhooks]\ntimeout_seconds = -1\n", wantErr: "timeout_seconds"},
		{name: "unknown field", content: "[store]\nbogus = 1\n", wantErr: "parse config"},
		{name: "malformed toml", content: "[store\n", wantErr: "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}

			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := config.WriteSample(path, false); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	if err := config.WriteSample(path, false); err == nil {
		t.Fatal("expected error when config already exists")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if decoded.Store.Backend != config.BackendSQLite {
		t.Fatalf("unexpected sample backend: %q", decoded.Store.Backend)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample should load cleanly: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/data/session.db")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "data", "session.db") {
		t.Fatalf("unexpected expansion: %q", got)
	}

	empty, err := config.ExpandPath("  ")
	if err != nil || empty != "" {
		t.Fatalf("expected empty path to stay empty, got %q, %v", empty, err)
	}
}
