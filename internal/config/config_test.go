package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/marsview/internal/listings"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != listings.DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, listings.DefaultBaseURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.RefreshEvery != 0 {
		t.Fatalf("RefreshEvery = %v, want 0", cfg.RefreshEvery)
	}
	if cfg.DefaultFilter != listings.FilterAll {
		t.Fatalf("DefaultFilter = %q, want all", cfg.DefaultFilter)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}

	wantLogPath, err := expandPath(defaultLogPath)
	if err != nil {
		t.Fatalf("expandPath(defaultLogPath) returned error: %v", err)
	}
	if cfg.LogPath != wantLogPath {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath, wantLogPath)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
base_url = "  http://10.0.0.5:9999/mars  "
timeout_seconds = 3
refresh_seconds = 60
default_filter = " Rent "
user_agent = "probe/1.0"
log_level = "DEBUG"
log_path = "  ~/logs/marsview.log  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://10.0.0.5:9999/mars" {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, "http://10.0.0.5:9999/mars")
	}
	if cfg.Timeout != 3*time.Second || cfg.RefreshEvery != time.Minute {
		t.Fatalf("Timeout/RefreshEvery = %v/%v, want 3s/1m", cfg.Timeout, cfg.RefreshEvery)
	}
	if cfg.DefaultFilter != listings.FilterRent {
		t.Fatalf("DefaultFilter = %q, want rent", cfg.DefaultFilter)
	}
	if cfg.UserAgent != "probe/1.0" || cfg.LogLevel != "debug" {
		t.Fatalf("UserAgent/LogLevel = %q/%q", cfg.UserAgent, cfg.LogLevel)
	}
	if cfg.LogPath != filepath.Join(home, "logs", "marsview.log") {
		t.Fatalf("LogPath = %q, want it under HOME %q", cfg.LogPath, home)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
base_url = "   "
timeout_seconds = 0
default_filter = ""
log_level = " "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != listings.DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, listings.DefaultBaseURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.DefaultFilter != listings.FilterAll || cfg.LogLevel != "info" {
		t.Fatalf("DefaultFilter/LogLevel = %q/%q, want all/info", cfg.DefaultFilter, cfg.LogLevel)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`base_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidFilterFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`default_filter = "lease"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "default_filter") {
		t.Fatalf("Load error = %v, want default_filter error", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
