package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tripwire/ircd/internal/config"
)

// writeTemp writes content to a temp file and returns its path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	f.Close()
	return f.Name()
}

const validYAML = `
listen_addr: ":9999"
admin_addr: "127.0.0.1:9191"
idle_ttl_seconds: 300
cleanup_tick_seconds: 30
log_path: "/tmp/custom.log"
log_level: debug
`

func TestLoadConfig_Valid(t *testing.T) {
	path := writeTemp(t, validYAML)
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":9999")
	}
	if cfg.AdminAddr != "127.0.0.1:9191" {
		t.Errorf("AdminAddr = %q", cfg.AdminAddr)
	}
	if cfg.IdleTTLSeconds != 300 {
		t.Errorf("IdleTTLSeconds = %d, want 300", cfg.IdleTTLSeconds)
	}
	if cfg.CleanupTickSeconds != 30 {
		t.Errorf("CleanupTickSeconds = %d, want 30", cfg.CleanupTickSeconds)
	}
	if cfg.LogPath != "/tmp/custom.log" {
		t.Errorf("LogPath = %q", cfg.LogPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("default ListenAddr = %q, want %q", cfg.ListenAddr, ":8080")
	}
	if cfg.AdminAddr != "127.0.0.1:9090" {
		t.Errorf("default AdminAddr = %q, want %q", cfg.AdminAddr, "127.0.0.1:9090")
	}
	if cfg.IdleTTLSeconds != 600 {
		t.Errorf("default IdleTTLSeconds = %d, want 600", cfg.IdleTTLSeconds)
	}
	if cfg.CleanupTickSeconds != 60 {
		t.Errorf("default CleanupTickSeconds = %d, want 60", cfg.CleanupTickSeconds)
	}
	if cfg.LogPath != "irc_server.log" {
		t.Errorf("default LogPath = %q, want %q", cfg.LogPath, "irc_server.log")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	path := writeTemp(t, "log_level: \"verbose\"\n")
	_, err := config.LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid log_level, got nil")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error %q does not mention log_level", err.Error())
	}
}

func TestLoadConfig_NegativeTTL(t *testing.T) {
	path := writeTemp(t, "idle_ttl_seconds: -1\n")
	_, err := config.LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for negative idle_ttl_seconds, got nil")
	}
	if !strings.Contains(err.Error(), "idle_ttl_seconds") {
		t.Errorf("error %q does not mention idle_ttl_seconds", err.Error())
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	missingPath := filepath.Join(t.TempDir(), "nonexistent.yaml")
	_, err := config.LoadConfig(missingPath)
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeTemp(t, ":::invalid yaml:::")
	_, err := config.LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.ListenAddr != ":8080" || cfg.AdminAddr != "127.0.0.1:9090" {
		t.Errorf("Default() = %+v", cfg)
	}
}

func TestIdleTTLAndCleanupTick(t *testing.T) {
	cfg := config.Default()
	if got := cfg.IdleTTL().Seconds(); got != 600 {
		t.Errorf("IdleTTL() = %v, want 600s", got)
	}
	if got := cfg.CleanupTick().Seconds(); got != 60 {
		t.Errorf("CleanupTick() = %v, want 60s", got)
	}
}
