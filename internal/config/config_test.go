package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(os.Stderr)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URI", "AUTH_SECRET", "AMQP_URL", "BASE_URL", "ENABLE_HTTPS",
		"DEBUG", "INVENTORY_BACKEND", "FIRESTORE_PROJECT", "MEDISTOCK_CONFIG_DIR",
	} {
		t.Setenv(k, "")
	}
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.AuthSecret != "dev-secret-key" {
		t.Fatalf("AuthSecret default expected 'dev-secret-key', got %q", cfg.AuthSecret)
	}
	if cfg.DatabaseDSN != "file:medistock.db" {
		t.Fatalf("DatabaseDSN default expected 'file:medistock.db', got %q", cfg.DatabaseDSN)
	}
	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("BaseURL default expected 'localhost:8081', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "http://localhost:8081" {
		t.Fatalf("ServerURL default expected 'http://localhost:8081', got %q", cfg.ServerURL)
	}
	if cfg.Backend != BackendRemote {
		t.Fatalf("Backend default expected %q, got %q", BackendRemote, cfg.Backend)
	}
	if filepath.Base(cfg.ConfigDir) != "MediStock" {
		t.Fatalf("ConfigDir default must end with MediStock, got %q", cfg.ConfigDir)
	}
}

func TestNewConfig_BaseURLAndHTTPS(t *testing.T) {
	clearEnv(t)
	t.Setenv("BASE_URL", "example.com:443")
	t.Setenv("ENABLE_HTTPS", "true")
	t.Setenv("AUTH_SECRET", "top")
	t.Setenv("INVENTORY_BACKEND", "Firestore")
	t.Setenv("MEDISTOCK_CONFIG_DIR", "/tmp/ms")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.ServerURL != "https://example.com:443" {
		t.Fatalf("ServerURL expected 'https://example.com:443', got %q", cfg.ServerURL)
	}
	if cfg.AuthSecret != "top" {
		t.Fatalf("AuthSecret expected from env 'top', got %q", cfg.AuthSecret)
	}
	if cfg.Backend != BackendFirestore {
		t.Fatalf("Backend expected %q, got %q", BackendFirestore, cfg.Backend)
	}
	if cfg.ConfigDir != "/tmp/ms" {
		t.Fatalf("ConfigDir expected from env, got %q", cfg.ConfigDir)
	}
}

func TestNewConfig_InvalidBaseURLFallback(t *testing.T) {
	clearEnv(t)
	// Невалидный BASE_URL (со схемой) должен откатиться на localhost:8081
	t.Setenv("BASE_URL", "http://bad:8080")
	t.Setenv("INVENTORY_BACKEND", "mongo")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("invalid BASE_URL must fallback to 'localhost:8081', got %q", cfg.BaseURL)
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://localhost:8081") {
		t.Fatalf("ServerURL must reflect fallback base, got %q", cfg.ServerURL)
	}
	if cfg.Backend != BackendRemote {
		t.Fatalf("unknown backend must fallback to remote, got %q", cfg.Backend)
	}
}
