package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if cfg.Port() != DefaultPort {
		t.Errorf("Port() = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel() = %s, want %s", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.AutosaveQuiet() != DefaultAutosaveQuiet {
		t.Errorf("AutosaveQuiet() = %v, want %v", cfg.AutosaveQuiet(), DefaultAutosaveQuiet)
	}
	if cfg.AllowedOrigin() != DefaultAllowedOrigin {
		t.Errorf("AllowedOrigin() = %s, want %s", cfg.AllowedOrigin(), DefaultAllowedOrigin)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvDataDir, "/tmp/cutroom-test")
	t.Setenv(EnvAutosaveQuiet, "10s")
	t.Setenv(EnvAllowedOrigin, "http://localhost:3000")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if cfg.Port() != 9000 {
		t.Errorf("Port() = %d, want 9000", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %s, want debug", cfg.LogLevel())
	}
	if cfg.DataDir() != "/tmp/cutroom-test" {
		t.Errorf("DataDir() = %s", cfg.DataDir())
	}
	if cfg.DBPath() != filepath.Join("/tmp/cutroom-test", DBFilename) {
		t.Errorf("DBPath() = %s", cfg.DBPath())
	}
	if cfg.AutosaveQuiet() != 10*time.Second {
		t.Errorf("AutosaveQuiet() = %v, want 10s", cfg.AutosaveQuiet())
	}
	if cfg.AllowedOrigin() != "http://localhost:3000" {
		t.Errorf("AllowedOrigin() = %s", cfg.AllowedOrigin())
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", EnvPort, "abc"},
		{"port out of range", EnvPort, "70000"},
		{"bad duration", EnvAutosaveQuiet, "fast"},
		{"negative duration", EnvAutosaveQuiet, "-3s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := New(); err == nil {
				t.Errorf("New() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}
