package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SHUTDOWN_TIMEOUT", "GIN_MODE", "BLOG_BASE_URL", "LOG_LEVEL", "LOG_PRETTY", "SQLITE_DB_PATH"} {
		// Setenv restores the original value once the test ends
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr() = %q, want %q", cfg.Addr(), ":8080")
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.SQLite.Path != "./goblog.db" {
		t.Errorf("SQLite.Path = %q, want ./goblog.db", cfg.SQLite.Path)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("SQLITE_DB_PATH", "/tmp/env.db")
	t.Setenv("BLOG_BASE_URL", "https://blog.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != "debug" || !cfg.LogPretty {
		t.Errorf("LogLevel/LogPretty = %q/%v, want debug/true", cfg.LogLevel, cfg.LogPretty)
	}
	if cfg.SQLite.Path != "/tmp/env.db" {
		t.Errorf("SQLite.Path = %q, want /tmp/env.db", cfg.SQLite.Path)
	}
	if cfg.BaseURL != "https://blog.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Non-numeric port", key: "PORT", value: "http"},
		{name: "Port out of range", key: "PORT", value: "70000"},
		{name: "Bad duration", key: "SHUTDOWN_TIMEOUT", value: "soon"},
		{name: "Unknown gin mode", key: "GIN_MODE", value: "production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}
