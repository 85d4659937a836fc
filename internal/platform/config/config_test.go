package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SourceBackend != BackendREST {
		t.Errorf("SourceBackend = %q, want %q", cfg.SourceBackend, BackendREST)
	}

	if cfg.RefreshInterval != 30*time.Second {
		t.Errorf("RefreshInterval = %v, want 30s", cfg.RefreshInterval)
	}

	if cfg.HealthPort != 8080 {
		t.Errorf("HealthPort = %d, want 8080", cfg.HealthPort)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("SOURCE_BACKEND", "ftp")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestDatastoreConfigured(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"rest missing key", Config{SourceBackend: BackendREST, SupabaseURL: "https://x"}, false},
		{"rest complete", Config{SourceBackend: BackendREST, SupabaseURL: "https://x", SupabaseKey: "k"}, true},
		{"postgres missing dsn", Config{SourceBackend: BackendPostgres}, false},
		{"postgres complete", Config{SourceBackend: BackendPostgres, PostgresDSN: "postgres://"}, true},
		{"cli missing command", Config{SourceBackend: BackendCLI}, false},
		{"cli complete", Config{SourceBackend: BackendCLI, SourceCommand: "./fetch.sh"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.DatastoreConfigured(); got != tc.want {
				t.Errorf("DatastoreConfigured() = %v, want %v", got, tc.want)
			}
		})
	}
}
