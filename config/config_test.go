package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseBackendEnv(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com/")
	t.Setenv("BACKEND_TIMEOUT", "30s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Backend.BaseURL != "https://api.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Backend.Timeout)
	}
}

func TestBackendConfig_Sanitize(t *testing.T) {
	cfg := BackendConfig{BaseURL: "  http://localhost:8080/  ", Timeout: -1}

	cfg.Sanitize()

	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("expected base url trimmed, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout default, got %v", cfg.Timeout)
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{Bypass: true}

	cfg.Sanitize()

	if cfg.BypassRole != "admin" {
		t.Errorf("expected bypass role default, got %q", cfg.BypassRole)
	}
	if cfg.BypassEmail != "dev@example.com" {
		t.Errorf("expected bypass email default, got %q", cfg.BypassEmail)
	}
}

func TestUIConfig_ParseNavExclude(t *testing.T) {
	t.Setenv("NAV_EXCLUDE", "/archive, analytics ,,")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	expected := []string{"/archive", "/analytics"}
	if !reflect.DeepEqual(cfg.UI.NavExclude, expected) {
		t.Fatalf("unexpected nav exclude:\nexpected: %#v\ngot:      %#v", expected, cfg.UI.NavExclude)
	}

	set := cfg.UI.NavExcludeSet()
	if _, ok := set["/archive"]; !ok {
		t.Errorf("expected /archive in exclude set")
	}
	if len(set) != 2 {
		t.Errorf("expected 2 excluded paths, got %d", len(set))
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	tests := []struct {
		name     string
		dev      bool
		nodeEnv  string
		expected bool
	}{
		{"explicit dev flag", true, "", true},
		{"node env development", false, "development", true},
		{"node env dev", false, "dev", true},
		{"node env production", false, "production", false},
		{"no signals", false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NODE_ENV", tt.nodeEnv)

			cfg := AppConfig{IsDev: tt.dev}
			cfg.Sanitize()

			if cfg.IsDev != tt.expected {
				t.Errorf("expected IsDev=%v, got %v", tt.expected, cfg.IsDev)
			}
		})
	}
}
