package config

import (
	"strings"
	"time"
)

// BackendConfig contains identity backend client configuration.
type BackendConfig struct {
	// BaseURL is the base URL of the identity backend
	// (e.g., "https://api.example.com").
	BaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8080"`

	// Timeout bounds each backend request.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 10 * time.Second
	}
}
