package config

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Bypass skips the backend session check and acts as a local user.
	// Intended for development and demos only; the backend still rejects
	// protected calls without a real session.
	Bypass bool `env:"AUTH_BYPASS" envDefault:"false"`

	// BypassRole is the role assumed when Bypass is enabled.
	BypassRole string `env:"AUTH_BYPASS_ROLE" envDefault:"admin"`

	// BypassEmail is the profile email assumed when Bypass is enabled.
	BypassEmail string `env:"AUTH_BYPASS_EMAIL" envDefault:"dev@example.com"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.BypassRole == "" {
		a.BypassRole = "admin"
	}
	if a.BypassEmail == "" {
		a.BypassEmail = "dev@example.com"
	}
}
