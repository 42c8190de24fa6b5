package config

import "strings"

// UIConfig contains navigation and local hint storage configuration.
type UIConfig struct {
	// NavExclude lists route paths to hide from the navigation menu
	// on top of the catalog's own HideFromNav flags.
	NavExclude []string `env:"NAV_EXCLUDE" envSeparator:"," envDefault:""`

	// HintsPath overrides where session hints are persisted.
	// Empty means the per-user config directory.
	HintsPath string `env:"HINTS_PATH" envDefault:""`
}

// Sanitize applies guardrails to UI configuration values.
func (u *UIConfig) Sanitize() {
	cleaned := make([]string, 0, len(u.NavExclude))
	for _, p := range u.NavExclude {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		cleaned = append(cleaned, p)
	}
	u.NavExclude = cleaned
	u.HintsPath = strings.TrimSpace(u.HintsPath)
}

// NavExcludeSet returns the excluded paths as a lookup set.
func (u *UIConfig) NavExcludeSet() map[string]struct{} {
	out := make(map[string]struct{}, len(u.NavExclude))
	for _, p := range u.NavExclude {
		out[p] = struct{}{}
	}
	return out
}
