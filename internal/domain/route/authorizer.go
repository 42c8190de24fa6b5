package route

import (
	"github.com/skilldrones/regionview/internal/domain/auth"
)

// The filters below are pure: repeated calls with the same inputs yield
// identical, order-stable output. Each returns a fresh slice; the catalog
// itself is never mutated.

// Accessible returns every descriptor whose allowed-roles set intersects
// the expanded set of the given role, in catalog order.
func (c *Catalog) Accessible(role auth.Role) []Descriptor {
	expanded := c.hierarchy.Expand(role)
	out := make([]Descriptor, 0, len(c.entries))
	for _, d := range c.entries {
		if d.allows(expanded) {
			out = append(out, d)
		}
	}
	return out
}

// Navigation returns the accessible descriptors that belong in a
// navigation menu: titled, not flagged HideFromNav, and not in the
// configured exclusion set.
func (c *Catalog) Navigation(role auth.Role, excluded map[string]struct{}) []Descriptor {
	accessible := c.Accessible(role)
	out := make([]Descriptor, 0, len(accessible))
	for _, d := range accessible {
		if d.HideFromNav || d.Title == "" {
			continue
		}
		if _, skip := excluded[d.Path]; skip {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Public returns every descriptor reachable without a session,
// independent of role.
func (c *Catalog) Public() []Descriptor {
	out := make([]Descriptor, 0, len(c.entries))
	for _, d := range c.entries {
		if d.IsPublic {
			out = append(out, d)
		}
	}
	return out
}

// Protected returns the non-public descriptors whose allowed-roles set
// intersects the expanded set of the given role.
func (c *Catalog) Protected(role auth.Role) []Descriptor {
	expanded := c.hierarchy.Expand(role)
	out := make([]Descriptor, 0, len(c.entries))
	for _, d := range c.entries {
		if !d.IsPublic && d.allows(expanded) {
			out = append(out, d)
		}
	}
	return out
}
