package route

import (
	"fmt"

	"github.com/skilldrones/regionview/internal/domain/auth"
)

// Route identifiers. Each names one view in the registry and one catalog
// entry; the CLI addresses routes by path, the registry by ID.
const (
	ViewLogin        = "login"
	ViewUnauthorized = "unauthorized"
	ViewMain         = "main"
	ViewAccount      = "account"
	ViewAnalytics    = "analytics"
	ViewArchive      = "archive"
	ViewAdmin        = "admin"
)

// Catalog is the ordered, immutable list of route descriptors. Insertion
// order is significant: it defines navigation and routing precedence.
type Catalog struct {
	hierarchy auth.Hierarchy
	entries   []Descriptor
}

// NewCatalog validates descriptors against the role hierarchy and resolves
// each entry's view through the registry. It fails on unknown roles,
// duplicate paths, missing views, and public routes whose views require a
// session.
func NewCatalog(hierarchy auth.Hierarchy, registry *Registry, descriptors []Descriptor) (*Catalog, error) {
	if err := hierarchy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid role hierarchy: %w", err)
	}

	seen := make(map[string]struct{}, len(descriptors))
	entries := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Path == "" {
			return nil, fmt.Errorf("route with view %q has no path", d.ViewID)
		}
		if _, dup := seen[d.Path]; dup {
			return nil, fmt.Errorf("duplicate route path %q", d.Path)
		}
		seen[d.Path] = struct{}{}

		if len(d.AllowedRoles) == 0 {
			return nil, fmt.Errorf("route %q allows no roles", d.Path)
		}
		for _, r := range d.AllowedRoles {
			if !hierarchy.Contains(r) {
				return nil, fmt.Errorf("route %q references unknown role %q", d.Path, r)
			}
		}

		v, ok := registry.Resolve(d.ViewID)
		if !ok {
			return nil, fmt.Errorf("route %q references unregistered view %q", d.Path, d.ViewID)
		}
		if d.IsPublic && v.RequiresSession() {
			return nil, fmt.Errorf("public route %q uses session-dependent view %q", d.Path, d.ViewID)
		}
		d.view = v
		entries = append(entries, d)
	}

	return &Catalog{hierarchy: hierarchy, entries: entries}, nil
}

// DefaultDescriptors returns the application route table. Public entries
// come first, then the protected pages in navigation order.
func DefaultDescriptors() []Descriptor {
	everyone := []auth.Role{auth.RoleUser, auth.RoleManager, auth.RoleAdmin}
	return []Descriptor{
		{
			Path:         "/login",
			ViewID:       ViewLogin,
			AllowedRoles: everyone,
			Title:        "Sign in",
			IsPublic:     true,
			HideFromNav:  true,
		},
		{
			Path:         "/unauthorized",
			ViewID:       ViewUnauthorized,
			AllowedRoles: everyone,
			Title:        "Access denied",
			IsPublic:     true,
			HideFromNav:  true,
		},
		{
			Path:         "/",
			ViewID:       ViewMain,
			AllowedRoles: everyone,
			Title:        "Home",
		},
		{
			Path:         "/account",
			ViewID:       ViewAccount,
			AllowedRoles: everyone,
			Title:        "Account",
		},
		{
			Path:         "/analytics",
			ViewID:       ViewAnalytics,
			AllowedRoles: everyone,
			Title:        "Analytics",
		},
		{
			Path:         "/archive",
			ViewID:       ViewArchive,
			AllowedRoles: []auth.Role{auth.RoleManager, auth.RoleAdmin},
			Title:        "Archive",
		},
		{
			Path:         "/admin",
			ViewID:       ViewAdmin,
			AllowedRoles: []auth.Role{auth.RoleAdmin},
			Title:        "Admin",
		},
	}
}

// Hierarchy returns the role hierarchy the catalog was validated against.
func (c *Catalog) Hierarchy() auth.Hierarchy {
	return c.hierarchy
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// All returns every descriptor in catalog order.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, len(c.entries))
	copy(out, c.entries)
	return out
}

// ByPath finds a descriptor by its exact path.
func (c *Catalog) ByPath(path string) (Descriptor, bool) {
	for _, d := range c.entries {
		if d.Path == path {
			return d, true
		}
	}
	return Descriptor{}, false
}
