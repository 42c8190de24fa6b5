// Package route contains the static route catalog and the pure
// authorization filters over it. A route absent from the catalog is
// unreachable by construction; no route ever accepts an unlisted role.
package route

import (
	"context"
	"fmt"
	"io"

	"github.com/skilldrones/regionview/internal/domain/auth"
)

// View is the capability interface a catalog entry renders through.
// The authorization layer treats views as opaque: it resolves them by ID
// at catalog construction time and never inspects them afterwards.
type View interface {
	// Render writes the view for the given data. Public views must render
	// with Data.User == nil.
	Render(ctx context.Context, w io.Writer, data Data) error

	// RequiresSession reports whether the view needs an authenticated user
	// to render. Views referenced by public routes must return false.
	RequiresSession() bool
}

// Data is the read-only snapshot a view renders from.
type Data struct {
	// User is the authenticated profile, nil when unauthenticated.
	User *auth.UserProfile
	// Role the user is acting as; empty when unauthenticated.
	Role auth.Role
}

// Registry maps route identifiers to concrete view implementations.
// Resolution happens once, at catalog construction.
type Registry struct {
	views map[string]View
}

// NewRegistry creates an empty view registry.
func NewRegistry() *Registry {
	return &Registry{views: make(map[string]View)}
}

// Register binds a view implementation to a route identifier.
// Registering the same ID twice is a programming error.
func (r *Registry) Register(id string, v View) error {
	if id == "" {
		return fmt.Errorf("view id is required")
	}
	if v == nil {
		return fmt.Errorf("view %q is nil", id)
	}
	if _, exists := r.views[id]; exists {
		return fmt.Errorf("view %q registered twice", id)
	}
	r.views[id] = v
	return nil
}

// Resolve looks up a view by identifier.
func (r *Registry) Resolve(id string) (View, bool) {
	v, ok := r.views[id]
	return v, ok
}

// Descriptor describes one navigable view and its access policy.
type Descriptor struct {
	// Path is the route's path pattern, unique within the catalog.
	Path string
	// ViewID names the registered view this route renders.
	ViewID string
	// AllowedRoles is the set of roles allowed to access the route.
	AllowedRoles []auth.Role
	// Title is the human-readable name used in navigation menus.
	Title string
	// IsPublic marks the route reachable without a session.
	IsPublic bool
	// HideFromNav excludes the route from navigation menus.
	HideFromNav bool

	view View
}

// View returns the resolved view for this descriptor.
func (d Descriptor) View() View {
	return d.view
}

// allows reports whether any of the given roles is in the allowed set.
func (d Descriptor) allows(roles []auth.Role) bool {
	for _, allowed := range d.AllowedRoles {
		for _, r := range roles {
			if allowed == r {
				return true
			}
		}
	}
	return false
}
