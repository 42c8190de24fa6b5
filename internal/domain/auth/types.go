// Package auth contains domain-level types for roles and user identity.
// It is pure and free of transport/adapter concerns.
package auth

import (
	"fmt"
	"net/mail"
	"strings"
)

// Role represents an application's authorization role.
// Keep string form for easy display and configuration.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Roles lists every valid role in a stable order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleUser}
}

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q (valid: admin, manager, user)", s)
	}
}

// Hierarchy maps each role to the set of roles it is permitted to act as.
// Sets are authored directly rather than derived: every role must list
// itself, and nothing beyond what is written here is implied.
type Hierarchy map[Role][]Role

// DefaultHierarchy returns the application role hierarchy.
func DefaultHierarchy() Hierarchy {
	return Hierarchy{
		RoleAdmin:   {RoleAdmin, RoleManager, RoleUser},
		RoleManager: {RoleManager, RoleUser},
		RoleUser:    {RoleUser},
	}
}

// Expand returns the set of roles the given role may act as. The result
// always contains the role itself, even for roles absent from the table,
// so that reflexivity holds regardless of authoring mistakes.
func (h Hierarchy) Expand(role Role) []Role {
	subsumed, ok := h[role]
	if !ok {
		return []Role{role}
	}
	for _, r := range subsumed {
		if r == role {
			return subsumed
		}
	}
	expanded := make([]Role, 0, len(subsumed)+1)
	expanded = append(expanded, role)
	expanded = append(expanded, subsumed...)
	return expanded
}

// Subsumes reports whether acting as `role` covers `target`.
func (h Hierarchy) Subsumes(role, target Role) bool {
	for _, r := range h.Expand(role) {
		if r == target {
			return true
		}
	}
	return false
}

// Contains reports whether the role is present in the hierarchy table.
func (h Hierarchy) Contains(role Role) bool {
	_, ok := h[role]
	return ok
}

// Validate checks the authored sets: every role must subsume itself and
// every referenced role must itself be a table entry.
func (h Hierarchy) Validate() error {
	for role, subsumed := range h {
		self := false
		for _, r := range subsumed {
			if r == role {
				self = true
			}
			if !h.Contains(r) {
				return fmt.Errorf("role %q subsumes unknown role %q", role, r)
			}
		}
		if !self {
			return fmt.Errorf("role %q does not subsume itself", role)
		}
	}
	return nil
}

// UserProfile is the authenticated user's profile as returned by the
// identity backend. It is immutable once fetched and replaced wholesale
// on re-fetch.
type UserProfile struct {
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Surname   string   `json:"surname"`
	Favorites []string `json:"favorites"`
	// Role is the backend-assigned authorization role. Older backend
	// versions omit it; see EffectiveRole.
	Role Role `json:"role,omitempty"`
}

// EffectiveRole returns the profile's role, defaulting to the least
// privileged role when the backend did not send one.
func (p UserProfile) EffectiveRole() Role {
	if p.Role == "" {
		return RoleUser
	}
	return p.Role
}

// DisplayName returns "Name Surname" for navigation headers.
func (p UserProfile) DisplayName() string {
	return strings.TrimSpace(p.Name + " " + p.Surname)
}

// Validate checks that the profile has the shape the backend contract
// promises: an email-shaped email and a non-nil favorites list.
func (p UserProfile) Validate() error {
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("profile email %q is not a valid address: %w", p.Email, err)
	}
	if p.Favorites == nil {
		return fmt.Errorf("profile favorites list is missing")
	}
	if p.Role != "" {
		if _, err := ParseRole(string(p.Role)); err != nil {
			return fmt.Errorf("profile role: %w", err)
		}
	}
	return nil
}
