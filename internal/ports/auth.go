package ports

// Package ports defines interfaces (hexagonal ports) for the session
// subsystem. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"
	"time"

	domainauth "github.com/skilldrones/regionview/internal/domain/auth"
)

// AuthGateway abstracts the identity backend. Every failure is returned as
// an internal/errors.AppError carrying one value of the closed taxonomy;
// callers never see raw transport details.
type AuthGateway interface {
	// Login authenticates with credentials. The session is carried by the
	// gateway's own cookie state, not returned to the caller.
	Login(ctx context.Context, email, password string) error

	// Logout terminates the backend session.
	Logout(ctx context.Context) error

	// Register creates a new account. It does not establish a session.
	Register(ctx context.Context, in RegisterInput) error

	// GetProfile fetches the authenticated user's profile, validated
	// against the backend contract before being returned.
	GetProfile(ctx context.Context) (domainauth.UserProfile, error)
}

// RegisterInput groups the fields of a registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Surname  string
}

// Hints is the locally persisted, non-authoritative record of prior
// successful authentication. It exists for UX only; the authoritative
// session state is always re-derived from GetProfile.
type Hints struct {
	HadSuccessfulAuth bool      `json:"had_successful_auth"`
	LastAuthTime      time.Time `json:"last_auth_time"`
}

// HintStore persists session hints across process restarts.
type HintStore interface {
	// Load returns the stored hints, or zero hints if none exist.
	Load() (Hints, error)

	// MarkAuthSuccess records a successful authentication at the given time.
	MarkAuthSuccess(at time.Time) error

	// Clear removes all stored hints. Clearing an empty store is not an error.
	Clear() error
}
