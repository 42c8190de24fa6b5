package devauth

// Package devauth provides a config-driven AuthGateway for local development.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/skilldrones/regionview/internal/domain/auth"
	errs "github.com/skilldrones/regionview/internal/errors"
	"github.com/skilldrones/regionview/internal/ports"
)

// Config controls the dev gateway behavior. Email is required; Role
// defaults to user when empty.
type Config struct {
	Email string
	Role  domainauth.Role
}

// Gateway implements ports.AuthGateway without a backend. It starts
// "signed in": CheckSession succeeds immediately with the configured
// identity, Logout forgets it until the next Login. Registration is
// accepted and discarded.
type Gateway struct {
	mu       sync.Mutex
	profile  domainauth.UserProfile
	signedIn bool
}

var _ ports.AuthGateway = (*Gateway)(nil)

// NewGateway constructs a dev gateway from Config.
func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	role := cfg.Role
	if role == "" {
		role = domainauth.RoleUser
	}
	if _, err := domainauth.ParseRole(string(role)); err != nil {
		return nil, err
	}
	return &Gateway{
		profile: domainauth.UserProfile{
			Email:     cfg.Email,
			Name:      "Local",
			Surname:   "User",
			Favorites: []string{},
			Role:      role,
		},
		signedIn: true,
	}, nil
}

// Login accepts any credentials and adopts the given email.
func (g *Gateway) Login(_ context.Context, email, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if email != "" {
		g.profile.Email = email
	}
	g.signedIn = true
	return nil
}

// Logout forgets the local session.
func (g *Gateway) Logout(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.signedIn = false
	return nil
}

// Register accepts and discards the registration.
func (g *Gateway) Register(_ context.Context, _ ports.RegisterInput) error {
	return nil
}

// GetProfile returns the configured identity while signed in.
func (g *Gateway) GetProfile(_ context.Context) (domainauth.UserProfile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.signedIn {
		return domainauth.UserProfile{}, errs.Unauthorized("no local session")
	}
	profile := g.profile
	profile.Favorites = append([]string(nil), profile.Favorites...)
	return profile, nil
}
