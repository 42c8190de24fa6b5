package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/skilldrones/regionview/internal/domain/auth"
	errs "github.com/skilldrones/regionview/internal/errors"
	"github.com/skilldrones/regionview/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthGateway = (*MockAuthGateway)(nil)
	_ ports.HintStore   = (*MemoryHintStore)(nil)
)

// MockAuthGateway simulates the identity backend for tests. Behavior is
// overridden per call via the func fields; the zero value answers every
// operation with success and a default profile.
type MockAuthGateway struct {
	LoginFunc      func(ctx context.Context, email, password string) error
	LogoutFunc     func(ctx context.Context) error
	RegisterFunc   func(ctx context.Context, in ports.RegisterInput) error
	GetProfileFunc func(ctx context.Context) (domainauth.UserProfile, error)

	// DefaultProfile is returned by GetProfile when GetProfileFunc is nil.
	DefaultProfile domainauth.UserProfile

	// Authenticated mimics backend session state: when false, GetProfile
	// fails with Unauthorized unless GetProfileFunc overrides it.
	Authenticated bool

	mu    sync.Mutex
	calls []string
}

// NewMockAuthGateway creates a MockAuthGateway with sensible defaults.
func NewMockAuthGateway() *MockAuthGateway {
	return &MockAuthGateway{
		DefaultProfile: domainauth.UserProfile{
			Email:     "mock.user@example.com",
			Name:      "Mock",
			Surname:   "User",
			Favorites: []string{},
		},
	}
}

// Calls returns the ordered list of operations invoked on the mock.
func (m *MockAuthGateway) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockAuthGateway) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
}

func (m *MockAuthGateway) Login(ctx context.Context, email, password string) error {
	m.record("login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	m.mu.Lock()
	m.Authenticated = true
	m.mu.Unlock()
	return nil
}

func (m *MockAuthGateway) Logout(ctx context.Context) error {
	m.record("logout")
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	m.mu.Lock()
	m.Authenticated = false
	m.mu.Unlock()
	return nil
}

func (m *MockAuthGateway) Register(ctx context.Context, in ports.RegisterInput) error {
	m.record("register")
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil
}

func (m *MockAuthGateway) GetProfile(ctx context.Context) (domainauth.UserProfile, error) {
	m.record("getProfile")
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx)
	}
	m.mu.Lock()
	authed := m.Authenticated
	m.mu.Unlock()
	if !authed {
		return domainauth.UserProfile{}, errs.Unauthorized("Unauthorized: no session")
	}
	return m.DefaultProfile, nil
}

// MemoryHintStore is an in-memory hint store for unit tests.
type MemoryHintStore struct {
	mu    sync.Mutex
	hints ports.Hints

	// ClearCount tracks how many times Clear was invoked.
	ClearCount int

	// ClearErr, when set, is returned by Clear.
	ClearErr error
}

// NewMemoryHintStore creates a new in-memory hint store.
func NewMemoryHintStore() *MemoryHintStore {
	return &MemoryHintStore{}
}

func (m *MemoryHintStore) Load() (ports.Hints, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hints, nil
}

func (m *MemoryHintStore) MarkAuthSuccess(at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hints = ports.Hints{HadSuccessfulAuth: true, LastAuthTime: at}
	return nil
}

func (m *MemoryHintStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCount++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.hints = ports.Hints{}
	return nil
}
