package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/skilldrones/regionview/internal/domain/auth"
	errs "github.com/skilldrones/regionview/internal/errors"
	"github.com/skilldrones/regionview/internal/ports"
)

// Status is the settled authentication status of the session.
type Status string

const (
	// StatusUnauthenticated means no user and no pending error.
	StatusUnauthenticated Status = "unauthenticated"
	// StatusChecking means session verification or sign-in is in flight.
	StatusChecking Status = "checking"
	// StatusAuthenticated means a profile was fetched and is current.
	StatusAuthenticated Status = "authenticated"
	// StatusError means the last operation failed; Previous holds the
	// settled status behind the error.
	StatusError Status = "error"
)

// Snapshot is the read-only view of session state handed to callers.
// Callers never mutate session state directly; they invoke the store's
// operations and re-read.
type Snapshot struct {
	Status Status
	// User is set when authenticated, and preserved behind an error whose
	// Previous status is authenticated.
	User *domainauth.UserProfile
	// Err is the user-visible message when Status is StatusError.
	Err string
	// Previous is the settled status behind an error: unauthenticated or
	// authenticated. Empty otherwise.
	Previous Status
	// IsLoading reports an operation in flight. It is orthogonal metadata,
	// not a status: it distinguishes "still checking" from "settled but
	// unauthenticated".
	IsLoading bool
}

// Authenticated reports whether the snapshot carries a live user. An error
// state whose previous status was authenticated still counts: an
// unrelated failure does not sign the user out.
func (s Snapshot) Authenticated() bool {
	if s.Status == StatusAuthenticated {
		return true
	}
	return s.Status == StatusError && s.Previous == StatusAuthenticated
}

// Role returns the role the session acts as, or false when there is no
// authenticated user to derive one from.
func (s Snapshot) Role() (domainauth.Role, bool) {
	if !s.Authenticated() || s.User == nil {
		return "", false
	}
	return s.User.EffectiveRole(), true
}

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Gateway ports.AuthGateway
	Hints   ports.HintStore
	Logger  *slog.Logger
	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

// SessionStore is the single source of truth for "who is signed in". It
// owns the session state exclusively: all mutation happens through the
// operations below, and callers read state via Snapshot.
//
// Operations are safe to call concurrently but are not queued or
// de-duplicated against each other. Each operation captures a generation
// token at start and applies its result only if no later operation has
// started since (last-caller-wins); a stale completion is discarded.
type SessionStore struct {
	gateway ports.AuthGateway
	hints   ports.HintStore
	logger  *slog.Logger
	clock   func() time.Time

	checkGroup singleflight.Group

	mu       sync.Mutex
	state    Snapshot
	gen      uint64
	inflight int
}

// NewSessionStore constructs a SessionStore in the unauthenticated state.
func NewSessionStore(opts SessionStoreOptions) (*SessionStore, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("auth gateway is required")
	}
	if opts.Hints == nil {
		return nil, fmt.Errorf("hint store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &SessionStore{
		gateway: opts.Gateway,
		hints:   opts.Hints,
		logger:  logger,
		clock:   clock,
		state:   Snapshot{Status: StatusUnauthenticated},
	}, nil
}

// Snapshot returns a copy of the current session state.
func (s *SessionStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionStore) snapshotLocked() Snapshot {
	snap := s.state
	if snap.User != nil {
		user := *snap.User
		snap.User = &user
	}
	snap.IsLoading = s.inflight > 0
	return snap
}

// begin starts an operation: bumps the generation, marks loading, and
// optionally moves the visible status to checking.
func (s *SessionStore) begin(toChecking bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.inflight++
	if toChecking {
		s.state = Snapshot{Status: StatusChecking}
	}
	return s.gen
}

// finish completes an operation. The transition runs only if the
// operation's generation is still current; a stale completion only drops
// its loading mark.
func (s *SessionStore) finish(gen uint64, transition func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if gen != s.gen {
		s.logger.Debug("discarding stale session operation result", "gen", gen, "current", s.gen)
		return
	}
	transition()
}

// settledStatus reduces the current state to unauthenticated or
// authenticated, looking through checking and error states.
func (s *SessionStore) settledStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state.Status {
	case StatusAuthenticated:
		return StatusAuthenticated
	case StatusError:
		if s.state.Previous == StatusAuthenticated {
			return StatusAuthenticated
		}
		return StatusUnauthenticated
	default:
		return StatusUnauthenticated
	}
}

type profileResult struct {
	profile domainauth.UserProfile
	err     error
}

// CheckSession verifies any existing backend session by fetching the
// profile. An Unauthorized or Forbidden answer is the normal "no session"
// outcome and surfaces no error; anything else becomes an error state.
// Concurrent calls are collapsed into one backend request.
func (s *SessionStore) CheckSession(ctx context.Context) error {
	gen := s.begin(true)

	v, fetchErr, _ := s.checkGroup.Do("check-session", func() (any, error) {
		profile, err := s.gateway.GetProfile(ctx)
		return profileResult{profile: profile, err: err}, nil
	})
	res, _ := v.(profileResult)
	if fetchErr != nil {
		res.err = fetchErr
	}

	var out error
	s.finish(gen, func() {
		switch {
		case res.err == nil:
			s.state = Snapshot{Status: StatusAuthenticated, User: &res.profile}
		case errs.IsSessionInvalid(res.err):
			// Expired session on a silent check is not a visible failure.
			s.state = Snapshot{Status: StatusUnauthenticated}
			s.clearHints()
		default:
			s.state = Snapshot{
				Status:   StatusError,
				Err:      errorMessage(res.err),
				Previous: StatusUnauthenticated,
			}
			s.clearHints()
			out = res.err
		}
	})
	return out
}

// Login signs in with credentials and then fetches the profile. Success
// establishes the authenticated state and records the auth-success hint;
// failure of either call surfaces an error over unauthenticated.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	gen := s.begin(true)

	profile, err := s.loginAndFetch(ctx, email, password)

	var out error
	s.finish(gen, func() {
		if err != nil {
			s.state = Snapshot{
				Status:   StatusError,
				Err:      errorMessage(err),
				Previous: StatusUnauthenticated,
			}
			out = err
			return
		}
		s.state = Snapshot{Status: StatusAuthenticated, User: &profile}
		if hintErr := s.hints.MarkAuthSuccess(s.clock()); hintErr != nil {
			s.logger.Warn("record auth success hint", "error", hintErr)
		}
	})
	return out
}

func (s *SessionStore) loginAndFetch(ctx context.Context, email, password string) (domainauth.UserProfile, error) {
	if err := s.gateway.Login(ctx, email, password); err != nil {
		return domainauth.UserProfile{}, err
	}
	return s.gateway.GetProfile(ctx)
}

// Register creates a new account. Registration does not establish a
// session: success settles to unauthenticated, and failure leaves the
// prior authentication status untouched behind the error.
func (s *SessionStore) Register(ctx context.Context, in ports.RegisterInput) error {
	prior := s.settledStatus()
	gen := s.begin(false)

	err := s.gateway.Register(ctx, in)

	var out error
	s.finish(gen, func() {
		if err != nil {
			priorUser := s.state.User
			s.state = Snapshot{
				Status:   StatusError,
				Err:      errorMessage(err),
				Previous: prior,
				User:     priorUser,
			}
			out = err
			return
		}
		s.state = Snapshot{Status: StatusUnauthenticated}
	})
	return out
}

// Logout always ends unauthenticated and always clears the local session
// hints, regardless of the network outcome. A failed backend call is
// logged, never surfaced.
func (s *SessionStore) Logout(ctx context.Context) error {
	gen := s.begin(false)

	if err := s.gateway.Logout(ctx); err != nil {
		s.logger.Warn("backend logout failed, clearing local session anyway", "error", err)
	}

	s.finish(gen, func() {
		s.state = Snapshot{Status: StatusUnauthenticated}
	})
	s.clearHints()
	return nil
}

// ClearError dismisses a displayed error, restoring the settled state
// behind it. It is a no-op outside the error state.
func (s *SessionStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusError {
		return
	}
	if s.state.Previous == StatusAuthenticated && s.state.User != nil {
		s.state = Snapshot{Status: StatusAuthenticated, User: s.state.User}
		return
	}
	s.state = Snapshot{Status: StatusUnauthenticated}
}

func (s *SessionStore) clearHints() {
	if err := s.hints.Clear(); err != nil {
		s.logger.Warn("clear session hints", "error", err)
	}
}

// errorMessage extracts the user-visible message from a taxonomy error.
func errorMessage(err error) string {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
