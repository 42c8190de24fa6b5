package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/skilldrones/regionview/internal/domain/auth"
	errs "github.com/skilldrones/regionview/internal/errors"
	"github.com/skilldrones/regionview/internal/mocks"
	mockauth "github.com/skilldrones/regionview/internal/mocks/auth"
	"github.com/skilldrones/regionview/internal/ports"
)

func newTestStore(t *testing.T, gateway ports.AuthGateway) (*SessionStore, *mockauth.MemoryHintStore) {
	t.Helper()
	hints := mockauth.NewMemoryHintStore()
	store, err := NewSessionStore(SessionStoreOptions{Gateway: gateway, Hints: hints})
	require.NoError(t, err)
	return store, hints
}

func TestNewSessionStore_RequiresDependencies(t *testing.T) {
	_, err := NewSessionStore(SessionStoreOptions{Hints: mockauth.NewMemoryHintStore()})
	assert.Error(t, err)

	_, err = NewSessionStore(SessionStoreOptions{Gateway: mockauth.NewMockAuthGateway()})
	assert.Error(t, err)
}

func TestSessionStore_InitialState(t *testing.T) {
	store, _ := newTestStore(t, mockauth.NewMockAuthGateway())

	snap := store.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Err)
	assert.False(t, snap.IsLoading)
	assert.False(t, snap.Authenticated())
}

func TestCheckSession_ExistingSession(t *testing.T) {
	gateway := mockauth.NewMockAuthGateway()
	gateway.Authenticated = true
	store, _ := newTestStore(t, gateway)

	require.NoError(t, store.CheckSession(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	require.NotNil(t, snap.User)
	assert.Equal(t, "mock.user@example.com", snap.User.Email)

	role, ok := snap.Role()
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleUser, role)
}

func TestCheckSession_NoSessionIsNotAnError(t *testing.T) {
	// Backend answers 401: a silent check must settle unauthenticated
	// with no visible error.
	gateway := mockauth.NewMockAuthGateway()
	gateway.GetProfileFunc = func(context.Context) (domainauth.UserProfile, error) {
		return domainauth.UserProfile{}, errs.Unauthorized("Unauthorized: no session")
	}
	store, hints := newTestStore(t, gateway)

	require.NoError(t, store.CheckSession(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Empty(t, snap.Err)
	assert.Equal(t, 1, hints.ClearCount)
}

func TestCheckSession_ForbiddenAlsoSettlesQuietly(t *testing.T) {
	gateway := mockauth.NewMockAuthGateway()
	gateway.GetProfileFunc = func(context.Context) (domainauth.UserProfile, error) {
		return domainauth.UserProfile{}, errs.Forbidden("Forbidden: no access")
	}
	store, _ := newTestStore(t, gateway)

	require.NoError(t, store.CheckSession(context.Background()))
	assert.Equal(t, StatusUnauthenticated, store.Snapshot().Status)
}

func TestCheckSession_OtherFailureSurfaces(t *testing.T) {
	gateway := mockauth.NewMockAuthGateway()
	gateway.GetProfileFunc = func(context.Context) (domainauth.UserProfile, error) {
		return domainauth.UserProfile{}, errs.NetworkUnreachable("Network error: No response received")
	}
	store, _ := newTestStore(t, gateway)

	err := store.CheckSession(context.Background())
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "Network error: No response received", snap.Err)
	assert.Equal(t, StatusUnauthenticated, snap.Previous)
	assert.False(t, snap.Authenticated())
}

func TestLogin_Success(t *testing.T) {
	gateway := mockauth.NewMockAuthGateway()
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	hints := mockauth.NewMemoryHintStore()
	store, err := NewSessionStore(SessionStoreOptions{
		Gateway: gateway,
		Hints:   hints,
		Clock:   func() time.Time { return at },
	})
	require.NoError(t, err)

	require.NoError(t, store.Login(context.Background(), "a@b.com", "pw"))

	snap := store.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Mock User", snap.User.DisplayName())

	h, loadErr := hints.Load()
	require.NoError(t, loadErr)
	assert.True(t, h.HadSuccessfulAuth)
	assert.True(t, h.LastAuthTime.Equal(at))

	// Login must fetch the profile after authenticating.
	assert.Equal(t, []string{"login", "getProfile"}, gateway.Calls())
}

func TestLogin_CredentialsRejected(t *testing.T) {
	gateway := mockauth.NewMockAuthGateway()
	gateway.LoginFunc = func(context.Context, string, string) error {
		return errs.BadRequest("Invalid credentials")
	}
	store, hints := newTestStore(t, gateway)

	err := store.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "Invalid credentials", snap.Err)
	assert.Equal(t, StatusUnauthenticated, snap.Previous)
	assert.Nil(t, snap.User)

	h, _ := hints.Load()
	assert.False(t, h.HadSuccessfulAuth)
}

func TestLogin_ProfileFetchUnreachable(t *testing.T) {
	// Login succeeds but the follow-up profile fetch gets no response.
	gateway := mockauth.NewMockAuthGateway()
	gateway.GetProfileFunc = func(context.Context) (domainauth.UserProfile, error) {
		return domainauth.UserProfile{}, errs.NetworkUnreachable("Network error: No response received")
	}
	store, _ := newTestStore(t, gateway)

	err := store.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "Network error: No response received", snap.Err)
	assert.Equal(t, StatusUnauthenticated, snap.Previous)
	assert.False(t, snap.Authenticated())
}

func TestRegister_SuccessDoesNotEstablishSession(t *testing.T) {
	store, _ := newTestStore(t, mockauth.NewMockAuthGateway())

	require.NoError(t, store.Register(context.Background(), ports.RegisterInput{
		Email:    "new@b.com",
		Password: "pw",
		Name:     "New",
		Surname:  "User",
	}))

	snap := store.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Empty(t, snap.Err)
}

func TestRegister_ConflictLeavesSessionUntouched(t *testing.T) {
	gateway := mockauth.NewMockAuthGateway()
	gateway.Authenticated = true
	store, _ := newTestStore(t, gateway)
	require.NoError(t, store.CheckSession(context.Background()))

	gateway.RegisterFunc = func(context.Context, ports.RegisterInput) error {
		return errs.Conflict("User already exists")
	}

	err := store.Register(context.Background(), ports.RegisterInput{Email: "dup@b.com"})
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "User already exists", snap.Err)
	assert.Equal(t, StatusAuthenticated, snap.Previous)
	require.NotNil(t, snap.User)
	assert.True(t, snap.Authenticated(), "authentication status must be untouched by a failed registration")
}

func TestLogout_Idempotent(t *testing.T) {
	gateway := mockauth.NewMockAuthGateway()
	gateway.Authenticated = true
	store, hints := newTestStore(t, gateway)
	require.NoError(t, store.Login(context.Background(), "a@b.com", "pw"))

	require.NoError(t, store.Logout(context.Background()))
	first := store.Snapshot()
	assert.Equal(t, StatusUnauthenticated, first.Status)
	assert.Empty(t, first.Err)
	assert.Equal(t, 1, hints.ClearCount)

	require.NoError(t, store.Logout(context.Background()))
	second := store.Snapshot()
	assert.Equal(t, StatusUnauthenticated, second.Status)
	assert.Empty(t, second.Err)
	assert.Equal(t, 2, hints.ClearCount)
}

func TestLogout_NetworkFailureStillClearsLocally(t *testing.T) {
	gateway := mockauth.NewMockAuthGateway()
	gateway.Authenticated = true
	gateway.LogoutFunc = func(context.Context) error {
		return errs.NetworkUnreachable("Network error: No response received")
	}
	store, hints := newTestStore(t, gateway)
	require.NoError(t, store.Login(context.Background(), "a@b.com", "pw"))

	require.NoError(t, store.Logout(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Empty(t, snap.Err)
	assert.Positive(t, hints.ClearCount)
}

func TestIsLoading_DuringOperation(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gateway := mockauth.NewMockAuthGateway()
	gateway.GetProfileFunc = func(context.Context) (domainauth.UserProfile, error) {
		close(started)
		<-release
		return domainauth.UserProfile{}, errs.Unauthorized("Unauthorized: no session")
	}
	store, _ := newTestStore(t, gateway)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = store.CheckSession(context.Background())
	}()

	<-started
	snap := store.Snapshot()
	assert.True(t, snap.IsLoading)
	assert.Equal(t, StatusChecking, snap.Status)

	close(release)
	<-done
	assert.False(t, store.Snapshot().IsLoading)
}

func TestConcurrentLogins_LastCallerWins(t *testing.T) {
	// The first login stalls; the second starts later but resolves first.
	// The store must keep the second call's outcome and discard the
	// first's late result.
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	gateway := mockauth.NewMockAuthGateway()
	gateway.LoginFunc = func(_ context.Context, email, _ string) error {
		if email == "first@b.com" {
			close(firstStarted)
			<-releaseFirst
		}
		return nil
	}
	var mu sync.Mutex
	profiles := map[string]domainauth.UserProfile{}
	gateway.GetProfileFunc = func(context.Context) (domainauth.UserProfile, error) {
		mu.Lock()
		defer mu.Unlock()
		// The profile fetch belongs to whichever login released last;
		// return the profile staged for it.
		p := profiles["next"]
		return p, nil
	}
	store, _ := newTestStore(t, gateway)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = store.Login(context.Background(), "first@b.com", "pw")
	}()

	<-firstStarted

	mu.Lock()
	profiles["next"] = domainauth.UserProfile{Email: "second@b.com", Name: "Second", Surname: "Caller", Favorites: []string{}}
	mu.Unlock()
	require.NoError(t, store.Login(context.Background(), "second@b.com", "pw"))

	mu.Lock()
	profiles["next"] = domainauth.UserProfile{Email: "first@b.com", Name: "First", Surname: "Caller", Favorites: []string{}}
	mu.Unlock()
	close(releaseFirst)
	wg.Wait()

	snap := store.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	require.NotNil(t, snap.User)
	assert.Equal(t, "second@b.com", snap.User.Email, "last caller's outcome must win")
	assert.False(t, snap.IsLoading)
}

func TestConcurrentCheckSessions_Collapsed(t *testing.T) {
	var calls int
	var mu sync.Mutex
	release := make(chan struct{})
	started := make(chan struct{})

	gateway := mockauth.NewMockAuthGateway()
	gateway.GetProfileFunc = func(context.Context) (domainauth.UserProfile, error) {
		mu.Lock()
		calls++
		if calls == 1 {
			close(started)
		}
		mu.Unlock()
		<-release
		return domainauth.UserProfile{Email: "a@b.com", Name: "A", Surname: "B", Favorites: []string{}}, nil
	}
	store, _ := newTestStore(t, gateway)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = store.CheckSession(context.Background())
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = store.CheckSession(context.Background())
	}()

	// Give the second call a moment to join the in-flight fetch.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls, "concurrent session checks should share one backend request")
	assert.Equal(t, StatusAuthenticated, store.Snapshot().Status)
}

func TestClearError(t *testing.T) {
	gateway := mockauth.NewMockAuthGateway()
	gateway.Authenticated = true
	store, _ := newTestStore(t, gateway)
	require.NoError(t, store.CheckSession(context.Background()))

	gateway.RegisterFunc = func(context.Context, ports.RegisterInput) error {
		return errs.Conflict("User already exists")
	}
	require.Error(t, store.Register(context.Background(), ports.RegisterInput{}))
	require.Equal(t, StatusError, store.Snapshot().Status)

	store.ClearError()

	snap := store.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.Empty(t, snap.Err)
	require.NotNil(t, snap.User)
}

func TestClearError_NoOpWhenNoError(t *testing.T) {
	store, _ := newTestStore(t, mockauth.NewMockAuthGateway())
	store.ClearError()
	assert.Equal(t, StatusUnauthenticated, store.Snapshot().Status)
}

func TestSnapshot_IsACopy(t *testing.T) {
	gateway := mockauth.NewMockAuthGateway()
	gateway.Authenticated = true
	store, _ := newTestStore(t, gateway)
	require.NoError(t, store.CheckSession(context.Background()))

	snap := store.Snapshot()
	require.NotNil(t, snap.User)
	snap.User.Email = "tampered@b.com"

	assert.Equal(t, "mock.user@example.com", store.Snapshot().User.Email)
}

func TestLogin_GatewayCallOrder_Gomock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := mocks.NewMockAuthGateway(ctrl)
	profile := domainauth.UserProfile{Email: "a@b.com", Name: "A", Surname: "B", Favorites: []string{}, Role: domainauth.RoleManager}

	gomock.InOrder(
		gateway.EXPECT().Login(gomock.Any(), "a@b.com", "pw").Return(nil),
		gateway.EXPECT().GetProfile(gomock.Any()).Return(profile, nil),
	)

	hints := mockauth.NewMemoryHintStore()
	store, err := NewSessionStore(SessionStoreOptions{Gateway: gateway, Hints: hints})
	require.NoError(t, err)

	require.NoError(t, store.Login(context.Background(), "a@b.com", "pw"))

	role, ok := store.Snapshot().Role()
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleManager, role)
}
