package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- MOCKS ---

type mockProvider struct {
	user       *auth.User
	sessionErr error
	delay      time.Duration

	events chan auth.Event

	mu          sync.Mutex
	signOutErr  error
	signOutSeen bool
}

func newMockProvider(user *auth.User) *mockProvider {
	return &mockProvider{user: user, events: make(chan auth.Event, 4)}
}

func (m *mockProvider) GetSession(ctx context.Context) (*auth.User, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.user, m.sessionErr
}

func (m *mockProvider) Events() <-chan auth.Event { return m.events }

func (m *mockProvider) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signOutSeen = true
	return m.signOutErr
}

type mockProfileStore struct {
	mu      sync.Mutex
	profile profile.Profile
	err     error
	calls   int
}

func (m *mockProfileStore) GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.profile, m.err
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

// --- TESTS ---

func TestInitializeAuthenticated(t *testing.T) {
	userID := uuid.New()
	prov := newMockProvider(&auth.User{ID: userID, Email: "dispatch@example.com"})
	store := &mockProfileStore{profile: profile.Profile{ID: userID, Role: profile.RoleAdmin, IsActive: true}}

	m := NewManager(prov, store, testLogger())
	defer m.Close()
	m.Initialize(context.Background())

	waitFor(t, time.Second, func() bool { return !m.Loading() })

	snap := m.Snapshot()
	if snap.State != StateAuthenticated {
		t.Fatalf("state = %s, want authenticated", snap.State)
	}
	if snap.Profile == nil || snap.Profile.Role != profile.RoleAdmin {
		t.Fatalf("profile = %+v, want admin role", snap.Profile)
	}
}

func TestInitializeNoSession(t *testing.T) {
	prov := newMockProvider(nil)
	store := &mockProfileStore{}

	m := NewManager(prov, store, testLogger())
	defer m.Close()
	m.Initialize(context.Background())

	waitFor(t, time.Second, func() bool { return m.Snapshot().State == StateUnauthenticated })
	if store.calls != 0 {
		t.Fatalf("profile fetched despite missing session")
	}
}

// Bootstrap exceeding the timeout must force loading off; the late result is
// still allowed to settle state afterwards.
func TestBootstrapTimeoutForcesLoadingOff(t *testing.T) {
	userID := uuid.New()
	prov := newMockProvider(&auth.User{ID: userID, Email: "late@example.com"})
	prov.delay = 150 * time.Millisecond
	store := &mockProfileStore{profile: profile.Profile{ID: userID, Role: profile.RoleCarrier, IsActive: true}}

	m := NewManager(prov, store, testLogger(), WithBootstrapTimeout(30*time.Millisecond))
	defer m.Close()
	m.Initialize(context.Background())

	waitFor(t, time.Second, func() bool { return !m.Loading() })
	// Loading dropped before the provider answered.
	if snap := m.Snapshot(); snap.State != StateUnauthenticated {
		t.Fatalf("state after forced timeout = %s, want unauthenticated", snap.State)
	}

	// The in-flight fetch eventually lands and updates state.
	waitFor(t, time.Second, func() bool { return m.Snapshot().State == StateAuthenticated })
	if got := m.Role(); got != profile.RoleCarrier {
		t.Fatalf("role after late resolve = %s, want carrier", got)
	}
}

// A profile-fetch failure must not leave the profile unset. The original
// dashboard synthesized an admin profile here, silently granting elevated
// access on a fetch failure; the redesign fails closed to viewer.
func TestProfileFetchFailureFallsBackClosed(t *testing.T) {
	userID := uuid.New()
	prov := newMockProvider(&auth.User{ID: userID, Email: "ops@example.com"})
	store := &mockProfileStore{err: domainErr.ErrProfileNotFound}

	m := NewManager(prov, store, testLogger())
	defer m.Close()
	m.Initialize(context.Background())

	waitFor(t, time.Second, func() bool { return !m.Loading() })

	snap := m.Snapshot()
	if snap.Profile == nil {
		t.Fatalf("profile left nil on fetch failure")
	}
	if snap.Profile.Role == LegacyFallbackRole {
		t.Fatalf("fallback profile carries the legacy admin role; must fail closed")
	}
	if snap.Profile.Role != profile.RoleViewer {
		t.Fatalf("fallback role = %s, want viewer", snap.Profile.Role)
	}
	if !snap.Profile.IsActive {
		t.Fatalf("fallback profile should be active")
	}
}

func TestAuthStateChangeReplacesSession(t *testing.T) {
	prov := newMockProvider(nil)
	userID := uuid.New()
	store := &mockProfileStore{profile: profile.Profile{ID: userID, Role: profile.RoleShipper, IsActive: true}}

	m := NewManager(prov, store, testLogger())
	defer m.Close()
	m.Initialize(context.Background())
	waitFor(t, time.Second, func() bool { return m.Snapshot().State == StateUnauthenticated })

	prov.events <- auth.Event{Kind: auth.EventSignedIn, User: &auth.User{ID: userID, Email: "s@example.com"}}
	waitFor(t, time.Second, func() bool { return m.Snapshot().State == StateAuthenticated })
	if got := m.Role(); got != profile.RoleShipper {
		t.Fatalf("role = %s, want shipper", got)
	}

	prov.events <- auth.Event{Kind: auth.EventSignedOut}
	waitFor(t, time.Second, func() bool { return m.Snapshot().State == StateUnauthenticated })
	if snap := m.Snapshot(); snap.User != nil || snap.Profile != nil {
		t.Fatalf("sign-out left user/profile set: %+v", snap)
	}
}

// Remote sign-out failure still clears local state (optimistic logout).
func TestSignOutClearsLocallyOnRemoteError(t *testing.T) {
	userID := uuid.New()
	prov := newMockProvider(&auth.User{ID: userID, Email: "x@example.com"})
	prov.signOutErr = errors.New("auth service unreachable")
	store := &mockProfileStore{profile: profile.Profile{ID: userID, Role: profile.RoleAdmin, IsActive: true}}

	m := NewManager(prov, store, testLogger())
	defer m.Close()
	m.Initialize(context.Background())
	waitFor(t, time.Second, func() bool { return m.Snapshot().State == StateAuthenticated })

	if err := m.SignOut(context.Background()); err == nil {
		t.Fatalf("expected remote error to surface")
	}
	if snap := m.Snapshot(); snap.State != StateUnauthenticated || snap.User != nil {
		t.Fatalf("local state not cleared after failed remote sign-out: %+v", snap)
	}
}

func TestRefreshProfile(t *testing.T) {
	userID := uuid.New()
	prov := newMockProvider(&auth.User{ID: userID, Email: "r@example.com"})
	store := &mockProfileStore{profile: profile.Profile{ID: userID, Role: profile.RoleViewer, IsActive: true}}

	m := NewManager(prov, store, testLogger())
	defer m.Close()
	m.Initialize(context.Background())
	waitFor(t, time.Second, func() bool { return m.Snapshot().State == StateAuthenticated })

	// Role changed upstream; refresh picks it up.
	store.mu.Lock()
	store.profile.Role = profile.RoleAdmin
	store.mu.Unlock()

	m.RefreshProfile(context.Background())
	if got := m.Role(); got != profile.RoleAdmin {
		t.Fatalf("role after refresh = %s, want admin", got)
	}
}

func TestRefreshProfileNoUserIsNoop(t *testing.T) {
	prov := newMockProvider(nil)
	store := &mockProfileStore{}

	m := NewManager(prov, store, testLogger())
	defer m.Close()
	m.Initialize(context.Background())
	waitFor(t, time.Second, func() bool { return !m.Loading() })

	m.RefreshProfile(context.Background())
	if store.calls != 0 {
		t.Fatalf("refresh without a user hit the store %d times", store.calls)
	}
}
