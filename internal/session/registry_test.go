package session

import (
	"context"
	"sync"
	"testing"
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/auth"
	"github.com/google/uuid"
)

type mockVerifier struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[token]
	if !ok {
		return auth.User{}, domainErr.ErrInvalidToken
	}
	return u, nil
}

func TestRegistryResolveAuthenticated(t *testing.T) {
	userID := uuid.New()
	verifier := &mockVerifier{users: map[string]auth.User{
		"tok-1": {ID: userID, Email: "dispatch@example.com"},
	}}
	store := &mockProfileStore{profile: profile.Profile{ID: userID, Role: profile.RoleCarrier, IsActive: true}}

	r := NewRegistry(verifier, store, testLogger())
	defer r.Close()

	snap, err := r.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if snap.State != StateAuthenticated {
		t.Fatalf("state = %s, want authenticated", snap.State)
	}
	if snap.Profile == nil || snap.Profile.Role != profile.RoleCarrier {
		t.Fatalf("profile = %+v, want carrier role", snap.Profile)
	}
}

// An invalid token is an anonymous session, not a resolution failure.
func TestRegistryResolveInvalidToken(t *testing.T) {
	r := NewRegistry(&mockVerifier{}, &mockProfileStore{}, testLogger())
	defer r.Close()

	snap, err := r.Resolve(context.Background(), "garbage")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if snap.State != StateUnauthenticated || snap.User != nil {
		t.Fatalf("snapshot = %+v, want unauthenticated", snap)
	}
}

// Repeat requests with the same token share one manager and one bootstrap.
func TestRegistryReusesManager(t *testing.T) {
	userID := uuid.New()
	verifier := &mockVerifier{users: map[string]auth.User{
		"tok-2": {ID: userID, Email: "ops@example.com"},
	}}
	store := &mockProfileStore{profile: profile.Profile{ID: userID, Role: profile.RoleAdmin, IsActive: true}}

	r := NewRegistry(verifier, store, testLogger())
	defer r.Close()

	for i := 0; i < 5; i++ {
		if _, err := r.Resolve(context.Background(), "tok-2"); err != nil {
			t.Fatalf("Resolve %d: %v", i, err)
		}
	}

	store.mu.Lock()
	calls := store.calls
	store.mu.Unlock()
	if calls != 1 {
		t.Fatalf("profile fetched %d times, want 1", calls)
	}
}

func TestRegistrySignOut(t *testing.T) {
	userID := uuid.New()
	verifier := &mockVerifier{users: map[string]auth.User{
		"tok-3": {ID: userID, Email: "x@example.com"},
	}}
	store := &mockProfileStore{profile: profile.Profile{ID: userID, Role: profile.RoleShipper, IsActive: true}}

	var remoteCalls int
	var mu sync.Mutex
	r := NewRegistry(verifier, store, testLogger(), WithRemoteSignOut(func(ctx context.Context, token string) error {
		mu.Lock()
		defer mu.Unlock()
		remoteCalls++
		return nil
	}))
	defer r.Close()

	if _, err := r.Resolve(context.Background(), "tok-3"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := r.SignOut(context.Background(), "tok-3"); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	mu.Lock()
	if remoteCalls != 1 {
		t.Fatalf("remote sign-out called %d times, want 1", remoteCalls)
	}
	mu.Unlock()

	// A later request with the same token bootstraps a fresh manager.
	if _, err := r.Resolve(context.Background(), "tok-3"); err != nil {
		t.Fatalf("Resolve after sign-out: %v", err)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.calls != 2 {
		t.Fatalf("profile fetched %d times, want 2", store.calls)
	}
}

func TestRegistrySignOutUnknownToken(t *testing.T) {
	r := NewRegistry(&mockVerifier{}, &mockProfileStore{}, testLogger())
	defer r.Close()
	if err := r.SignOut(context.Background(), "never-seen"); err != nil {
		t.Fatalf("sign-out of unknown token should be a no-op, got %v", err)
	}
}

func TestRegistryRefreshProfile(t *testing.T) {
	userID := uuid.New()
	verifier := &mockVerifier{users: map[string]auth.User{
		"tok-4": {ID: userID, Email: "r@example.com"},
	}}
	store := &mockProfileStore{profile: profile.Profile{ID: userID, Role: profile.RoleViewer, IsActive: true}}

	r := NewRegistry(verifier, store, testLogger())
	defer r.Close()

	if _, err := r.Resolve(context.Background(), "tok-4"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	store.mu.Lock()
	store.profile.Role = profile.RoleAdmin
	store.mu.Unlock()

	snap, err := r.RefreshProfile(context.Background(), "tok-4")
	if err != nil {
		t.Fatalf("RefreshProfile: %v", err)
	}
	if snap.Profile == nil || snap.Profile.Role != profile.RoleAdmin {
		t.Fatalf("profile after refresh = %+v, want admin", snap.Profile)
	}
}

func TestRegistrySweepClosesIdleManagers(t *testing.T) {
	userID := uuid.New()
	verifier := &mockVerifier{users: map[string]auth.User{
		"tok-5": {ID: userID, Email: "idle@example.com"},
	}}
	store := &mockProfileStore{profile: profile.Profile{ID: userID, Role: profile.RoleViewer, IsActive: true}}

	r := NewRegistry(verifier, store, testLogger())
	defer r.Close()

	if _, err := r.Resolve(context.Background(), "tok-5"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Age the entry past the TTL, then sweep directly.
	r.mu.Lock()
	r.managers["tok-5"].lastSeen = time.Now().Add(-2 * sessionIdleTTL)
	r.mu.Unlock()
	r.sweep()

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.managers) != 0 {
		t.Fatalf("idle manager survived the sweep")
	}
}
