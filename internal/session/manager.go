package session

import (
	"context"
	"sync"
	"time"

	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/auth"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State tracks where the manager is in its lifecycle.
type State string

const (
	StateUninitialized   State = "uninitialized"
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// DefaultBootstrapTimeout bounds Initialize: whatever the auth/profile round
// trip is doing, Loading() goes false after this long so callers never block
// on a hung backend. The in-flight fetch is not cancelled; a late result is
// still allowed to update state when it lands.
const DefaultBootstrapTimeout = 3 * time.Second

// profileFetchTimeout bounds each individual profile fetch triggered by an
// auth-state event or an explicit refresh.
const profileFetchTimeout = 10 * time.Second

// LegacyFallbackRole is the role the original dashboard synthesized when the
// profile fetch failed during bootstrap: admin, i.e. a fetch failure silently
// granted elevated access. Kept only so the regression test can document the
// gap; the manager itself fails closed with profile.Fallback (viewer).
const LegacyFallbackRole = profile.RoleAdmin

// Snapshot is a read-only copy of the manager's current view of "who is
// logged in and what can they do".
type Snapshot struct {
	State   State            `json:"state"`
	User    *auth.User       `json:"user,omitempty"`
	Profile *profile.Profile `json:"profile,omitempty"`
	Loading bool             `json:"loading"`
}

// Manager owns the authenticated identity and its derived profile. It is an
// explicit object with a lifecycle (Initialize, events, Close) rather than
// ambient global state; everything that needs the current role holds a
// reference and reads snapshots.
type Manager struct {
	provider auth.Provider
	profiles repository.ProfileStore
	log      *zap.SugaredLogger

	bootstrapTimeout time.Duration

	mu      sync.RWMutex
	state   State
	user    *auth.User
	profile *profile.Profile
	loading bool

	sf        singleflight.Group
	bootTimer *time.Timer
	done      chan struct{}
	closeOnce sync.Once
	ready     chan struct{}
	readyOnce sync.Once
}

// Option tweaks manager construction.
type Option func(*Manager)

// WithBootstrapTimeout overrides the bootstrap bound (tests use a short one).
func WithBootstrapTimeout(d time.Duration) Option {
	return func(m *Manager) { m.bootstrapTimeout = d }
}

// NewManager wires a session manager. Call Initialize to start it and Close
// to tear it down.
func NewManager(provider auth.Provider, profiles repository.ProfileStore, log *zap.SugaredLogger, opts ...Option) *Manager {
	m := &Manager{
		provider:         provider,
		profiles:         profiles,
		log:              log,
		bootstrapTimeout: DefaultBootstrapTimeout,
		state:            StateUninitialized,
		done:             make(chan struct{}),
		ready:            make(chan struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Initialize moves the manager into Loading, kicks off the session+profile
// bootstrap, arms the bootstrap timeout, and starts consuming auth-state
// events. It does not block; callers poll Loading() or read Snapshot().
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateUninitialized {
		m.mu.Unlock()
		return
	}
	m.state = StateLoading
	m.loading = true
	// Backup bound so loading never stays true forever, whatever the
	// backend is doing.
	m.bootTimer = time.AfterFunc(m.bootstrapTimeout, m.forceLoaded)
	m.mu.Unlock()

	go m.bootstrap(ctx)
	go m.eventLoop()
}

// bootstrap resolves the existing session, if any, and its profile. It is
// allowed to finish after the bootstrap timeout already forced loading off.
func (m *Manager) bootstrap(ctx context.Context) {
	user, err := m.provider.GetSession(ctx)
	if err != nil {
		m.log.Warnw("session bootstrap failed", "err", err)
		m.resolve(nil, nil)
		return
	}
	if user == nil {
		m.resolve(nil, nil)
		return
	}

	prof := m.fetchProfile(ctx, *user)
	m.resolve(user, &prof)
}

// fetchProfile loads the profile row for the user, deduplicating concurrent
// fetches for the same id. A failed or empty fetch resolves to the
// least-privilege fallback profile rather than leaving the profile unset.
func (m *Manager) fetchProfile(ctx context.Context, user auth.User) profile.Profile {
	v, err, _ := m.sf.Do(user.ID.String(), func() (interface{}, error) {
		return m.profiles.GetProfile(ctx, user.ID)
	})
	if err != nil {
		m.log.Warnw("profile fetch failed, falling back to viewer role",
			"user_id", user.ID, "err", err)
		return profile.Fallback(user.ID, user.Email)
	}
	return v.(profile.Profile)
}

// resolve installs the bootstrap result and settles the state machine.
func (m *Manager) resolve(user *auth.User, prof *profile.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.profile = prof
	m.loading = false
	if m.bootTimer != nil {
		m.bootTimer.Stop()
	}
	if user != nil {
		m.state = StateAuthenticated
	} else {
		m.state = StateUnauthenticated
	}
	m.readyOnce.Do(func() { close(m.ready) })
}

// forceLoaded is the bootstrap timeout firing: the loading flag drops even
// though the fetch has not resolved. State settles as unauthenticated until
// the late result (if any) arrives.
func (m *Manager) forceLoaded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loading {
		return
	}
	m.log.Warnw("session bootstrap exceeded timeout, forcing loading off",
		"timeout", m.bootstrapTimeout)
	m.loading = false
	if m.state == StateLoading {
		m.state = StateUnauthenticated
	}
	m.readyOnce.Do(func() { close(m.ready) })
}

// eventLoop consumes provider auth-state changes until Close or until the
// provider shuts its channel.
func (m *Manager) eventLoop() {
	events := m.provider.Events()
	for {
		select {
		case <-m.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.handleEvent(ev)
		}
	}
}

// handleEvent replaces the session wholesale on every auth-state change:
// new user means a fresh profile fetch, no user means both are cleared.
// A real result also cancels the bootstrap timer.
func (m *Manager) handleEvent(ev auth.Event) {
	if ev.User != nil {
		ctx, cancel := context.WithTimeout(context.Background(), profileFetchTimeout)
		prof := m.fetchProfile(ctx, *ev.User)
		cancel()
		m.resolve(ev.User, &prof)
		m.log.Infow("auth state changed", "event", ev.Kind, "email", ev.User.Email)
		return
	}
	m.resolve(nil, nil)
	m.log.Infow("auth state changed", "event", ev.Kind)
}

// SignOut requests remote sign-out, then clears local state unconditionally.
// Optimistic local logout: a failed remote call still leaves this process
// signed out.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.provider.SignOut(ctx)
	if err != nil {
		m.log.Warnw("remote sign-out failed, clearing local session anyway", "err", err)
	}
	m.resolve(nil, nil)
	return err
}

// RefreshProfile re-fetches the profile for the current user. No-op when no
// user is set.
func (m *Manager) RefreshProfile(ctx context.Context) {
	m.mu.RLock()
	user := m.user
	m.mu.RUnlock()
	if user == nil {
		return
	}
	prof := m.fetchProfile(ctx, *user)
	m.mu.Lock()
	m.profile = &prof
	m.mu.Unlock()
}

// Ready is closed once the bootstrap resolves or the bootstrap timeout
// forces loading off, whichever comes first.
func (m *Manager) Ready() <-chan struct{} { return m.ready }

// Loading reports whether the bootstrap is still unresolved.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Snapshot returns a consistent copy of the current session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Snapshot{State: m.state, Loading: m.loading}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	if m.profile != nil {
		p := *m.profile
		s.Profile = &p
	}
	return s
}

// Role returns the current role, or viewer when unauthenticated. Convenience
// for handlers computing available actions.
func (m *Manager) Role() profile.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile == nil {
		return profile.RoleViewer
	}
	return m.profile.Role
}

// Close tears the manager down: the event subscription stops and the
// bootstrap timer is released.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.mu.Lock()
		if m.bootTimer != nil {
			m.bootTimer.Stop()
		}
		m.mu.Unlock()
	})
}
