package session

import (
	"context"
	"errors"
	"sync"
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/auth"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/repository"
	"go.uber.org/zap"
)

// sessionIdleTTL is how long a token's manager survives without being
// touched before the janitor closes it.
const sessionIdleTTL = 30 * time.Minute

// RemoteSignOutFunc invalidates the token at the auth provider. Optional;
// without one, sign-out is local only.
type RemoteSignOutFunc func(ctx context.Context, token string) error

// tokenProvider adapts a TokenVerifier plus one fixed bearer token to the
// auth.Provider surface a Manager consumes. An invalid token is "no
// session", not a provider failure.
type tokenProvider struct {
	verifier auth.TokenVerifier
	token    string
	signOut  RemoteSignOutFunc
	events   chan auth.Event
}

func (p *tokenProvider) GetSession(ctx context.Context) (*auth.User, error) {
	u, err := p.verifier.Verify(ctx, p.token)
	if err != nil {
		if errors.Is(err, domainErr.ErrInvalidToken) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (p *tokenProvider) Events() <-chan auth.Event { return p.events }

func (p *tokenProvider) SignOut(ctx context.Context) error {
	if p.signOut == nil {
		return nil
	}
	return p.signOut(ctx, p.token)
}

type entry struct {
	manager  *Manager
	lastSeen time.Time
}

// Registry hands out one session Manager per bearer token, so every request
// carrying the same token shares one bootstrap, one profile fetch, and one
// state machine. Idle managers are swept after sessionIdleTTL.
type Registry struct {
	verifier auth.TokenVerifier
	profiles repository.ProfileStore
	remote   RemoteSignOutFunc
	log      *zap.SugaredLogger
	opts     []Option

	mu       sync.Mutex
	managers map[string]*entry

	done      chan struct{}
	closeOnce sync.Once
}

// RegistryOption tweaks registry construction.
type RegistryOption func(*Registry)

// WithRemoteSignOut wires the auth-provider call that invalidates a token on
// sign-out. Local state is cleared regardless of its outcome.
func WithRemoteSignOut(fn RemoteSignOutFunc) RegistryOption {
	return func(r *Registry) { r.remote = fn }
}

// WithManagerOptions forwards options to every manager the registry creates.
func WithManagerOptions(opts ...Option) RegistryOption {
	return func(r *Registry) { r.opts = opts }
}

func NewRegistry(verifier auth.TokenVerifier, profiles repository.ProfileStore, log *zap.SugaredLogger, opts ...RegistryOption) *Registry {
	r := &Registry{
		verifier: verifier,
		profiles: profiles,
		log:      log,
		managers: make(map[string]*entry),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(r)
	}
	go r.janitor()
	return r
}

// Resolve returns the session snapshot for a bearer token, creating and
// bootstrapping a manager on first sight. It blocks until the manager's
// bootstrap settles (itself bounded by the bootstrap timeout) or ctx ends.
func (r *Registry) Resolve(ctx context.Context, token string) (Snapshot, error) {
	m := r.managerFor(token)
	select {
	case <-m.Ready():
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	return m.Snapshot(), nil
}

// SignOut tears the token's session down. Unknown tokens are already signed
// out; that is success, not an error.
func (r *Registry) SignOut(ctx context.Context, token string) error {
	r.mu.Lock()
	e, ok := r.managers[token]
	if ok {
		delete(r.managers, token)
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}
	err := e.manager.SignOut(ctx)
	e.manager.Close()
	return err
}

// RefreshProfile re-fetches the profile behind the token's session and
// returns the refreshed snapshot.
func (r *Registry) RefreshProfile(ctx context.Context, token string) (Snapshot, error) {
	m := r.managerFor(token)
	select {
	case <-m.Ready():
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	m.RefreshProfile(ctx)
	return m.Snapshot(), nil
}

func (r *Registry) managerFor(token string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.managers[token]; ok {
		e.lastSeen = time.Now()
		return e.manager
	}
	provider := &tokenProvider{
		verifier: r.verifier,
		token:    token,
		signOut:  r.remote,
		events:   make(chan auth.Event),
	}
	m := NewManager(provider, r.profiles, r.log, r.opts...)
	m.Initialize(context.Background())
	r.managers[token] = &entry{manager: m, lastSeen: time.Now()}
	return m
}

func (r *Registry) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-sessionIdleTTL)
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, e := range r.managers {
		if e.lastSeen.Before(cutoff) {
			e.manager.Close()
			delete(r.managers, token)
		}
	}
}

// Close stops the janitor and closes every live manager.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		r.mu.Lock()
		defer r.mu.Unlock()
		for token, e := range r.managers {
			e.manager.Close()
			delete(r.managers, token)
		}
	})
}
