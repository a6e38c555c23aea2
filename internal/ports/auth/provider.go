package auth

import (
	"context"

	"github.com/google/uuid"
)

// User is the bare identity the external auth provider knows about. The
// role/contact metadata lives in the profiles table, not here.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// EventKind classifies auth-state change notifications.
type EventKind string

const (
	EventSignedIn       EventKind = "signed_in"
	EventSignedOut      EventKind = "signed_out"
	EventTokenRefreshed EventKind = "token_refreshed"
)

// Event is delivered on the provider's subscription channel whenever the
// auth state changes. User is nil for sign-out events.
type Event struct {
	Kind EventKind
	User *User
}

// Provider is the external auth service the session manager consumes.
// Implementations wrap whatever identity backend is deployed; the session
// manager only depends on this surface.
type Provider interface {
	// GetSession returns the current user, or (nil, nil) when no session
	// exists. Errors mean the provider could not be reached.
	GetSession(ctx context.Context) (*User, error)

	// Events returns the auth-state change subscription. The channel is
	// closed when the provider shuts down.
	Events() <-chan Event

	// SignOut invalidates the remote session.
	SignOut(ctx context.Context) error
}

// TokenVerifier validates a bearer token presented on a request into the
// identity it was minted for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (User, error)
}
