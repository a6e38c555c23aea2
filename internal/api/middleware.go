package api

import (
	"context"
	"net/http"
	"strings"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/session"
)

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyToken
)

// bearerToken pulls the token out of the Authorization header. Empty string
// when absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}

// withSession resolves the request's bearer token into a session snapshot
// and stashes it on the context. Requests without a token pass through with
// an anonymous snapshot; rejecting is requireUser's job.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		snap := session.Snapshot{State: session.StateUnauthenticated}
		if token != "" {
			var err error
			snap, err = s.sessions.Resolve(r.Context(), token)
			if err != nil {
				writeError(w, s.log, err)
				return
			}
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, snap)
		ctx = context.WithValue(ctx, ctxKeyToken, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser rejects requests that did not resolve to an authenticated
// user: 401 with no token, 401 with a token that did not verify.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := sessionFrom(r.Context())
		if snap.User == nil {
			err := domainErr.ErrNoSession
			if tokenFrom(r.Context()) != "" {
				err = domainErr.ErrInvalidToken
			}
			writeError(w, s.log, err)
			return
		}
		if snap.Profile != nil && !snap.Profile.IsActive {
			writeError(w, s.log, domainErr.ErrProfileInactive)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(ctx context.Context) session.Snapshot {
	if snap, ok := ctx.Value(ctxKeySession).(session.Snapshot); ok {
		return snap
	}
	return session.Snapshot{State: session.StateUnauthenticated}
}

func tokenFrom(ctx context.Context) string {
	if token, ok := ctx.Value(ctxKeyToken).(string); ok {
		return token
	}
	return ""
}
