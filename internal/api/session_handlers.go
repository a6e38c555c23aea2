package api

import (
	"net/http"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
)

// handleGetSession reports the caller's session snapshot: state, user, and
// profile. Anonymous callers get an unauthenticated snapshot, not an error.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()))
}

// handleSignOut tears the session down. Local state is always cleared; a
// failed remote invalidation is logged, not surfaced, so the client is
// signed out either way.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	token := tokenFrom(r.Context())
	if token == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := s.sessions.SignOut(r.Context(), token); err != nil {
		s.log.Warnw("remote sign-out failed, session cleared locally", "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRefreshProfile re-fetches the caller's profile row and returns the
// refreshed snapshot.
func (s *Server) handleRefreshProfile(w http.ResponseWriter, r *http.Request) {
	token := tokenFrom(r.Context())
	if token == "" {
		writeError(w, s.log, domainErr.ErrNoSession)
		return
	}
	snap, err := s.sessions.RefreshProfile(r.Context(), token)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
