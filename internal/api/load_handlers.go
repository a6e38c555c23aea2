package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/load"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func roleFrom(r *http.Request) profile.Role {
	snap := sessionFrom(r.Context())
	if snap.Profile == nil {
		return profile.RoleViewer
	}
	return snap.Profile.Role
}

func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domainErr.ErrInvalidInput
	}
	return id, nil
}

func pagination(r *http.Request) (limit, offset int32) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		if v > maxPageSize {
			v = maxPageSize
		}
		limit = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = int32(v)
	}
	return limit, offset
}

func (s *Server) handleListLoads(w http.ResponseWriter, r *http.Request) {
	filter := repository.LoadFilter{}
	filter.Limit, filter.Offset = pagination(r)
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := load.ParseStatus(raw)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		filter.Status = status
	}

	loads, err := s.loads.ListLoads(r.Context(), filter)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if loads == nil {
		loads = []load.Load{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"loads": loads})
}

func (s *Server) handleCreateLoad(w http.ResponseWriter, r *http.Request) {
	var l load.Load
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, s.log, domainErr.ErrInvalidInput)
		return
	}
	// Server-owned fields; whatever the client sent is discarded.
	snap := sessionFrom(r.Context())
	l.ID = uuid.Nil
	l.CreatedBy = &snap.User.ID

	created, err := s.loads.CreateLoad(r.Context(), l, roleFrom(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetLoad(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	l, err := s.loads.GetLoad(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// handleLoadActions computes the lifecycle actions the caller's role may
// apply to the load's current status. Purely informational; the transition
// endpoint re-validates everything.
func (s *Server) handleLoadActions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	actions, err := s.loads.AvailableActions(r.Context(), id, roleFrom(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if actions == nil {
		actions = []load.Action{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"actions": actions})
}

type transitionRequest struct {
	Action string `json:"action"`
}

type transitionResponse struct {
	LoadID uuid.UUID   `json:"load_id"`
	Status load.Status `json:"status"`
}

func (s *Server) handleLoadTransition(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, domainErr.ErrInvalidInput)
		return
	}

	next, err := s.loads.ApplyTransition(r.Context(), id, load.Action(req.Action), roleFrom(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, transitionResponse{LoadID: id, Status: next})
}
