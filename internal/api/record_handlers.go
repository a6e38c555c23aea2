package api

import (
	"encoding/json"
	"net/http"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/invoice"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/party"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
)

// Reference-record endpoints: carriers, shippers, locations, invoices. Any
// authenticated user may read; only admins create.

func (s *Server) requireAdmin(r *http.Request) error {
	if roleFrom(r) != profile.RoleAdmin {
		return domainErr.ErrUnauthorized
	}
	return nil
}

func activeOnly(r *http.Request) bool {
	return r.URL.Query().Get("active_only") == "true"
}

func (s *Server) handleListCarriers(w http.ResponseWriter, r *http.Request) {
	carriers, err := s.carriers.ListCarriers(r.Context(), activeOnly(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if carriers == nil {
		carriers = []party.Carrier{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"carriers": carriers})
}

func (s *Server) handleCreateCarrier(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdmin(r); err != nil {
		writeError(w, s.log, err)
		return
	}
	var c party.Carrier
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, s.log, domainErr.ErrInvalidInput)
		return
	}
	if err := c.Validate(); err != nil {
		writeError(w, s.log, err)
		return
	}
	created, err := s.carriers.CreateCarrier(r.Context(), c)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetCarrier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	c, err := s.carriers.GetCarrier(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleListShippers(w http.ResponseWriter, r *http.Request) {
	shippers, err := s.shippers.ListShippers(r.Context(), activeOnly(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if shippers == nil {
		shippers = []party.Shipper{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"shippers": shippers})
}

func (s *Server) handleCreateShipper(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdmin(r); err != nil {
		writeError(w, s.log, err)
		return
	}
	var sh party.Shipper
	if err := json.NewDecoder(r.Body).Decode(&sh); err != nil {
		writeError(w, s.log, domainErr.ErrInvalidInput)
		return
	}
	if err := sh.Validate(); err != nil {
		writeError(w, s.log, err)
		return
	}
	created, err := s.shippers.CreateShipper(r.Context(), sh)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetShipper(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	sh, err := s.shippers.GetShipper(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.locations.ListLocations(r.Context())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if locations == nil {
		locations = []party.Location{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"locations": locations})
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdmin(r); err != nil {
		writeError(w, s.log, err)
		return
	}
	var l party.Location
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, s.log, domainErr.ErrInvalidInput)
		return
	}
	if err := l.Validate(); err != nil {
		writeError(w, s.log, err)
		return
	}
	created, err := s.locations.CreateLocation(r.Context(), l)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	l, err := s.locations.GetLocation(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	var status invoice.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := invoice.ParseStatus(raw)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		status = parsed
	}
	invoices, err := s.invoices.ListInvoices(r.Context(), status)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if invoices == nil {
		invoices = []invoice.Invoice{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invoices": invoices})
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdmin(r); err != nil {
		writeError(w, s.log, err)
		return
	}
	var inv invoice.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		writeError(w, s.log, domainErr.ErrInvalidInput)
		return
	}
	if inv.Status == "" {
		inv.Status = invoice.StatusPending
	}
	if err := inv.Validate(); err != nil {
		writeError(w, s.log, err)
		return
	}
	created, err := s.invoices.CreateInvoice(r.Context(), inv)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	inv, err := s.invoices.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}
