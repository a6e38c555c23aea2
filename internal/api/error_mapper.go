package api

import (
	"encoding/json"
	"errors"
	"net/http"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain sentinels to HTTP status codes. Anything unmapped is
// a 500; the caller logs the real error and the client sees a generic one.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErr.ErrNoSession),
		errors.Is(err, domainErr.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, domainErr.ErrUnauthorized),
		errors.Is(err, domainErr.ErrProfileInactive):
		return http.StatusForbidden

	case errors.Is(err, domainErr.ErrLoadNotFound),
		errors.Is(err, domainErr.ErrProfileNotFound),
		errors.Is(err, domainErr.ErrInvoiceNotFound),
		errors.Is(err, domainErr.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, domainErr.ErrInvalidTransition),
		errors.Is(err, domainErr.ErrTerminalStatus),
		errors.Is(err, domainErr.ErrStaleStatus),
		errors.Is(err, domainErr.ErrDuplicateLoadNumber):
		return http.StatusConflict

	case errors.Is(err, domainErr.ErrUnknownAction),
		errors.Is(err, domainErr.ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, domainErr.ErrProviderTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError translates err for the client. Internal errors never leak their
// message; they are logged server-side instead.
func writeError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Errorw("request failed", "err", err)
		msg = domainErr.ErrInternalServerError.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
