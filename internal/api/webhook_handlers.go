package api

import (
	"io"
	"net/http"
)

const maxWebhookBody = 1 << 20 // providers send small payloads

// handlePaymentWebhook receives provider payment events. Authentication is
// the provider's payload signature; a bad signature is rejected before the
// body is interpreted. Non-2xx responses make the provider redeliver.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable payload"})
		return
	}

	headers := map[string]string{
		"Stripe-Signature": r.Header.Get("Stripe-Signature"),
	}
	ev, err := s.processor.VerifyAndParse(body, headers)
	if err != nil {
		s.log.Warnw("payment webhook rejected", "provider", s.processor.Provider(), "err", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "signature verification failed"})
		return
	}

	if err := s.payments.HandleEvent(r.Context(), ev); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
