package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/JaserAkuly/EvolveTMS/internal/lifecycle"
	"github.com/JaserAkuly/EvolveTMS/internal/payment"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/repository"
	"github.com/JaserAkuly/EvolveTMS/internal/session"
)

// Deps is everything the HTTP surface needs wired in.
type Deps struct {
	Sessions  *session.Registry
	Loads     *lifecycle.Service
	Carriers  repository.CarrierStore
	Shippers  repository.ShipperStore
	Locations repository.LocationStore
	Invoices  repository.InvoiceStore
	Payments  *payment.Service
	Processor payment.Processor
	Log       *zap.SugaredLogger
}

// Server is the REST transport over the session and lifecycle services. It
// holds no business rules: authorization and transition validity live in the
// services, which re-check them on every call.
type Server struct {
	sessions  *session.Registry
	loads     *lifecycle.Service
	carriers  repository.CarrierStore
	shippers  repository.ShipperStore
	locations repository.LocationStore
	invoices  repository.InvoiceStore
	payments  *payment.Service
	processor payment.Processor
	log       *zap.SugaredLogger
}

func NewServer(d Deps) *Server {
	return &Server{
		sessions:  d.Sessions,
		loads:     d.Loads,
		carriers:  d.Carriers,
		shippers:  d.Shippers,
		locations: d.Locations,
		invoices:  d.Invoices,
		payments:  d.Payments,
		processor: d.Processor,
		log:       d.Log,
	}
}

// Router builds the chi mux. Webhooks sit outside the session middleware;
// they authenticate with provider signatures, not bearer tokens.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/webhooks/payment", s.handlePaymentWebhook)

		r.Group(func(r chi.Router) {
			r.Use(s.withSession)

			r.Get("/session", s.handleGetSession)
			r.Post("/session/signout", s.handleSignOut)
			r.Post("/session/refresh", s.handleRefreshProfile)

			r.Group(func(r chi.Router) {
				r.Use(s.requireUser)

				r.Route("/loads", func(r chi.Router) {
					r.Get("/", s.handleListLoads)
					r.Post("/", s.handleCreateLoad)
					r.Get("/{id}", s.handleGetLoad)
					r.Get("/{id}/actions", s.handleLoadActions)
					r.Post("/{id}/transitions", s.handleLoadTransition)
				})

				r.Route("/carriers", func(r chi.Router) {
					r.Get("/", s.handleListCarriers)
					r.Post("/", s.handleCreateCarrier)
					r.Get("/{id}", s.handleGetCarrier)
				})
				r.Route("/shippers", func(r chi.Router) {
					r.Get("/", s.handleListShippers)
					r.Post("/", s.handleCreateShipper)
					r.Get("/{id}", s.handleGetShipper)
				})
				r.Route("/locations", func(r chi.Router) {
					r.Get("/", s.handleListLocations)
					r.Post("/", s.handleCreateLocation)
					r.Get("/{id}", s.handleGetLocation)
				})
				r.Route("/invoices", func(r chi.Router) {
					r.Get("/", s.handleListInvoices)
					r.Post("/", s.handleCreateInvoice)
					r.Get("/{id}", s.handleGetInvoice)
				})
			})
		})
	})
	return r
}
