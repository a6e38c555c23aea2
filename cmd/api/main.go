package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JaserAkuly/EvolveTMS/config"
	"github.com/JaserAkuly/EvolveTMS/internal/api"
	"github.com/JaserAkuly/EvolveTMS/internal/infra/authhttp"
	"github.com/JaserAkuly/EvolveTMS/internal/infra/authjwt"
	"github.com/JaserAkuly/EvolveTMS/internal/infra/postgres"
	"github.com/JaserAkuly/EvolveTMS/internal/lifecycle"
	"github.com/JaserAkuly/EvolveTMS/internal/payment"
	stripeproc "github.com/JaserAkuly/EvolveTMS/internal/payment/stripe"
	"github.com/JaserAkuly/EvolveTMS/internal/session"
	"github.com/JaserAkuly/EvolveTMS/internal/workflow"
	pkgkafka "github.com/JaserAkuly/EvolveTMS/pkg/kafka"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := config.LoadConfig()

	db, err := postgres.Open(cfg.GetDBURL())
	if err != nil {
		log.Fatalw("failed to connect to postgres", "err", err)
	}
	defer db.Close()

	producer := pkgkafka.NewProducer(cfg.KAFKA_BROKER, cfg.KAFKA_TOPIC)
	defer producer.Close()

	temporalClient, err := client.Dial(client.Options{HostPort: cfg.TEMPORAL_HOSTPORT})
	if err != nil {
		log.Fatalw("failed to connect to temporal", "err", err)
	}
	defer temporalClient.Close()

	verifier := authjwt.NewVerifier([]byte(cfg.JWT_SECRET), cfg.JWT_ISSUER)
	regOpts := []session.RegistryOption{}
	if cfg.AUTH_BASE_URL != "" {
		regOpts = append(regOpts, session.WithRemoteSignOut(func(ctx context.Context, token string) error {
			return authhttp.NewProvider(cfg.AUTH_BASE_URL, cfg.AUTH_API_KEY, token).SignOut(ctx)
		}))
	}
	sessions := session.NewRegistry(verifier, postgres.NewProfileStore(db), log, regOpts...)
	defer sessions.Close()

	loads := lifecycle.NewService(
		postgres.NewLoadStore(db),
		producer,
		workflow.NewStarter(temporalClient, cfg.TENDER_WINDOW),
		log,
	)
	invoices := postgres.NewInvoiceStore(db)

	srv := api.NewServer(api.Deps{
		Sessions:  sessions,
		Loads:     loads,
		Carriers:  postgres.NewCarrierStore(db),
		Shippers:  postgres.NewShipperStore(db),
		Locations: postgres.NewLocationStore(db),
		Invoices:  invoices,
		Payments:  payment.NewService(invoices, log),
		Processor: stripeproc.New(cfg.STRIPE_WEBHOOK_SECRET),
		Log:       log,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTP_ADDR,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		log.Infow("api server listening", "addr", cfg.HTTP_ADDR)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case sig := <-shutdown:
			log.Infow("shutting down", "signal", sig.String())
		case <-ctx.Done():
			return ctx.Err()
		}
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalw("server exited", "err", err)
	}
}
