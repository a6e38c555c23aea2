package main

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/JaserAkuly/EvolveTMS/config"
	"github.com/JaserAkuly/EvolveTMS/internal/infra/postgres"
	"github.com/JaserAkuly/EvolveTMS/internal/lifecycle"
	"github.com/JaserAkuly/EvolveTMS/internal/workflow"
	pkgkafka "github.com/JaserAkuly/EvolveTMS/pkg/kafka"
)

// The worker polls the lifecycle task queue and executes tender-expiry
// workflows: sleep out the offer window, then revert the load if no carrier
// booked it.
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

	// Reverts publish status-changed events like any other transition, but
	// never start workflows of their own.
	svc := lifecycle.NewService(postgres.NewLoadStore(db), producer, nil, log)

	w := worker.New(temporalClient, workflow.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflow.TenderExpiryWorkflow)

	acts := &workflow.Activities{Lifecycle: svc}
	w.RegisterActivityWithOptions(acts.RevertExpiredTender, activity.RegisterOptions{
		Name: workflow.ActivityRevertExpiredTender,
	})

	log.Infow("worker starting", "task_queue", workflow.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalw("worker exited", "err", err)
	}
}
