package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/JaserAkuly/EvolveTMS/config"
	"github.com/JaserAkuly/EvolveTMS/internal/notify"
	pkgkafka "github.com/JaserAkuly/EvolveTMS/pkg/kafka"
	"github.com/JaserAkuly/EvolveTMS/pkg/rabbitmq"
)

// The notifier consumes load events from kafka and fans them out to the
// per-audience rabbitmq notification queues.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := config.LoadConfig()

	rmq, err := rabbitmq.NewClient(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalw("failed to connect to rabbitmq", "err", err)
	}
	defer rmq.Close()

	bridge, err := notify.NewBridge(rmq, log)
	if err != nil {
		log.Fatalw("failed to set up notification bridge", "err", err)
	}

	consumer := pkgkafka.NewConsumer([]string{cfg.KAFKA_BROKER}, cfg.KAFKA_TOPIC, "tms-notifier", log)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.Start(ctx, bridge.Handle)
	log.Infow("notifier stopped")
}
