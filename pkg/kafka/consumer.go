package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler processes one fetched message. Returning an error leaves the
// offset uncommitted so the broker redelivers (at-least-once).
type Handler func(ctx context.Context, key []byte, value []byte) error

// Consumer wraps a kafka reader in a commit-on-success loop.
type Consumer struct {
	reader *kafka.Reader
	log    *zap.SugaredLogger
}

// NewConsumer creates a group consumer. The group id splits work across
// replicas instead of each replica processing every message.
func NewConsumer(brokers []string, topic, groupID string, log *zap.SugaredLogger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		}),
		log: log,
	}
}

// Start runs the consume loop until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, handler Handler) {
	c.log.Infow("kafka consumer started",
		"topic", c.reader.Config().Topic, "group", c.reader.Config().GroupID)

	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warnw("error fetching message", "err", err)
			time.Sleep(time.Second)
			continue
		}

		processCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = handler(processCtx, m.Key, m.Value)
		cancel()

		if err != nil {
			// Do not commit: the broker redelivers this message.
			c.log.Errorw("processing failed", "offset", m.Offset, "err", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.log.Errorw("failed to commit offset", "err", err)
		}
	}
}

// Close disconnects from the broker.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
