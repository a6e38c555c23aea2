package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JaserAkuly/EvolveTMS/internal/domain/load"
	"github.com/JaserAkuly/EvolveTMS/internal/lifecycle"
	"go.uber.org/zap"
)

// Notification queues, one per audience.
const (
	QueueCarrier = "notifications.carrier"
	QueueShipper = "notifications.shipper"
	QueueAdmin   = "notifications.admin"
)

// Queue is the subset of the rabbitmq client the bridge needs.
type Queue interface {
	CreateQueue(queueName string) error
	Publish(ctx context.Context, queueName string, body []byte) error
}

// loadEvent is the envelope the lifecycle service publishes to kafka.
type loadEvent struct {
	Event   string                         `json:"event"`
	Payload lifecycle.StatusChangedPayload `json:"payload"`
}

// Bridge consumes load events and fans notifications out to the audience
// that cares: carriers hear about fresh tenders, shippers about deliveries,
// dispatch about everything else.
type Bridge struct {
	queue Queue
	log   *zap.SugaredLogger
}

// NewBridge declares the notification queues up front so publishes cannot
// race queue creation.
func NewBridge(queue Queue, log *zap.SugaredLogger) (*Bridge, error) {
	for _, q := range []string{QueueCarrier, QueueShipper, QueueAdmin} {
		if err := queue.CreateQueue(q); err != nil {
			return nil, fmt.Errorf("failed to declare queue %s: %w", q, err)
		}
	}
	return &Bridge{queue: queue, log: log}, nil
}

// Handle is the kafka consumer handler. Returning an error leaves the
// message uncommitted so it is redelivered (the queue may have been down).
func (b *Bridge) Handle(ctx context.Context, key, value []byte) error {
	var ev loadEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		// A malformed message never becomes parseable; drop it rather
		// than redeliver forever.
		b.log.Warnw("dropping malformed load event", "key", string(key), "err", err)
		return nil
	}

	queue := routeEvent(ev)
	if err := b.queue.Publish(ctx, queue, value); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	b.log.Infow("notification forwarded", "event", ev.Event, "queue", queue, "key", string(key))
	return nil
}

func routeEvent(ev loadEvent) string {
	if ev.Event == lifecycle.EventLoadStatusChanged {
		switch ev.Payload.To {
		case load.StatusTendered:
			return QueueCarrier
		case load.StatusDelivered:
			return QueueShipper
		}
	}
	return QueueAdmin
}
