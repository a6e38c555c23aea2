package lifecycle

import (
	"context"
	"errors"
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/load"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/repository"
	pkgkafka "github.com/JaserAkuly/EvolveTMS/pkg/kafka"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event names published to the load events topic.
const (
	EventLoadCreated       = "load.created"
	EventLoadStatusChanged = "load.status_changed"
)

// StatusChangedPayload is the body of a load.status_changed event.
type StatusChangedPayload struct {
	LoadID     uuid.UUID   `json:"load_id"`
	LoadNumber string      `json:"load_number"`
	From       load.Status `json:"from"`
	To         load.Status `json:"to"`
	Action     load.Action `json:"action"`
	Role       string      `json:"role"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// WorkflowStarter starts the tender-expiry workflow when a load is tendered.
// Nil-able: the service runs without an orchestrator in tests and local mode.
type WorkflowStarter interface {
	StartTenderExpiry(ctx context.Context, loadID uuid.UUID) error
}

// Service enforces the load lifecycle. Authorization is validated here, on
// the server, against the same transition table that computes available
// actions; the UI hiding a button is not the security boundary.
type Service struct {
	store     repository.LoadStore
	producer  pkgkafka.Publisher
	workflows WorkflowStarter
	log       *zap.SugaredLogger
}

func NewService(store repository.LoadStore, producer pkgkafka.Publisher, workflows WorkflowStarter, log *zap.SugaredLogger) *Service {
	return &Service{
		store:     store,
		producer:  producer,
		workflows: workflows,
		log:       log,
	}
}

// CreateLoad inserts a new load with status forced to created. Only admins
// create loads.
func (s *Service) CreateLoad(ctx context.Context, l load.Load, role profile.Role) (load.Load, error) {
	if role != profile.RoleAdmin {
		return load.Load{}, domainErr.ErrUnauthorized
	}
	l.Status = load.StatusCreated
	if err := l.Validate(); err != nil {
		return load.Load{}, err
	}

	created, err := s.store.CreateLoad(ctx, l)
	if err != nil {
		return load.Load{}, err
	}

	s.publish(created.ID, map[string]interface{}{
		"event":   EventLoadCreated,
		"payload": created,
	})
	return created, nil
}

// GetLoad fetches a single load.
func (s *Service) GetLoad(ctx context.Context, id uuid.UUID) (load.Load, error) {
	return s.store.GetLoad(ctx, id)
}

// ListLoads lists loads newest-first with optional status filter.
func (s *Service) ListLoads(ctx context.Context, filter repository.LoadFilter) ([]load.Load, error) {
	return s.store.ListLoads(ctx, filter)
}

// AvailableActions re-fetches the load and computes the actions the role may
// apply to its current status.
func (s *Service) AvailableActions(ctx context.Context, id uuid.UUID, role profile.Role) ([]load.Action, error) {
	l, err := s.store.GetLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	return load.AvailableActions(l.Status, role), nil
}

// ApplyTransition applies one lifecycle action. The current status is
// re-fetched (never trusted from the caller), the action and role are
// validated against the transition table, and the write is a compare-and-
// swap on that status: if a concurrent transition won, the caller gets
// ErrStaleStatus and must re-read. No optimistic local mutation; callers
// re-fetch after success.
func (s *Service) ApplyTransition(ctx context.Context, id uuid.UUID, action load.Action, role profile.Role) (load.Status, error) {
	l, err := s.store.GetLoad(ctx, id)
	if err != nil {
		return "", err
	}

	// Unknown action tokens are rejected before any remote write.
	next, err := load.Next(l.Status, action)
	if err != nil {
		return "", err
	}
	if err := load.Authorize(l.Status, action, role); err != nil {
		return "", err
	}

	if err := s.store.UpdateStatus(ctx, id, l.Status, next); err != nil {
		return "", err
	}

	s.log.Infow("load transitioned",
		"load_id", id, "load_number", l.LoadNumber,
		"from", l.Status, "to", next, "action", action, "role", role)

	s.publish(id, map[string]interface{}{
		"event": EventLoadStatusChanged,
		"payload": StatusChangedPayload{
			LoadID:     id,
			LoadNumber: l.LoadNumber,
			From:       l.Status,
			To:         next,
			Action:     action,
			Role:       string(role),
			OccurredAt: time.Now().UTC(),
		},
	})

	// A fresh tender opens an offer window; the workflow reverts the load
	// if no carrier books before it closes.
	if next == load.StatusTendered && s.workflows != nil {
		if err := s.workflows.StartTenderExpiry(ctx, id); err != nil {
			s.log.Warnw("failed to start tender-expiry workflow", "load_id", id, "err", err)
		}
	}

	return next, nil
}

// RevertExpiredTender moves a still-tendered load back to created. Called by
// the tender-expiry workflow when the offer window lapses. A load that moved
// on (booked, declined already) is left alone.
func (s *Service) RevertExpiredTender(ctx context.Context, id uuid.UUID) (bool, error) {
	l, err := s.store.GetLoad(ctx, id)
	if err != nil {
		return false, err
	}
	if l.Status != load.StatusTendered {
		return false, nil
	}
	if err := s.store.UpdateStatus(ctx, id, load.StatusTendered, load.StatusCreated); err != nil {
		if errors.Is(err, domainErr.ErrStaleStatus) {
			// Lost the race to a booking carrier; that is the good outcome.
			return false, nil
		}
		return false, err
	}

	s.log.Infow("tender expired, load reverted", "load_id", id, "load_number", l.LoadNumber)
	s.publish(id, map[string]interface{}{
		"event": EventLoadStatusChanged,
		"payload": StatusChangedPayload{
			LoadID:     id,
			LoadNumber: l.LoadNumber,
			From:       load.StatusTendered,
			To:         load.StatusCreated,
			Action:     load.ActionDecline,
			Role:       "system",
			OccurredAt: time.Now().UTC(),
		},
	})
	return true, nil
}

// publish fires the event without blocking the request path. Event loss on
// producer failure is tolerated; the store is the source of truth.
func (s *Service) publish(id uuid.UUID, event map[string]interface{}) {
	if s.producer == nil {
		return
	}
	go func() {
		if err := s.producer.Publish(context.Background(), id.String(), event); err != nil {
			s.log.Warnw("failed to publish load event", "load_id", id, "err", err)
		}
	}()
}
