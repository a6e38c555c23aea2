package repository

import (
	"context"

	"github.com/JaserAkuly/EvolveTMS/internal/domain/load"
	"github.com/google/uuid"
)

// LoadFilter narrows list queries. Zero values mean "no filter".
type LoadFilter struct {
	Status load.Status
	Limit  int32
	Offset int32
}

// LoadStore defines the storage operations the lifecycle service needs.
type LoadStore interface {
	// GetLoad retrieves a single load by id. Returns ErrLoadNotFound when
	// no row matches.
	GetLoad(ctx context.Context, id uuid.UUID) (load.Load, error)

	// ListLoads retrieves loads newest-first, filtered and paginated.
	ListLoads(ctx context.Context, filter LoadFilter) ([]load.Load, error)

	// CreateLoad inserts a new load and returns it with its assigned id.
	CreateLoad(ctx context.Context, l load.Load) (load.Load, error)

	// UpdateStatus performs a conditional single-row status update: the
	// write only lands if the row still carries expected. A miss returns
	// ErrStaleStatus so callers can re-read instead of clobbering a
	// concurrent transition.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next load.Status) error
}
