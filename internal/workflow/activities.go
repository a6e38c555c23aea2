package workflow

import (
	"context"

	"github.com/google/uuid"
)

// Activities holds the side-effecting work the workflow schedules. The
// lifecycle dependency is an interface so the worker can be wired with the
// real service and tests with a fake.
type Activities struct {
	Lifecycle interface {
		RevertExpiredTender(ctx context.Context, id uuid.UUID) (bool, error)
	}
}

// RevertExpiredTender asks the lifecycle service to move a still-tendered
// load back to created. Returns whether a revert actually happened.
func (a *Activities) RevertExpiredTender(ctx context.Context, loadID uuid.UUID) (bool, error) {
	return a.Lifecycle.RevertExpiredTender(ctx, loadID)
}
