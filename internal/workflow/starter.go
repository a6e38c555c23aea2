package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
)

// Starter launches tender-expiry workflows. It implements
// lifecycle.WorkflowStarter.
type Starter struct {
	client client.Client
	window time.Duration
}

func NewStarter(c client.Client, window time.Duration) *Starter {
	return &Starter{client: c, window: window}
}

// StartTenderExpiry kicks off one offer-window workflow for the load. The
// workflow id is derived from the load id so a re-tendered load replaces its
// previous timer instead of stacking a second one.
func (s *Starter) StartTenderExpiry(ctx context.Context, loadID uuid.UUID) error {
	opts := client.StartWorkflowOptions{
		ID:        "tender-expiry-" + loadID.String(),
		TaskQueue: TaskQueue,
	}
	_, err := s.client.ExecuteWorkflow(ctx, opts, TenderExpiryWorkflow, TenderExpiryInput{
		LoadID: loadID,
		Window: s.window,
	})
	if err != nil {
		return fmt.Errorf("failed to start tender-expiry workflow: %w", err)
	}
	return nil
}
