package workflow

import (
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// TaskQueue is the queue the worker binary polls.
const TaskQueue = "TMS_LIFECYCLE_QUEUE"

// ActivityRevertExpiredTender is the registered activity name.
const ActivityRevertExpiredTender = "ACTIVITY_RevertExpiredTender"

// TenderExpiryInput parameterizes one offer window.
type TenderExpiryInput struct {
	LoadID uuid.UUID
	Window time.Duration
}

// TenderExpiryWorkflow waits out the offer window for a tendered load, then
// reverts it to created if no carrier booked. The revert activity is a
// compare-and-swap, so a booking that lands while the timer fires wins and
// the revert is a no-op.
func TenderExpiryWorkflow(ctx workflow.Context, in TenderExpiryInput) (bool, error) {
	// If the database is down when the window closes, retry with backoff
	// rather than losing the expiry.
	retrypolicy := &temporal.RetryPolicy{
		InitialInterval:    time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    time.Minute,
		MaximumAttempts:    100,
	}

	options := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy:         retrypolicy,
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	if err := workflow.Sleep(ctx, in.Window); err != nil {
		return false, err
	}

	var reverted bool
	if err := workflow.ExecuteActivity(ctx, ActivityRevertExpiredTender, in.LoadID).Get(ctx, &reverted); err != nil {
		return false, err
	}
	return reverted, nil
}
