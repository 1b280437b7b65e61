package commands

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"webexsheets/reconcile"
)

// ErrRunInProgress is returned when a trigger arrives while a run is
// already executing. Overlapping triggers are rejected rather than queued -
// the next scheduled run picks up whatever the rejected trigger would have.
var ErrRunInProgress = errors.New("a scheduling run is already in progress")

// Runner serialises reconciliation runs. At most one run executes at a
// time, regardless of how many triggers fire.
type Runner struct {
	reconciler *reconcile.Reconciler
	notifier   reconcile.Notifier

	slot *semaphore.Weighted
}

func NewRunner(reconciler *reconcile.Reconciler, notifier reconcile.Notifier) *Runner {
	return &Runner{
		reconciler: reconciler,
		notifier:   notifier,

		slot: semaphore.NewWeighted(1),
	}
}

// Trigger executes a reconciliation run, rejecting the trigger with
// ErrRunInProgress if one is already executing.
func (r *Runner) Trigger(ctx context.Context, trigger string) (*reconcile.Summary, error) {
	if !r.slot.TryAcquire(1) {
		warnf("%v trigger rejected - %v", trigger, ErrRunInProgress)
		return nil, ErrRunInProgress
	}

	defer r.slot.Release(1)

	runID := uuid.New().String()

	infof("run %v started (trigger: %v)", runID, trigger)

	start := time.Now()
	summary, err := r.reconciler.Run(ctx, runID)

	if summary != nil {
		infof("run %v %v", runID, summary)

		if r.notifier != nil {
			r.notifier.Report(ctx, summary)
		}
	}

	if err != nil {
		errorf("run %v failed after %v (%v)", runID, time.Since(start).Round(time.Millisecond), err)
		return summary, err
	}

	return summary, nil
}
