package commands

import (
	"context"
	"errors"
	"sync"
	"testing"

	"webexsheets/config"
	"webexsheets/reconcile"
	"webexsheets/roster"
)

// blockingSource blocks the first run until released, so a second trigger
// can be fired while the first is still executing.
type blockingSource struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (s *blockingSource) Rows(ctx context.Context) ([]roster.Row, error) {
	s.once.Do(func() {
		close(s.started)
		<-s.release
	})

	return nil, nil
}

func (s *blockingSource) Apply(ctx context.Context, updates []roster.Update) error {
	return nil
}

func TestTriggerRejectsOverlappingRuns(t *testing.T) {
	source := blockingSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	reconciler := reconcile.New(&source, nil, config.Defaults{}, nil)
	runner := NewRunner(reconciler, nil)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		if _, err := runner.Trigger(context.Background(), "interval"); err != nil {
			t.Errorf("unexpected error (%v)", err)
		}
	}()

	<-source.started

	if _, err := runner.Trigger(context.Background(), "manual"); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("expected ErrRunInProgress, got %v", err)
	}

	close(source.release)
	wg.Wait()

	// ... the slot is free again once the first run completes
	if _, err := runner.Trigger(context.Background(), "manual"); err != nil {
		t.Errorf("unexpected error (%v)", err)
	}
}
