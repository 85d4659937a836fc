package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Wait(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled error, got %v", err)
	}
}

func TestWaitZeroDurationIsImmediate(t *testing.T) {
	if err := Wait(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTriggerLoopRunsOnStartAndTrigger(t *testing.T) {
	var timerRuns, triggerRuns atomic.Int32

	trigger := make(chan struct{}, 1)
	trigger <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- TriggerLoop(ctx, TriggerConfig{
			Name:       "test",
			Interval:   time.Hour,
			RunOnStart: true,
			OnTimer: func(context.Context) {
				timerRuns.Add(1)
			},
			OnTrigger: func(context.Context) {
				triggerRuns.Add(1)
				cancel()
			},
			Trigger: trigger,
		})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected canceled error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("trigger loop did not stop")
	}

	if timerRuns.Load() != 1 {
		t.Errorf("timer runs = %d, want 1", timerRuns.Load())
	}

	if triggerRuns.Load() != 1 {
		t.Errorf("trigger runs = %d, want 1", triggerRuns.Load())
	}
}
