// Package worker provides the background loop primitives used by the
// refresh scheduler: context-aware waiting and a ticker loop with an
// external trigger channel.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const logFieldWorker = "worker"

// TriggerConfig configures a loop driven by a ticker plus an on-demand
// trigger channel.
type TriggerConfig struct {
	// Name identifies the worker for logging.
	Name string

	// Interval is the ticker interval.
	Interval time.Duration

	// OnTimer is called when the ticker fires.
	OnTimer func(ctx context.Context)

	// OnTrigger is called when the trigger channel delivers.
	OnTrigger func(ctx context.Context)

	// Trigger is the on-demand channel; nil disables manual triggering.
	Trigger <-chan struct{}

	// RunOnStart runs OnTimer immediately when starting.
	RunOnStart bool

	// Logger for the worker.
	Logger *zerolog.Logger
}

// TriggerLoop runs the loop until the context is canceled. Returns a
// wrapped context error on cancellation.
func TriggerLoop(ctx context.Context, cfg TriggerConfig) error {
	logger := getLogger(cfg.Logger)
	logger.Info().Str(logFieldWorker, cfg.Name).Msg("starting trigger loop")

	defer logger.Info().Str(logFieldWorker, cfg.Name).Msg("trigger loop stopped")

	if cfg.RunOnStart && cfg.OnTimer != nil {
		cfg.OnTimer(ctx)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("trigger loop %s: %w", cfg.Name, ctx.Err())
		case <-ticker.C:
			if cfg.OnTimer != nil {
				cfg.OnTimer(ctx)
			}
		case <-cfg.Trigger:
			if cfg.OnTrigger != nil {
				cfg.OnTrigger(ctx)
			}
		}
	}
}

// Wait blocks until duration elapses or context is canceled.
// Returns a wrapped context error if context is canceled.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}

// RecoverPanic recovers from panics and logs them.
// Use as: defer worker.RecoverPanic(logger, "operation name")
func RecoverPanic(logger *zerolog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error().
			Interface("panic", r).
			Str("operation", operation).
			Msg("recovered from panic")
	}
}

func getLogger(logger *zerolog.Logger) *zerolog.Logger {
	if logger == nil {
		nop := zerolog.Nop()

		return &nop
	}

	return logger
}
