package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/comm0ns/pulseboard/internal/aggregate"
	"github.com/comm0ns/pulseboard/internal/core/domain"
	"github.com/comm0ns/pulseboard/internal/platform/config"
	"github.com/comm0ns/pulseboard/internal/platform/observability"
	"github.com/comm0ns/pulseboard/internal/refresh"
	"github.com/comm0ns/pulseboard/internal/source"
)

func main() {
	mode := flag.String("mode", "dashboard", "Service mode (dashboard, once)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	querier, closeQuerier, err := newQuerier(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build source backend")
	}
	defer closeQuerier()

	aggregator := aggregate.New(querier, &logger)
	lifecycle := refresh.New(aggregator, cfg.DatastoreConfigured, &logger)

	if err := runMode(ctx, cfg, lifecycle, &logger, *mode); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// newQuerier builds the selected datastore backend. The returned cleanup
// is a no-op for backends without connection state.
func newQuerier(ctx context.Context, cfg *config.Config) (source.Querier, func(), error) {
	switch cfg.SourceBackend {
	case config.BackendPostgres:
		pg, err := source.NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres backend: %w", err)
		}

		return pg, pg.Close, nil
	case config.BackendCLI:
		return source.NewCLI(cfg.SourceCommand), func() {}, nil
	default:
		rest := source.NewREST(source.RESTConfig{
			BaseURL:           cfg.SupabaseURL,
			APIKey:            cfg.SupabaseKey,
			Timeout:           cfg.QueryTimeout,
			RequestsPerSecond: cfg.SourceRPS,
		})

		return rest, func() {}, nil
	}
}

func runMode(ctx context.Context, cfg *config.Config, lifecycle *refresh.Lifecycle, logger *zerolog.Logger, mode string) error {
	switch mode {
	case "dashboard":
		return runDashboard(ctx, cfg, lifecycle, logger)
	case "once":
		return runOnce(ctx, lifecycle)
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func runDashboard(ctx context.Context, cfg *config.Config, lifecycle *refresh.Lifecycle, logger *zerolog.Logger) error {
	health := observability.NewServer(cfg.HealthPort, lifecycle.Readiness, logger)

	go func() {
		if err := health.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("health check server error")
		}
	}()

	return lifecycle.Run(ctx, cfg.RefreshInterval)
}

// runOnce performs a single manual refresh and prints a snapshot summary
// as JSON. Exits non-zero when live data could not be loaded.
func runOnce(ctx context.Context, lifecycle *refresh.Lifecycle) error {
	snap := lifecycle.Refresh(ctx, refresh.ReasonManual)

	summary := struct {
		Status      domain.DataStatus  `json:"status"`
		LastError   string             `json:"last_error,omitempty"`
		Members     int                `json:"members"`
		Channels    int                `json:"channels"`
		Votes       int                `json:"votes"`
		Issues      int                `json:"issues"`
		FeedEntries int                `json:"feed_entries"`
		Sprint      domain.Sprint      `json:"sprint"`
		Sources     domain.SourceFlags `json:"sources"`
	}{
		Status:      snap.Status,
		LastError:   snap.LastError,
		Members:     len(snap.Members),
		Channels:    len(snap.Channels),
		Votes:       len(snap.Votes),
		Issues:      len(snap.Issues),
		FeedEntries: len(snap.Feed),
		Sprint:      snap.Sprint,
		Sources:     snap.Sources,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	if snap.Status != domain.StatusLive {
		return fmt.Errorf("refresh did not reach live: %s", snap.Status)
	}

	return nil
}
