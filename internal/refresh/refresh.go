// Package refresh owns the snapshot lifecycle: it schedules refresh
// attempts, runs the aggregator, decides the LIVE/STALE/ERROR outcome and
// publishes immutable snapshots for readers.
package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/comm0ns/pulseboard/internal/calendar"
	"github.com/comm0ns/pulseboard/internal/core/domain"
	"github.com/comm0ns/pulseboard/internal/platform/observability"
	"github.com/comm0ns/pulseboard/internal/platform/worker"
)

// Reason distinguishes scheduled refreshes from user-requested ones. Both
// run the same routine; only diagnostics differ.
type Reason string

const (
	ReasonTimer  Reason = "timer"
	ReasonManual Reason = "manual"
)

// ErrConfigMissing marks attempts aborted because datastore credentials
// are not set.
var ErrConfigMissing = errors.New("datastore credentials missing")

// ErrNotReady is returned by Readiness before live data has been served.
var ErrNotReady = errors.New("no successful refresh yet")

const (
	diagManualConfigMissing = "SUPABASE_URL / SUPABASE_KEY are not set."
	diagTimerConfigMissing  = "SUPABASE_URL / SUPABASE_KEY are not set; cannot reach the datastore."
)

// Builder produces a fully-formed snapshot from the sources.
type Builder interface {
	BuildSnapshot(ctx context.Context) (*domain.Snapshot, error)
}

// Lifecycle runs refresh attempts and publishes their results. Readers get
// the current snapshot through Current; they never observe a half-built
// one.
type Lifecycle struct {
	builder    Builder
	configured func() bool
	logger     *zerolog.Logger
	now        func() time.Time

	current atomic.Pointer[domain.Snapshot]

	mu           sync.Mutex
	seq          uint64
	publishedSeq uint64
	lastGood     *domain.Snapshot

	trigger chan struct{}
}

// New creates a lifecycle serving the placeholder snapshot until the first
// attempt completes. configured is consulted on every attempt.
func New(builder Builder, configured func() bool, logger *zerolog.Logger) *Lifecycle {
	l := &Lifecycle{
		builder:    builder,
		configured: configured,
		logger:     logger,
		now:        time.Now,
		trigger:    make(chan struct{}, 1),
	}
	l.current.Store(Placeholder())

	return l
}

// Placeholder is the snapshot served before any refresh attempt has
// finished. It carries seeded feed and sample entries so the presentation
// layer always has something to show.
func Placeholder() *domain.Snapshot {
	today := calendar.Today()

	return &domain.Snapshot{
		Feed: []domain.FeedEvent{
			{Type: "INFO", User: "system", Message: "Waiting for datastore..."},
		},
		Samples: []domain.MessageSample{
			{Channel: "#system", Text: "Datastore not loaded yet."},
		},
		Sprint: domain.Sprint{
			Name:      "Current Sprint",
			StartDate: calendar.ISO(today),
			EndDate:   calendar.ISO(today + 13),
			BonusCP:   20,
		},
		History: domain.EmptyHistory(),
		Status:  domain.StatusInit,
	}
}

// Current returns the published snapshot. Never nil.
func (l *Lifecycle) Current() *domain.Snapshot {
	return l.current.Load()
}

// TriggerRefresh requests a manual refresh. Returns false when one is
// already pending; a second request while the first waits is a no-op.
func (l *Lifecycle) TriggerRefresh() bool {
	select {
	case l.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Readiness reports whether live data has been served at least once.
// STALE still counts: the retained snapshot is real data.
func (l *Lifecycle) Readiness() error {
	switch l.Current().Status {
	case domain.StatusLive, domain.StatusStale:
		return nil
	default:
		return ErrNotReady
	}
}

// Run drives scheduled refreshes until the context is canceled. The first
// attempt runs immediately.
func (l *Lifecycle) Run(ctx context.Context, interval time.Duration) error {
	return worker.TriggerLoop(ctx, worker.TriggerConfig{
		Name:       "refresh",
		Interval:   interval,
		RunOnStart: true,
		OnTimer: func(ctx context.Context) {
			l.Refresh(ctx, ReasonTimer)
		},
		OnTrigger: func(ctx context.Context) {
			l.Refresh(ctx, ReasonManual)
		},
		Trigger: l.trigger,
		Logger:  l.logger,
	})
}

// Refresh runs one attempt end to end and returns the snapshot current
// after it. The returned snapshot may belong to a newer attempt when a
// concurrent one finished later; out-of-order publications are discarded.
func (l *Lifecycle) Refresh(ctx context.Context, reason Reason) *domain.Snapshot {
	defer worker.RecoverPanic(l.logger, "refresh")

	seq := l.beginAttempt()
	attemptID := uuid.NewString()
	logger := l.logger.With().Str("attempt_id", attemptID).Str("reason", string(reason)).Logger()

	if !l.configured() {
		logger.Error().Err(ErrConfigMissing).Msg("refresh aborted")
		l.publishFailure(seq, attemptID, configDiagnostic(reason))
		observability.RefreshAttempts.WithLabelValues(string(l.Current().Status)).Inc()

		return l.Current()
	}

	start := l.now()

	snap, err := l.builder.BuildSnapshot(ctx)

	observability.RefreshDuration.Observe(l.now().Sub(start).Seconds())

	if err != nil {
		logger.Error().Err(err).Msg("refresh failed")
		l.publishFailure(seq, attemptID, err.Error())
	} else {
		snap.Status = domain.StatusLive
		snap.LastRefresh = l.now()
		snap.LastError = ""
		snap.AttemptID = attemptID

		if l.publishSuccess(seq, snap) {
			logger.Info().
				Int("members", len(snap.Members)).
				Int("channels", len(snap.Channels)).
				Msg("refresh complete")
			recordSnapshotMetrics(snap)
		} else {
			logger.Info().Msg("refresh superseded, discarding result")
		}
	}

	observability.RefreshAttempts.WithLabelValues(string(l.Current().Status)).Inc()

	return l.Current()
}

func (l *Lifecycle) beginAttempt() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++

	return l.seq
}

// publishSuccess stores the snapshot unless a later-started attempt
// already published.
func (l *Lifecycle) publishSuccess(seq uint64, snap *domain.Snapshot) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if seq <= l.publishedSeq {
		return false
	}

	l.publishedSeq = seq
	snap.Seq = seq
	l.lastGood = snap
	l.current.Store(snap)

	return true
}

// publishFailure keeps the last-known-good collections under STALE, or
// publishes an empty ERROR snapshot when none exist yet.
func (l *Lifecycle) publishFailure(seq uint64, attemptID, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if seq <= l.publishedSeq {
		return
	}

	var snap *domain.Snapshot
	if l.lastGood != nil {
		copied := *l.lastGood
		copied.Status = domain.StatusStale
		snap = &copied
	} else {
		snap = Placeholder()
		snap.Status = domain.StatusError
	}

	snap.LastError = message
	snap.AttemptID = attemptID

	l.publishedSeq = seq
	snap.Seq = seq
	l.current.Store(snap)
}

func configDiagnostic(reason Reason) string {
	if reason == ReasonManual {
		return diagManualConfigMissing
	}

	return diagTimerConfigMissing
}

func recordSnapshotMetrics(snap *domain.Snapshot) {
	observability.SnapshotMembers.Set(float64(len(snap.Members)))
	observability.SnapshotChannels.Set(float64(len(snap.Channels)))
	observability.SnapshotSeq.Set(float64(snap.Seq))

	setAvailability := func(source string, ok bool) {
		v := 0.0
		if ok {
			v = 1.0
		}

		observability.SourceAvailable.WithLabelValues(source).Set(v)
	}

	setAvailability("trust", snap.Sources.TrustScores)
	setAvailability("channels", snap.Sources.Channels)
	setAvailability("messages", snap.Sources.Messages)
	setAvailability("reactions", snap.Sources.Reactions)
	setAvailability("daily_pulse", snap.Sources.DailyPulse)
	setAvailability("channel_ranking", snap.Sources.ChannelRanking)
	setAvailability("votes", snap.Sources.Votes)
	setAvailability("issues", snap.Sources.Issues)
}
