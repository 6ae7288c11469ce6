package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/angeloszaimis/keepalive/internal/pinger"
	"github.com/angeloszaimis/keepalive/internal/target"
)

const (
	// DefaultInitialDelay gives the host network time to come up.
	DefaultInitialDelay = 15 * time.Second

	// DefaultRoundInterval is the pause between the end of one round and
	// the start of the next.
	DefaultRoundInterval = time.Minute
)

var errIncomplete = errors.New("ping did not complete")

// Pinger pings a single target. Implementations must not block past the
// cancellation of ctx.
type Pinger interface {
	Ping(ctx context.Context, t target.PingTarget) pinger.Outcome
}

// RoundScheduler owns an immutable list of targets and pings them in rounds.
type RoundScheduler struct {
	targets       []target.PingTarget
	pinger        Pinger
	logger        *slog.Logger
	initialDelay  time.Duration
	roundInterval time.Duration
}

// Option configures a RoundScheduler.
type Option func(*RoundScheduler)

// WithInitialDelay overrides the grace period before the first round.
func WithInitialDelay(d time.Duration) Option {
	return func(s *RoundScheduler) {
		if d >= 0 {
			s.initialDelay = d
		}
	}
}

// WithRoundInterval overrides the delay between rounds.
func WithRoundInterval(d time.Duration) Option {
	return func(s *RoundScheduler) {
		if d >= 0 {
			s.roundInterval = d
		}
	}
}

// New creates a RoundScheduler. The target slice is copied, so later changes
// by the caller are not observed.
func New(targets []target.PingTarget, p Pinger, logger *slog.Logger, opts ...Option) *RoundScheduler {
	s := &RoundScheduler{
		targets:       append([]target.PingTarget(nil), targets...),
		pinger:        p,
		logger:        logger,
		initialDelay:  DefaultInitialDelay,
		roundInterval: DefaultRoundInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("Keep-alive scheduler configured",
		slog.Int("targets", len(s.targets)))

	return s
}

// Targets returns a copy of the scheduled targets.
func (s *RoundScheduler) Targets() []target.PingTarget {
	return append([]target.PingTarget(nil), s.targets...)
}

// Run blocks until ctx is cancelled. No ping failure stops the loop.
func (s *RoundScheduler) Run(ctx context.Context) {
	s.logger.Info("Keep-alive scheduler started, waiting for first round",
		slog.Duration("initial_delay", s.initialDelay))
	defer s.logger.Info("Keep-alive scheduler stopped")

	if !sleep(ctx, s.initialDelay) {
		return
	}

	for round := 1; ctx.Err() == nil; round++ {
		s.runRound(ctx, round)

		if !sleep(ctx, s.roundInterval) {
			return
		}
	}
}

// runRound pings every target concurrently and returns once all have resolved.
func (s *RoundScheduler) runRound(ctx context.Context, round int) {
	log := s.logger.With(
		slog.Int("round", round),
		slog.String("round_id", uuid.NewString()))
	start := time.Now()

	outcomes := make([]pinger.Outcome, len(s.targets))
	for i := range outcomes {
		outcomes[i] = pinger.Outcome{Kind: pinger.Transport, Err: errIncomplete}
	}

	var wg conc.WaitGroup
	for i, t := range s.targets {
		wg.Go(func() {
			outcomes[i] = s.pinger.Ping(ctx, t)
		})
	}

	if recovered := wg.WaitAndRecover(); recovered != nil {
		log.Error("Ping panicked",
			slog.String("panic", recovered.String()))
	}

	counts := make(map[pinger.Kind]int, 3)
	for _, out := range outcomes {
		counts[out.Kind]++
	}

	log.Debug("Round completed",
		slog.Duration("duration", time.Since(start)),
		slog.Int("targets", len(s.targets)),
		slog.Int("success", counts[pinger.Success]),
		slog.Int("failure_status", counts[pinger.FailureStatus]),
		slog.Int("exception_or_timeout", counts[pinger.Transport]))
}

// sleep waits for d or until ctx is done. It reports whether the full delay
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
