package readiness

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/readywait/internal/probe"
)

const (
	DefaultPollInterval = 1 * time.Second
	DefaultProbeTimeout = 3 * time.Second
)

// Options configures one Await call. All knobs live here rather than in
// process-global state so every session is self-contained.
type Options struct {
	// Candidates are probed in this order; within a round the first 2xx
	// wins and the rest of the round is skipped.
	Candidates []string

	// Timeout is the total deadline for the session. Must be positive.
	Timeout time.Duration

	// PollInterval is the cadence between rounds. Defaults to 1s.
	PollInterval time.Duration

	// ProbeTimeout bounds each individual GET. Defaults to 3s and is kept
	// below PollInterval so one hung probe cannot eat more than a round.
	ProbeTimeout time.Duration

	// Signature, when set, is a case-insensitive substring expected in the
	// winning response body. Advisory only: a mismatch still succeeds, as
	// reachable-unverified.
	Signature string
}

func (o Options) validate() error {
	if len(o.Candidates) == 0 {
		return &ConfigError{Reason: "no candidate URLs"}
	}
	for _, c := range o.Candidates {
		u, err := url.Parse(c)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &ConfigError{Reason: fmt.Sprintf("candidate %q is not an http(s) URL", c)}
		}
	}
	if o.Timeout <= 0 {
		return &ConfigError{Reason: "timeout must be positive"}
	}
	if o.PollInterval < 0 {
		return &ConfigError{Reason: "poll interval must not be negative"}
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.PollInterval == 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = DefaultProbeTimeout
	}
	if o.ProbeTimeout >= o.PollInterval {
		o.ProbeTimeout = o.PollInterval * 4 / 5
	}
	return o
}

// Report is the successful result of an Await session.
type Report struct {
	URL        string
	Outcome    probe.Outcome
	StatusCode int
	LatencyMS  float64
	Elapsed    time.Duration
	Rounds     int
}

// Awaiter polls a set of candidate endpoints until one answers or a
// deadline elapses. It holds no state across sessions.
type Awaiter struct {
	logger *zap.Logger

	// Prober overrides the per-session HTTP prober; tests use this.
	Prober probe.Prober
}

func New(logger *zap.Logger) *Awaiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Awaiter{logger: logger}
}

// Await probes opts.Candidates in priority order each round until one
// responds 2xx or opts.Timeout elapses. Same-round ties go to the earlier
// candidate in the list, never to the first to respond.
//
// Returns *ConfigError (before any I/O) on invalid options, *TimeoutError
// when the deadline passes with no success, or ctx.Err() when cancelled.
func (a *Awaiter) Await(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	o := opts.withDefaults()

	prober := a.Prober
	if prober == nil {
		prober = probe.NewHTTPProber(o.ProbeTimeout, o.Signature)
	}

	start := time.Now()
	deadline := start.Add(o.Timeout)
	rounds := 0
	var lastRound error

	for {
		rounds++
		roundStart := time.Now()
		lastRound = nil

		for _, target := range o.Candidates {
			res := prober.Probe(ctx, target)
			if res.Outcome.Up() {
				elapsed := time.Since(start)
				a.logger.Info("endpoint_ready",
					zap.String("url", target),
					zap.String("outcome", string(res.Outcome)),
					zap.Int("status", res.StatusCode),
					zap.Int("rounds", rounds),
					zap.Duration("elapsed", elapsed),
				)
				return &Report{
					URL:        target,
					Outcome:    res.Outcome,
					StatusCode: res.StatusCode,
					LatencyMS:  res.LatencyMS,
					Elapsed:    elapsed,
					Rounds:     rounds,
				}, nil
			}
			lastRound = multierr.Append(lastRound, fmt.Errorf("%s: %s", target, res.Message))
			a.logger.Debug("endpoint_not_ready",
				zap.String("url", target),
				zap.Int("status", res.StatusCode),
				zap.String("reason", res.Message),
				zap.Int("round", rounds),
			)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}

		// Next tick is measured from the round start so the cadence does not
		// drift by however long the probes themselves took. Never sleep past
		// the deadline.
		next := roundStart.Add(o.PollInterval)
		if deadline.Before(next) {
			next = deadline
		}
		if wait := time.Until(next); wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}

		if !time.Now().Before(deadline) {
			elapsed := time.Since(start)
			a.logger.Warn("await_timeout",
				zap.Strings("candidates", o.Candidates),
				zap.Int("rounds", rounds),
				zap.Duration("elapsed", elapsed),
			)
			return nil, &TimeoutError{
				Candidates: o.Candidates,
				Elapsed:    elapsed,
				Rounds:     rounds,
				LastRound:  lastRound,
			}
		}
	}
}
