package readiness

import (
	"fmt"
	"strings"
	"time"
)

// ConfigError reports invalid Options. It is returned before any network
// I/O happens and is never worth retrying.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "readiness: invalid options: " + e.Reason
}

// TimeoutError means no candidate became ready before the deadline. It
// carries everything an operator needs to diagnose the failure (wrong port,
// service crashed, network blocked) without re-reading logs.
type TimeoutError struct {
	Candidates []string
	Elapsed    time.Duration
	Rounds     int

	// LastRound holds the final round's per-candidate failures, combined
	// with multierr.
	LastRound error
}

func (e *TimeoutError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no endpoint became ready within %s (%d rounds): tried %s",
		e.Elapsed.Round(time.Millisecond), e.Rounds, strings.Join(e.Candidates, ", "))
	if e.LastRound != nil {
		fmt.Fprintf(&b, "; last round: %v", e.LastRound)
	}
	return b.String()
}

func (e *TimeoutError) Unwrap() error {
	return e.LastRound
}
