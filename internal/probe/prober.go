package probe

import "context"

// Outcome classifies a single probe attempt. A 2xx response is always a
// success; the verified variant additionally means the body carried the
// expected content signature. Verification is advisory and never turns a
// success into a failure.
type Outcome string

const (
	OutcomeUnreachable Outcome = "unreachable"
	OutcomeReachable   Outcome = "reachable-unverified"
	OutcomeVerified    Outcome = "reachable-verified"
)

// Up reports whether the outcome counts as a success.
func (o Outcome) Up() bool {
	return o == OutcomeReachable || o == OutcomeVerified
}

// Result is the outcome of a single probe attempt.
//
// StatusCode is 0 for transport errors (connection refused, DNS failure,
// TLS failure); all of those fold into OutcomeUnreachable. The caller only
// decides "keep waiting or give up", so they are not distinguished further.
type Result struct {
	Outcome    Outcome `json:"outcome"`
	StatusCode int     `json:"status_code,omitempty"`
	LatencyMS  float64 `json:"latency_ms"`
	Message    string  `json:"message,omitempty"`
}

// Prober performs one bounded readiness check against a target URL.
type Prober interface {
	Probe(ctx context.Context, target string) Result
}
