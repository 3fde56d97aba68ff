package domain

import "time"

type ReportID string

// WaitRequest is the wire form of one readiness-wait session, as accepted
// by the HTTP API. Durations travel as milliseconds.
type WaitRequest struct {
	Candidates     []string `json:"candidates"`
	TimeoutMS      int      `json:"timeout_ms"`
	PollIntervalMS int      `json:"poll_interval_ms,omitempty"`
	ProbeTimeoutMS int      `json:"probe_timeout_ms,omitempty"`
	Signature      string   `json:"signature,omitempty"`
}

// OutcomeTimeout is the report outcome used when no candidate became ready.
const OutcomeTimeout = "timeout"

// WaitReport records how a wait session ended. On success URL names the
// winning candidate; on timeout URL is empty, Outcome is OutcomeTimeout and
// Detail carries the itemized diagnostic.
type WaitReport struct {
	ID          ReportID  `json:"id"`
	Candidates  []string  `json:"candidates"`
	URL         string    `json:"url,omitempty"`
	Outcome     string    `json:"outcome"`
	HTTPStatus  int       `json:"http_status,omitempty"`
	LatencyMS   float64   `json:"latency_ms,omitempty"`
	ElapsedMS   float64   `json:"elapsed_ms"`
	Rounds      int       `json:"rounds"`
	Detail      string    `json:"detail,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
	FinishedAt  time.Time `json:"finished_at"`
}
