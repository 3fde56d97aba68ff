package probe

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxSignatureScan bounds how much of the body is read when looking for the
// content signature.
const maxSignatureScan = 256 << 10

type HTTPProber struct {
	Client    *http.Client
	Signature string // optional case-insensitive substring expected in the body
}

// NewHTTPProber returns a prober whose requests time out after timeout.
// Keep-alives are disabled so every attempt opens and closes its own
// connection; a probed service may be mid-startup and connection reuse
// against it is not safe to assume.
func NewHTTPProber(timeout time.Duration, signature string) *HTTPProber {
	return &HTTPProber{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{DisableKeepAlives: true},
		},
		Signature: signature,
	}
}

func (p *HTTPProber) Probe(ctx context.Context, target string) Result {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{Outcome: OutcomeUnreachable, Message: err.Error()}
	}

	resp, err := p.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return Result{Outcome: OutcomeUnreachable, Message: err.Error(), LatencyMS: latency}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{
			Outcome:    OutcomeUnreachable,
			StatusCode: resp.StatusCode,
			LatencyMS:  latency,
			Message:    resp.Status,
		}
	}

	out := Result{
		Outcome:    OutcomeReachable,
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
		Message:    resp.Status,
	}
	if p.Signature != "" {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxSignatureScan))
		if strings.Contains(strings.ToLower(string(body)), strings.ToLower(p.Signature)) {
			out.Outcome = OutcomeVerified
		}
	}
	return out
}
