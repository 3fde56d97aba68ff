package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/readywait/internal/domain"
	"github.com/hamed0406/readywait/internal/probe"
	"github.com/hamed0406/readywait/internal/readiness"
	"github.com/hamed0406/readywait/internal/repo/memory"
)

// ---- test helpers ----

type fakeRunner struct {
	rep *readiness.Report
	err error
}

func (f *fakeRunner) Await(_ context.Context, _ readiness.Options) (*readiness.Report, error) {
	return f.rep, f.err
}

func setupServer(t *testing.T, runner WaitRunner, keys []string) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	srv := NewServer(zap.NewNop(), store, runner, nil)
	ts := httptest.NewServer(srv.Router(keys, 4))
	t.Cleanup(ts.Close)
	return ts, store
}

func postWait(t *testing.T, ts *httptest.Server, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/waits", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	return resp
}

// ---- tests ----

func TestStartWait_SuccessStoresAndReturnsReport(t *testing.T) {
	runner := &fakeRunner{rep: &readiness.Report{
		URL:        "http://127.0.0.1:3000/",
		Outcome:    probe.OutcomeVerified,
		StatusCode: 200,
		LatencyMS:  8.2,
		Elapsed:    2100 * time.Millisecond,
		Rounds:     3,
	}}
	ts, store := setupServer(t, runner, nil)

	resp := postWait(t, ts, `{"candidates":["http://127.0.0.1:3000/"],"timeout_ms":10000}`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var rep domain.WaitReport
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.URL != "http://127.0.0.1:3000/" || rep.Outcome != "reachable-verified" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Rounds != 3 || rep.ElapsedMS != 2100 {
		t.Fatalf("unexpected timing fields: %+v", rep)
	}

	recent, _ := store.Recent(context.Background(), 0)
	if len(recent) != 1 {
		t.Fatalf("want stored report, got %d", len(recent))
	}
}

func TestStartWait_TimeoutReturns504WithDetail(t *testing.T) {
	runner := &fakeRunner{err: &readiness.TimeoutError{
		Candidates: []string{"http://127.0.0.1:3000/", "http://127.0.0.1:8080/"},
		Elapsed:    5 * time.Second,
		Rounds:     5,
	}}
	ts, store := setupServer(t, runner, nil)

	resp := postWait(t, ts, `{"candidates":["http://127.0.0.1:3000/","http://127.0.0.1:8080/"],"timeout_ms":5000}`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Fatalf("want 504, got %d", resp.StatusCode)
	}

	var rep domain.WaitReport
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Outcome != domain.OutcomeTimeout {
		t.Fatalf("want timeout outcome, got %q", rep.Outcome)
	}
	if rep.Detail == "" || rep.URL != "" {
		t.Fatalf("timeout report must carry detail and no URL: %+v", rep)
	}

	recent, _ := store.Recent(context.Background(), 0)
	if len(recent) != 1 {
		t.Fatalf("timeout must be stored too, got %d", len(recent))
	}
}

func TestStartWait_ConfigErrorReturns400(t *testing.T) {
	runner := &fakeRunner{err: &readiness.ConfigError{Reason: "timeout must be positive"}}
	ts, _ := setupServer(t, runner, nil)

	resp := postWait(t, ts, `{"candidates":["http://127.0.0.1:3000/"],"timeout_ms":0}`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}

func TestStartWait_BadPayloadReturns400(t *testing.T) {
	ts, _ := setupServer(t, &fakeRunner{}, nil)
	resp := postWait(t, ts, `{not json`, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}

func TestAPI_RequiresKeyWhenConfigured(t *testing.T) {
	ts, _ := setupServer(t, &fakeRunner{err: &readiness.ConfigError{Reason: "x"}}, []string{"secret"})

	resp := postWait(t, ts, `{}`, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401 without key, got %d", resp.StatusCode)
	}

	resp = postWait(t, ts, `{}`, map[string]string{"X-API-Key": "secret"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 with key (config error), got %d", resp.StatusCode)
	}

	// healthz stays open
	hr, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	hr.Body.Close()
	if hr.StatusCode != http.StatusOK {
		t.Fatalf("healthz must not need a key, got %d", hr.StatusCode)
	}
}

func TestListWaits_ReturnsRecentFirst(t *testing.T) {
	ts, store := setupServer(t, &fakeRunner{}, nil)

	for _, u := range []string{"http://a.local/", "http://b.local/"} {
		_ = store.Append(context.Background(), &domain.WaitReport{
			Candidates: []string{u},
			URL:        u,
			Outcome:    "reachable-unverified",
		})
	}

	resp, err := http.Get(ts.URL + "/api/waits?limit=1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var got []domain.WaitReport
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].URL != "http://b.local/" {
		t.Fatalf("want newest report only, got %+v", got)
	}
}
