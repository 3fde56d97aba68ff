package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhook_OK(t *testing.T) {
	var got webhookPayload
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(200)
	}))
	defer ts.Close()

	wh := NewWebhook(ts.URL)
	if wh == nil {
		t.Fatal("expected webhook client")
	}
	if err := wh.Send(context.Background(), "ready", "http://127.0.0.1:3000/"); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if got.Title != "ready" || got.Text != "http://127.0.0.1:3000/" {
		t.Fatalf("payload not as expected: %+v", got)
	}
}

func TestWebhook_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	wh := NewWebhook(ts.URL)
	if err := wh.Send(context.Background(), "x", "y"); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestWebhook_EmptyURLDisabled(t *testing.T) {
	if NewWebhook("") != nil {
		t.Fatalf("empty URL must disable the webhook")
	}
}

func TestMulti_AggregatesErrors(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer good.Close()

	// nil entries are skipped; the failing notifier still surfaces
	m := Multi{nil, NewWebhook(bad.URL), NewWebhook(good.URL)}
	err := m.Send(context.Background(), "t", "x")
	if err == nil {
		t.Fatalf("expected aggregated error from failing notifier")
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error kind: %v", err)
	}
}
