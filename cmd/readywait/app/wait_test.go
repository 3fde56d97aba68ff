package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWaitCommand_SucceedsAgainstReadyServer(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer s.Close()

	cmd := NewReadywaitCommand()
	cmd.SetArgs([]string{"wait", s.URL, "--timeout", "2s", "--interval", "100ms", "--quiet"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("wait against ready server: %v", err)
	}
}

func TestWaitCommand_FailsOnTimeout(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "starting", http.StatusServiceUnavailable)
	}))
	defer s.Close()

	cmd := NewReadywaitCommand()
	cmd.SetArgs([]string{"wait", s.URL, "--timeout", "300ms", "--interval", "100ms"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("want error when no candidate becomes ready")
	}
}

func TestWaitCommand_RejectsMissingCandidates(t *testing.T) {
	cmd := NewReadywaitCommand()
	cmd.SetArgs([]string{"wait", "--timeout", "1s"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("want config error with no candidates anywhere")
	}
}
