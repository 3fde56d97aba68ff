package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/readywait/internal/domain"
	apimw "github.com/hamed0406/readywait/internal/httpapi/middleware"
	"github.com/hamed0406/readywait/internal/notify"
	"github.com/hamed0406/readywait/internal/readiness"
	"github.com/hamed0406/readywait/internal/repo"
)

// WaitRunner runs one readiness-wait session. Satisfied by
// *readiness.Awaiter; tests substitute fakes.
type WaitRunner interface {
	Await(ctx context.Context, opts readiness.Options) (*readiness.Report, error)
}

type Server struct {
	Logger   *zap.Logger
	Reports  repo.ReportStore
	Runner   WaitRunner
	Notifier notify.Notifier // optional
}

func NewServer(l *zap.Logger, rs repo.ReportStore, runner WaitRunner, n notify.Notifier) *Server {
	return &Server{Logger: l, Reports: rs, Runner: runner, Notifier: n}
}

func (s *Server) Router(apiKeys []string, maxInflight int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RequireKey(apiKeys))
		r.Get("/waits", s.handleListWaits)
		r.With(apimw.Inflight(maxInflight)).Post("/waits", s.handleStartWait)
	})

	return r
}

func (s *Server) handleStartWait(w http.ResponseWriter, r *http.Request) {
	var p domain.WaitRequest
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	opts := readiness.Options{
		Candidates:   p.Candidates,
		Timeout:      time.Duration(p.TimeoutMS) * time.Millisecond,
		PollInterval: time.Duration(p.PollIntervalMS) * time.Millisecond,
		ProbeTimeout: time.Duration(p.ProbeTimeoutMS) * time.Millisecond,
		Signature:    p.Signature,
	}

	requestedAt := time.Now().UTC()
	rep, err := s.Runner.Await(r.Context(), opts)
	finishedAt := time.Now().UTC()

	report := &domain.WaitReport{
		Candidates:  p.Candidates,
		RequestedAt: requestedAt,
		FinishedAt:  finishedAt,
	}

	var ce *readiness.ConfigError
	var te *readiness.TimeoutError

	switch {
	case err == nil:
		report.URL = rep.URL
		report.Outcome = string(rep.Outcome)
		report.HTTPStatus = rep.StatusCode
		report.LatencyMS = rep.LatencyMS
		report.ElapsedMS = float64(rep.Elapsed) / float64(time.Millisecond)
		report.Rounds = rep.Rounds
		_ = s.Reports.Append(r.Context(), report)
		s.Logger.Info("wait_ready",
			zap.String("url", rep.URL),
			zap.String("outcome", string(rep.Outcome)),
			zap.Int("rounds", rep.Rounds),
			zap.Duration("elapsed", rep.Elapsed),
		)
		s.announce("service ready", rep.URL)
		writeJSON(w, http.StatusOK, report)

	case errors.As(err, &ce):
		s.Logger.Warn("wait_bad_request", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})

	case errors.As(err, &te):
		report.Outcome = domain.OutcomeTimeout
		report.ElapsedMS = float64(te.Elapsed) / float64(time.Millisecond)
		report.Rounds = te.Rounds
		report.Detail = te.Error()
		_ = s.Reports.Append(r.Context(), report)
		s.Logger.Warn("wait_timeout",
			zap.Strings("candidates", te.Candidates),
			zap.Int("rounds", te.Rounds),
			zap.Duration("elapsed", te.Elapsed),
		)
		s.announce("service not ready", te.Error())
		writeJSON(w, http.StatusGatewayTimeout, report)

	default:
		// context cancellation or similar; the client likely went away
		s.Logger.Warn("wait_aborted", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (s *Server) handleListWaits(w http.ResponseWriter, r *http.Request) {
	n := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			n = parsed
		}
	}
	reports, err := s.Reports.Recent(r.Context(), n)
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// announce fires the optional notifier; the wait verdict never depends on it.
func (s *Server) announce(title, text string) {
	if s.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Notifier.Send(ctx, title, text); err != nil {
		s.Logger.Warn("notify_failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
