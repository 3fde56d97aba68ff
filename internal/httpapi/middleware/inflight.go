package middleware

import "net/http"

// Inflight caps the number of requests handled concurrently. A wait session
// blocks its handler for up to the session's full timeout, so the scarce
// resource here is in-flight sessions, not request rate. Requests beyond the
// cap get 429 immediately rather than queueing.
func Inflight(max int) func(http.Handler) http.Handler {
	if max < 1 {
		max = 1
	}
	sem := make(chan struct{}, max)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
				next.ServeHTTP(w, r)
			default:
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many concurrent waits"}`))
			}
		})
	}
}
