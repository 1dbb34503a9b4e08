// Package adminhttp provides the operator-facing HTTP surface: liveness and
// connection-count endpoints served alongside the chat listener, in the
// teacher's chi-router idiom (minus the bearer-token authentication layer,
// which this server has no use for — there is no dashboard API to guard).
package adminhttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Stats is the capability the admin surface reads from; the connection
// manager satisfies it without depending on this package.
type Stats interface {
	Count() int
}

// server holds the dependencies needed by the admin HTTP handlers.
type server struct {
	stats     Stats
	startedAt time.Time
}

// NewRouter returns a configured chi.Router exposing the admin surface.
//
// Route layout:
//
//	GET /healthz  – liveness probe
//	GET /stats    – current connection count and process uptime
func NewRouter(stats Stats, startedAt time.Time) http.Handler {
	s := &server{stats: stats, startedAt: startedAt}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/stats", s.handleStats)

	return r
}

// handleHealthz responds to GET /healthz with HTTP 200 and a fixed body, so
// orchestrators can verify the process is alive without touching the chat
// listener.
func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleStats responds to GET /stats with the current live connection count
// and the number of seconds since the server started.
func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]int64{
		"connections":    int64(s.stats.Count()),
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
	})
}
