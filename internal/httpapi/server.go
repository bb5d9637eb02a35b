// Package httpapi is the internal ops surface: health and readiness probes,
// prometheus metrics, and a read-only view of the dialog turn log. Member
// traffic never passes through here; that is the Telegram transport's job.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakhilabs/sakhi/internal/observability"
	"github.com/sakhilabs/sakhi/internal/turnlog"
)

// Pinger reports backend reachability for the readiness probe. It is
// satisfied by *ledger.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	backend Pinger
	turns   turnlog.Store
	metrics *observability.Metrics
}

func New(backend Pinger, turns turnlog.Store, metrics *observability.Metrics) *Server {
	return &Server{
		backend: backend,
		turns:   turns,
		metrics: metrics,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})
	r.Get("/v1/turns/recent", s.handleRecentTurns)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.backend.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "backend unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleRecentTurns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be an integer in [1, 500]"})
			return
		}
		limit = n
	}

	turns, err := s.turns.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "turn log unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
