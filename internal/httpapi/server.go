package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/antoniostano/voxbot/internal/bot"
	"github.com/antoniostano/voxbot/internal/observability"
	"github.com/antoniostano/voxbot/internal/telegram"
)

// Orchestrator is the entry point the webhook hands normalized events to.
type Orchestrator interface {
	HandleEvent(ctx context.Context, ev bot.Event)
}

// Server exposes the Telegram webhook plus health and metrics endpoints.
type Server struct {
	webhookPath   string
	normalizer    *telegram.Normalizer
	orchestrator  Orchestrator
	metrics       *observability.Metrics
	handleTimeout time.Duration
}

func New(webhookPath string, normalizer *telegram.Normalizer, orchestrator Orchestrator, metrics *observability.Metrics, handleTimeout time.Duration) *Server {
	if handleTimeout <= 0 {
		handleTimeout = 2 * time.Minute
	}
	return &Server{
		webhookPath:   webhookPath,
		normalizer:    normalizer,
		orchestrator:  orchestrator,
		metrics:       metrics,
		handleTimeout: handleTimeout,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})
	r.Post(s.webhookPath, s.handleWebhook)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// handleWebhook acknowledges the update immediately and processes it on
// its own goroutine, so one slow capability call never blocks delivery of
// other users' updates.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed update"})
		return
	}

	ev, ok := s.normalizer.Normalize(update)
	if ok {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.handleTimeout)
			defer cancel()
			s.orchestrator.HandleEvent(ctx, ev)
		}()
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
