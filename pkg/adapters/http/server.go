// Package http exposes visitor sessions over HTTP: navigation, inspection, the cycle
// journal, a per-session event stream, metrics and health endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/threshold/internal/logging"
	"github.com/aretw0/threshold/pkg/adapters/pages"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
	"github.com/aretw0/threshold/pkg/runner"
	"github.com/aretw0/threshold/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/heptiolabs/healthcheck"
)

// Pinger is implemented by journals that can report their backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config wires the handler to its collaborators.
type Config struct {
	Sessions *session.Manager
	Pages    ports.PageSource
	// Journal is optional; without it GET /journal answers 404.
	Journal ports.Journal
	// Metrics is mounted on GET /metrics when set.
	Metrics http.Handler
	Version string
	Logger  *slog.Logger
}

// Server implements the HTTP routes.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	Streams *StreamManager
}

// NavigateRequest is the body of POST /sessions/{id}/navigate.
// When HTML is set the page is parsed from it; otherwise the namespace is resolved
// through the page source.
type NavigateRequest struct {
	Namespace string `json:"namespace"`
	URL       string `json:"url,omitempty"`
	HTML      string `json:"html,omitempty"`
}

// NavigateResponse is returned after a cycle.
type NavigateResponse struct {
	Report   *domain.CycleReport `json:"report"`
	Snapshot domain.Snapshot     `json:"snapshot"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler.
func NewHandler(cfg Config) http.Handler {
	s := &Server{
		cfg:     cfg,
		logger:  cfg.Logger,
		Streams: NewStreamManager(),
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(10000))
	if p, ok := cfg.Journal.(Pinger); ok {
		health.AddReadinessCheck("journal", healthcheck.Timeout(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return p.Ping(ctx)
		}, 3*time.Second))
	}

	r := chi.NewRouter()
	r.Get("/live", health.LiveEndpoint)
	r.Get("/ready", health.ReadyEndpoint)
	r.Get("/health", health.ReadyEndpoint)
	r.Get("/info", s.GetInfo)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	r.Get("/journal", s.GetJournal)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/navigate", s.Navigate)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Navigate handles POST /sessions/{id}/navigate.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body NavigateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<20)).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	ns, err := runner.SanitizeInput(body.Namespace)
	if err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid namespace: %w", err))
		return
	}

	page, err := pages.Resolve(r.Context(), s.cfg.Pages, ns, body.URL, body.HTML)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}

	// A started cycle runs to completion even if the client goes away.
	report, err := s.cfg.Sessions.Navigate(context.WithoutCancel(r.Context()), id, domain.NavigationEvent{Next: page})
	if err != nil {
		s.logger.Warn("navigation rejected", "session_id", id, "err", err)
		s.fail(w, statusFor(err), err)
		return
	}
	snap, _ := s.cfg.Sessions.Snapshot(id)

	if payload, err := json.Marshal(report); err == nil {
		s.Streams.Broadcast(id, string(payload))
	}
	writeJSON(w, http.StatusOK, NavigateResponse{Report: report, Snapshot: snap})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.cfg.Sessions.List()})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cfg.Sessions.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /sessions/{id}: the session is closed and its cleanups drained.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := s.cfg.Sessions.Delete(context.WithoutCancel(r.Context()), id)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	if payload, err := json.Marshal(report); err == nil {
		s.Streams.Broadcast(id, string(payload))
	}
	s.Streams.Close(id)
	writeJSON(w, http.StatusOK, report)
}

// GetJournal handles GET /journal?limit=n.
func (s *Server) GetJournal(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Journal == nil {
		s.fail(w, http.StatusNotFound, errors.New("journal is disabled"))
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}
	reports, err := s.cfg.Journal.List(r.Context(), limit)
	if err != nil {
		s.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	if reports == nil {
		reports = []domain.CycleReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":      "threshold-http",
		"version":  s.cfg.Version,
		"sessions": s.cfg.Sessions.Len(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoDestination):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrPageNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCycleInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrClosed):
		return http.StatusGone
	case errors.Is(err, session.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.logger.Error("request failed", "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
