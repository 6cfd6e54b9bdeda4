// Package http exposes a Kitchen over a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/easybake/internal/logging"
	"github.com/aretw0/easybake/internal/metrics"
	"github.com/aretw0/easybake/internal/presentation/graph"
	"github.com/aretw0/easybake/pkg/dag"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Kitchen is the part of easybake.Kitchen the API needs.
type Kitchen interface {
	Bake(ctx context.Context) (*runner.Report, error)
	Inspect() *dag.Graph
	Ledger(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error)
}

// Server serves the API.
type Server struct {
	Kitchen Kitchen
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics records runs and ledgers and serves GET /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.Metrics = c
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the kitchen.
func NewHandler(k Kitchen, opts ...Option) http.Handler {
	s := &Server{
		Kitchen: k,
		Logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.Health)
	r.Get("/inventory", s.GetStock)
	r.Get("/inventory/{class}", s.GetLedger)
	r.Post("/runs", s.CreateRun)
	r.Get("/graph", s.GetGraph)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetStock handles GET /inventory.
func (s *Server) GetStock(w http.ResponseWriter, r *http.Request) {
	out := make(map[domain.ResourceClass]domain.Ledger, len(domain.ResourceClasses))
	for _, class := range domain.ResourceClasses {
		ledger, err := s.ledger(r.Context(), class)
		if err != nil {
			s.writeError(w, err)
			return
		}
		out[class] = ledger
	}
	writeJSON(w, http.StatusOK, out)
}

// GetLedger handles GET /inventory/{class}. Class accepts "pantry" and "cabinets" as aliases.
func (s *Server) GetLedger(w http.ResponseWriter, r *http.Request) {
	class, err := domain.ParseResourceClass(chi.URLParam(r, "class"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	ledger, err := s.ledger(r.Context(), class)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledger)
}

func (s *Server) ledger(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error) {
	ledger, err := s.Kitchen.Ledger(ctx, class)
	if err != nil {
		return nil, err
	}
	if s.Metrics != nil {
		s.Metrics.ObserveLedger(class, ledger)
	}
	return ledger, nil
}

// RunResponse is the body of POST /runs.
type RunResponse struct {
	*runner.Report
	Error string `json:"error,omitempty"`
}

// CreateRun handles POST /runs. The run executes synchronously.
// A failed run still answers 200 with its report; only a run that could not start is an error.
// The run is detached from the request's cancellation: once the ledgers are taken a client
// disconnect must not abort it halfway.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Kitchen.Bake(context.WithoutCancel(r.Context()))
	if rep == nil {
		if err == nil {
			err = errors.New("run produced no report")
		}
		s.writeError(w, err)
		return
	}

	if s.Metrics != nil {
		s.Metrics.ObserveRun(string(rep.Status), rep.Duration())
	}

	resp := RunResponse{Report: rep}
	if err != nil {
		resp.Error = err.Error()
		s.Logger.Warn("Run failed", "run_id", rep.RunID, "err", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GraphNode is the JSON view of a task.
type GraphNode struct {
	ID          domain.TaskID   `json:"id"`
	Kind        dag.Kind        `json:"kind"`
	Description string          `json:"description,omitempty"`
	Upstream    []domain.TaskID `json:"upstream,omitempty"`
	Trigger     dag.TriggerRule `json:"trigger"`
}

// GetGraph handles GET /graph. ?format=mermaid returns a Mermaid flowchart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g := s.Kitchen.Inspect()

	if r.URL.Query().Get("format") == "mermaid" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(graph.GenerateMermaid(g, nil)))
		return
	}

	nodes := make([]GraphNode, 0, g.Len())
	for _, id := range g.IDs() {
		n, _ := g.Node(id)
		nodes = append(nodes, GraphNode{
			ID:          n.ID,
			Kind:        n.Kind,
			Description: n.Description,
			Upstream:    n.Upstream,
			Trigger:     n.Trigger,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownResourceClass):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("Request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
