package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/couchcryptid/mbti-climate-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service runs datasets and serves the latest result.
type Service interface {
	sharedobs.ReadinessChecker
	Run(ctx context.Context, in pipeline.RunInput) (*domain.Result, error)
	Latest() (*domain.Result, bool)
}

// WorldSource loads the world geometry document.
type WorldSource interface {
	World(ctx context.Context, src string) (json.RawMessage, error)
}

// Options configures the API routes.
type Options struct {
	WorldSrc       string
	MaxUploadBytes int64
}

// Server exposes the dataset API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        Service
	world      WorldSource
	opts       Options
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api/v1 routes.
func NewServer(addr string, svc Service, world WorldSource, opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		svc:    svc,
		world:  world,
		opts:   opts,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/dataset", s.handleUpload)
	mux.HandleFunc("GET /api/v1/summary", s.withResult(handleSummary))
	mux.HandleFunc("GET /api/v1/canonical", s.withResult(handleCanonical))
	mux.HandleFunc("GET /api/v1/normalized", s.withResult(handleNormalized))
	mux.HandleFunc("GET /api/v1/geo", s.withResult(handleGeo))
	mux.HandleFunc("GET /api/v1/groups", s.withResult(handleGroups))
	mux.HandleFunc("GET /api/v1/correlations", s.withResult(handleCorrelations))
	mux.HandleFunc("GET /api/v1/view", s.withResult(handleView))
	mux.HandleFunc("GET /api/v1/world", s.handleWorld)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
