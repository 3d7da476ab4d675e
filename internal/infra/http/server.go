package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"stock-lookup-bot/internal/infra/logging"
	"stock-lookup-bot/internal/infra/metrics"
)

// HealthChecker reports whether the document store answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Server is the admin HTTP surface: /health and /metrics.
type Server struct {
	port     int
	store    HealthChecker
	gatherer prometheus.Gatherer
	log      *zerolog.Logger
	server   *http.Server
}

func NewServer(port int, store HealthChecker, gatherer prometheus.Gatherer, logger *zerolog.Logger) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{port: port, store: store, gatherer: gatherer, log: logger}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestContext(s.log), middleware.Recoverer, middleware.Timeout(5*time.Second))
	r.Get("/health", s.handleHealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// Start blocks serving until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info().Int("port", s.port).Msg("admin HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Store: "up"}
	code := http.StatusOK
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			logging.With(r.Context(), s.log).Warn().Err(err).Msg("health check: store unreachable")
			resp = healthResponse{Status: "degraded", Store: "down"}
			code = http.StatusServiceUnavailable
		}
	}
	metrics.SetStoreUp(code == http.StatusOK)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
