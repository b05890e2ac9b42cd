package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/lpg-dispatch/internal/adapters/metrics"
	"github.com/andrescamacho/lpg-dispatch/internal/application/common"
	"github.com/andrescamacho/lpg-dispatch/internal/infrastructure/config"
)

// Server is the HTTP control surface over the simulation. Every request
// is dispatched through the mediator so middleware (metrics, logging)
// sees the whole control traffic.
type Server struct {
	httpServer *http.Server
	mediator   common.Mediator
	limiter    *rate.Limiter
	cfg        config.ServerConfig
}

// NewServer wires the control routes.
func NewServer(cfg config.ServerConfig, mediator common.Mediator) *Server {
	s := &Server{
		mediator: mediator,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst),
		cfg:      cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/simulation/status", s.method(http.MethodGet, s.handleStatus))
	mux.HandleFunc("/simulation/start", s.method(http.MethodPost, s.handleStart))
	mux.HandleFunc("/simulation/pause", s.method(http.MethodPost, s.handlePause))
	mux.HandleFunc("/simulation/reset", s.method(http.MethodPost, s.handleReset))
	mux.HandleFunc("/simulation/speed", s.handleSpeed)
	mux.HandleFunc("/environment", s.method(http.MethodGet, s.handleEnvironment))
	mux.HandleFunc("/vehicle/breakdown", s.method(http.MethodPost, s.handleBreakdown))
	mux.HandleFunc("/vehicle/repair", s.method(http.MethodPost, s.handleRepair))
	mux.HandleFunc("/order", s.method(http.MethodPost, s.handleSubmitOrder))
	mux.HandleFunc("/health", s.handleHealth)

	if metrics.IsEnabled() {
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.rateLimit(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler exposes the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks serving the control API.
func (s *Server) ListenAndServe() error {
	log.Printf("api: control surface listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.cfg.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// method restricts a route to one HTTP method.
func (s *Server) method(allowed string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != allowed {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		next(w, r)
	}
}

// rateLimit applies the global token bucket to every route.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]interface{}{"healthy": true})
}
