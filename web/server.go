package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves /ws and /metrics.
type Server struct {
	Addr     string
	hub      *Hub
	gatherer prometheus.Gatherer
	logger   *log.Logger
	server   *http.Server
}

// NewServer constructs a Server listening on addr.
func NewServer(addr string, hub *Hub, g prometheus.Gatherer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{Addr: addr, hub: hub, gatherer: g, logger: logger}
	s.server = &http.Server{Addr: addr, Handler: s.Handler()}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.hub)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Start blocks serving HTTP until Stop is called or the listener fails.
// Once Stop has been called, Start returns immediately.
func (s *Server) Start() error {
	s.logger.Info("Web server listening", "addr", s.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down. It is safe to call from another goroutine
// before, during or after Start.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
