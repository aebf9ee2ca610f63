package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/outreach/internal/tracking"
)

// Server wraps the HTTP server for the public API.
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer creates the API server. trk may be nil when tracking runs
// as its own process.
func NewServer(h *Handlers, trk *tracking.Handler) *Server {
	return &Server{handler: SetupRoutes(h, trk)}
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// Sequential dispatch holds the request open for the whole
		// batch, so the write timeout must cover a full day's quota of
		// paced sends.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
