package railtracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/theoremus-urban-solutions/railtracker/config"
	"github.com/theoremus-urban-solutions/railtracker/estimate"
	"github.com/theoremus-urban-solutions/railtracker/sampler"
	"github.com/theoremus-urban-solutions/railtracker/session"
)

// Server exposes a session over HTTP and WebSocket.
type Server struct {
	cfg     *config.AppConfig
	session *session.Session
	push    *sampler.PushSource
	hub     *wsHub
	cache   *ResponseCache
	now     func() time.Time
	srv     *http.Server
}

// NewServer wires a session to the HTTP surface. push may be nil when the
// session is fed by another source; POST /api/position then answers 409.
func NewServer(cfg *config.AppConfig, sess *session.Session, push *sampler.PushSource) *Server {
	s := &Server{
		cfg:     cfg,
		session: sess,
		push:    push,
		hub:     newHub(),
		cache:   NewResponseCache(),
		now:     time.Now,
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	sess.Subscribe(func(m estimate.Metrics) {
		s.cache.Invalidate()
		s.hub.broadcast(NewDisplay(m))
	})
	return s
}

// Handler returns the API mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/stations", s.handleStations)
	mux.HandleFunc("/api/select", s.handleSelect)
	mux.HandleFunc("/api/metrics.json", s.handleMetrics)
	mux.HandleFunc("/api/position", s.handlePosition)
	mux.HandleFunc("/api/siri/vehicle-monitoring.json", s.handleVehicleMonitoringJSON)
	mux.HandleFunc("/api/siri/vehicle-monitoring.xml", s.handleVehicleMonitoringXML)
	mux.HandleFunc("/api/gtfsrt/vehicle-positions.pb", s.handleVehiclePositions)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return withLogging(mux)
}

// ListenAndServe blocks until Shutdown. Called after Shutdown it returns
// nil at once.
func (s *Server) ListenAndServe() error {
	log.Printf("server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully and drops WebSocket clients,
// which the HTTP server no longer tracks once hijacked.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
		return err
	}
	log.Printf("server shut down successfully")
	return nil
}

func withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		h.ServeHTTP(w, r)
	})
}
