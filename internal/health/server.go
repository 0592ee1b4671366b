// Package health provides the HTTP server that exposes health checks,
// metrics and the scoring API.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Built-in routes served by every Server
const (
	HealthPath = "/health"
	ReadyPath  = "/ready"
	LivePath   = "/live"
)

const (
	defaultPort     = 8080
	checkTimeout    = 3 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Check reports whether a dependency is healthy.
type Check func(ctx context.Context) error

// HealthResponse is the body of /health and /live.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Uptime    string `json:"uptime,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse is the body of /ready.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Config holds the configuration for the server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        int
	Logger      *logrus.Logger
	// Checks run on every /ready request
	Checks map[string]Check
	// Handlers are mounted by ServeMux pattern, e.g. "/metrics"
	Handlers map[string]http.Handler
}

// Server serves the built-in probes plus any mounted handlers.
type Server struct {
	cfg     Config
	started time.Time
	ready   atomic.Bool

	mu     sync.Mutex
	server *http.Server
}

// NewServer creates a new server. It does not listen until Start.
func NewServer(cfg Config) *Server {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Server{cfg: cfg, started: time.Now()}
}

// BuiltinPaths lists the routes a mounted handler cannot take over
func BuiltinPaths() []string {
	return []string{HealthPath, ReadyPath, LivePath}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Handler returns the routed handler without starting a listener. Mounted
// handlers whose path shadows a built-in route are skipped.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+HealthPath, s.handleHealth)
	mux.HandleFunc("GET "+ReadyPath, s.handleReady)
	mux.HandleFunc("GET "+LivePath, s.handleLive)

	patterns := make([]string, 0, len(s.cfg.Handlers))
	for pattern := range s.cfg.Handlers {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	for _, pattern := range patterns {
		if isBuiltin(pattern) {
			s.cfg.Logger.WithField("pattern", pattern).Warn("Skipping handler that shadows a built-in route")
			continue
		}
		mux.Handle(pattern, s.cfg.Handlers[pattern])
	}
	return mux
}

// isBuiltin reports whether a ServeMux pattern, with or without a method
// prefix, names one of the probe routes
func isBuiltin(pattern string) bool {
	path := pattern
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		path = strings.TrimSpace(pattern[i+1:])
	}
	path = strings.TrimRight(path, "/")
	for _, builtin := range BuiltinPaths() {
		if path == builtin {
			return true
		}
	}
	return false
}

// Start binds the port and serves in the background until ctx ends.
// A bind failure is returned to the caller.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.cfg.Port, err)
	}

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.cfg.Logger.WithFields(logrus.Fields{
		"port":    s.cfg.Port,
		"service": s.cfg.ServiceName,
	}).Info("HTTP server starting")

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.cfg.Logger.WithError(err).Error("HTTP server error")
		}
	}()
	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()
	return nil
}

// Shutdown drains in-flight requests. It is safe to call more than once.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.cfg.Logger.Info("HTTP server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.cfg.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Version:   s.cfg.Version,
		Commit:    s.cfg.Commit,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: s.cfg.ServiceName})
}

// handleReady runs every check concurrently under a shared deadline
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	results := s.runChecks(r.Context())

	ready := s.IsReady()
	if ready {
		results["service"] = "ok"
	} else {
		results["service"] = "not_ready"
	}
	for _, status := range results {
		if status != "ok" {
			ready = false
		}
	}

	response := ReadyResponse{
		Status:   "ok",
		Service:  s.cfg.ServiceName,
		Checks:   results,
		Duration: time.Since(start).String(),
	}
	code := http.StatusOK
	if !ready {
		response.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

func (s *Server) runChecks(parent context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(parent, checkTimeout)
	defer cancel()

	var mu sync.Mutex
	results := make(map[string]string, len(s.cfg.Checks)+1)
	var g errgroup.Group
	for name, check := range s.cfg.Checks {
		g.Go(func() error {
			status := "ok"
			if err := check(ctx); err != nil {
				status = fmt.Sprintf("error: %v", err)
			}
			mu.Lock()
			results[name] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
