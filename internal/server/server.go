// Package server is the claimlens HTTP gateway: upload, status and export
// endpoints over the shared document registry and processing queue.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/claimlens/claimlens/internal/api"
	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/extract"
	"github.com/claimlens/claimlens/internal/extractor"
	"github.com/claimlens/claimlens/internal/home"
	"github.com/claimlens/claimlens/internal/queue"
	"github.com/claimlens/claimlens/internal/registry"
	"github.com/claimlens/claimlens/internal/server/endpoints"
	"github.com/claimlens/claimlens/internal/svcctx"
)

// Server is the main claimlens HTTP server. When the extractor container is
// managed, the server owns its lifecycle: started before listening, stopped
// on shutdown.
type Server struct {
	httpServer       *http.Server
	extractorManager *extractor.DockerManager
	extractClient    *extract.Client
	store            *registry.Store
	processor        *queue.Processor
	configMgr        *config.Manager
	homeDir          *home.Dir
	logger           *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// BackendURL is the extraction service base URL. When the extractor is
	// managed this is derived from the container manager instead.
	BackendURL string
	// ManageExtractor runs the extraction backend as a Docker container
	// owned by this server.
	ManageExtractor bool
	// ExtractorConfig holds extractor container settings.
	ExtractorConfig extractor.DockerConfig
	// Simulate enables the scripted stage narrative for uploads.
	Simulate bool
	// ConfigManager provides configuration with hot-reload support.
	ConfigManager *config.Manager
	// Home is the claimlens home directory.
	Home *home.Dir
	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		store:     registry.New(),
		configMgr: cfg.ConfigManager,
		homeDir:   cfg.Home,
		logger:    cfg.Logger,
	}

	backendURL := cfg.BackendURL
	if cfg.ManageExtractor {
		mgr, err := extractor.NewDockerManager(cfg.ExtractorConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create extractor manager: %w", err)
		}
		s.extractorManager = mgr
		backendURL = mgr.URL()
	}

	s.extractClient = extract.NewClient(backendURL, cfg.Logger)
	s.processor = queue.New(queue.Config{
		Store:    s.store,
		Client:   s.extractClient,
		Logger:   cfg.Logger,
		Simulate: cfg.Simulate,
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{ExtractorManager: s.extractorManager}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:     s.withServices(mux),
		ReadTimeout: 30 * time.Second,
		// No write timeout: the upload endpoint holds the connection only
		// briefly, but export downloads of large merges shouldn't be cut off.
		IdleTimeout: 120 * time.Second,
	}

	return s, nil
}

// Start starts the server (and the managed extractor container, if any).
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.extractorManager != nil {
		if err := s.extractorManager.ValidateExisting(ctx); err != nil {
			s.setNotRunning()
			return fmt.Errorf("existing extractor container incompatible: %w", err)
		}

		s.logger.Info("starting extraction backend")
		if err := s.extractorManager.Start(ctx); err != nil {
			s.setNotRunning()
			return fmt.Errorf("failed to start extraction backend: %w", err)
		}
		s.logger.Info("extraction backend is ready", "url", s.extractorManager.URL())
	}

	// Create services struct for context enrichment
	s.services = &svcctx.Services{
		Registry:  s.store,
		Processor: s.processor,
		Extract:   s.extractClient,
		ConfigMgr: s.configMgr,
		Home:      s.homeDir,
		Logger:    s.logger,
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server and the managed
// extractor container.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if s.extractorManager != nil {
		s.logger.Info("stopping extraction backend")
		if err := s.extractorManager.Stop(shutdownCtx); err != nil {
			s.logger.Error("extraction backend stop error", "error", err)
		}
		if err := s.extractorManager.Close(); err != nil {
			s.logger.Error("extractor manager close error", "error", err)
		}
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wired HTTP handler. Used by tests to drive the
// API without binding a socket or touching Docker.
func (s *Server) Handler() http.Handler {
	if s.services == nil {
		s.services = &svcctx.Services{
			Registry:  s.store,
			Processor: s.processor,
			Extract:   s.extractClient,
			ConfigMgr: s.configMgr,
			Home:      s.homeDir,
			Logger:    s.logger,
		}
	}
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the queue isn't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.processor == nil || s.extractClient == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
