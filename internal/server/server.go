package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	"blog-backend/pkg/container"
)

// Server owns the storage handle and the HTTP listener of one API process.
type Server struct {
	cfg *config.Config

	mu         sync.Mutex
	container  *container.Container
	httpServer *http.Server
	listener   net.Listener
	done       chan struct{}
}

// New returns an unstarted server.
func New(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Start connects the storage, then binds the listener and serves in the
// background. Storage must be reachable before the port is bound.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return errors.New("server already started")
	}

	// ========================================
	// 1. BUILD DI CONTAINER (connects storage)
	// ========================================
	appContainer, err := container.NewContainer(ctx, s.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	// ========================================
	// 2. BIND LISTENER
	// ========================================
	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		_ = appContainer.Cleanup(context.Background())
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}

	// ========================================
	// 3. CONFIGURE HTTP SERVER
	// ========================================
	srv := &http.Server{
		Handler:        SetupRouter(appContainer),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	s.container = appContainer
	s.httpServer = srv
	s.listener = listener
	s.done = make(chan struct{})

	// ========================================
	// 4. SERVE (NON-BLOCKING)
	// ========================================
	go func(done chan struct{}) {
		defer close(done)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
		}
	}(s.done)

	log.Info().
		Str("addr", listener.Addr().String()).
		Str("environment", s.cfg.App.Environment).
		Str("driver", string(appContainer.Driver)).
		Msg("Your app is listening")

	return nil
}

// Addr reports the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler exposes the router of a started server.
func (s *Server) Handler() http.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Handler
}

// Stop disconnects the storage, then closes the listener and waits for
// in-flight requests until ctx expires. Stopping an unstarted server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}

	log.Info().Msg("Closing server")

	var errs []error
	if err := s.container.Cleanup(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}

	select {
	case <-s.done:
	case <-ctx.Done():
		errs = append(errs, ctx.Err())
	}

	s.container = nil
	s.httpServer = nil
	s.listener = nil
	return errors.Join(errs...)
}
