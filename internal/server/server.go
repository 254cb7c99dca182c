// Package server owns the HTTP listener and its lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"groundchat/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouteRegistrar is implemented by every package handler.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// NewRouter builds the chi router with the shared middleware stack, the
// health check and every registrar's routes.
func NewRouter(registrars ...RouteRegistrar) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("groundchat OK"))
	})

	for _, reg := range registrars {
		reg.RegisterRoutes(r)
	}
	return r
}

// Server wraps the HTTP server.
type Server struct {
	config config.ServerConfig
	http   *http.Server
}

// NewServer creates a server for handler using the listener settings in cfg.
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		config: cfg,
		http:   httpServer,
	}
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start serves until Shutdown is called or the listener fails.
// A clean shutdown returns nil.
func (s *Server) Start() error {
	log.Printf("groundchat starting on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Println("Server shutdown complete")
	return nil
}
