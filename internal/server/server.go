// Package server owns the HTTP listener lifecycle of the doze API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	defaultPort       = "8080"
	maxHeaderBytes    = 1 << 20
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second

	// A retried transition blocks the request for MaxAttempts*(command time + delay).
	defaultWriteTimeout = 2 * time.Minute
)

// Config tunes the listener. Zero values fall back to defaults.
type Config struct {
	Port         string
	WriteTimeout time.Duration
}

// Server wraps an *http.Server with start and graceful shutdown.
type Server struct {
	httpServer *http.Server
}

// New builds a server for handler without starting it.
func New(cfg Config, handler http.Handler) *Server {
	wt := cfg.WriteTimeout
	if wt <= 0 {
		wt = defaultWriteTimeout
	}
	return &Server{httpServer: &http.Server{
		Addr:              listenAddr(cfg.Port),
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      wt,
		IdleTimeout:       idleTimeout,
	}}
}

// listenAddr accepts "8080", ":8080" or "host:8080".
func listenAddr(port string) string {
	port = strings.TrimSpace(port)
	switch {
	case port == "":
		return ":" + defaultPort
	case strings.Contains(port, ":"):
		return port
	default:
		return ":" + port
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Run blocks serving requests. It returns nil after Shutdown.
func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
