// Package web is the HTTP presentation layer: a server-rendered page driven
// by plain HTML forms, file downloads, a small JSON API, health checks and
// the Prometheus endpoint.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/lanshare/internal/config"
	"github.com/dmitrijs2005/lanshare/internal/logging"
)

// Server wraps http.Server with context-driven graceful shutdown.
type Server struct {
	address         string
	httpServer      *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
	ready           chan net.Addr
}

func NewServer(cfg *config.Config, logger logging.Logger, handler http.Handler) *Server {
	return &Server{
		address: cfg.ListenAddr,
		httpServer: &http.Server{
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       2 * time.Minute,
		},
		logger:          logger.With("module", "http_server"),
		shutdownTimeout: cfg.ShutdownTimeout,
		ready:           make(chan net.Addr, 1),
	}
}

// Ready yields the bound address once the listener is open.
func (s *Server) Ready() <-chan net.Addr {
	return s.ready
}

// Run serves until ctx is cancelled, then shuts down, giving in-flight
// requests up to the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	s.ready <- listen.Addr()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- s.httpServer.Serve(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
