// Package server is a development system of record for the board: an echo
// JSON API over an in-memory deal store, with an optional Redis read-through
// cache and configurable fault injection.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pipeboard/pipeboard/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithFaults injects latency and failures into stage updates.
func WithFaults(f *Faults) Option {
	return func(s *Server) { s.faults = f }
}

// Server serves the deal API.
type Server struct {
	Echo   *echo.Echo
	store  Store
	faults *Faults
	logger *logging.Logger
}

// New builds a Server over store.
func New(store Store, logger *logging.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logging.NopLogger()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}

	s := &Server{
		Echo:   e,
		store:  store,
		faults: &Faults{},
		logger: logger.WithComponent("server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				s.logger.Warn("request failed", append(args, "error", v.Error)...)
				return nil
			}
			s.logger.Debug("request", args...)
			return nil
		},
	}))

	s.routes()
	return s
}

// Start serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	return s.Echo.Shutdown(shutdownCtx)
}
