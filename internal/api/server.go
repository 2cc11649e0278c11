package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/config"
)

// Server wraps the router in an http.Server with timeouts and graceful shutdown
type Server struct {
	inner           *http.Server
	logger          *zap.Logger
	shutdownTimeout time.Duration
}

// NewServer creates a server for the router using the configured address and timeouts
func NewServer(cfg config.ServerConfig, router *Router, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		inner: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router.Engine(),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Start blocks serving requests until Stop is called
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.inner.Addr))

	if err := s.inner.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop drains in-flight requests, giving up after the shutdown timeout
func (s *Server) Stop(ctx context.Context) error {
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	s.logger.Info("Stopping HTTP server")

	return s.inner.Shutdown(ctx)
}

// GinMode maps an environment name to a gin mode
func GinMode(env string) string {
	switch env {
	case "development", "dev":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
