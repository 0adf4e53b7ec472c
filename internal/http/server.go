// Package http provides the API server: router setup, middleware and the
// separate metrics server.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	"github.com/allisson/vault/internal/config"
	"github.com/allisson/vault/internal/metrics"
	vaultHTTP "github.com/allisson/vault/internal/vault/http"
)

// ReadinessProbe reports whether the key manager can still serve requests.
type ReadinessProbe interface {
	Closed() bool
}

// Server represents the API HTTP server.
type Server struct {
	server      *http.Server
	router      *gin.Engine
	logger      *slog.Logger
	keys        ReadinessProbe
	listening   *atomic.Bool
	rateLimiter *ipRateLimiter
}

// NewServer creates a new API server. Call SetupRouter before Start.
func NewServer(host string, port int, logger *slog.Logger, keys ReadinessProbe) *Server {
	return &Server{
		logger:    logger,
		keys:      keys,
		listening: atomic.NewBool(false),
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with every route and middleware.
// meterProvider may be nil to skip HTTP metrics.
func (s *Server) SetupRouter(
	cfg *config.Config,
	recordHandler *vaultHTTP.RecordHandler,
	keyHandler *vaultHTTP.KeyHandler,
	meterProvider metric.MeterProvider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(newRequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		s.rateLimiter = newIPRateLimiter(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger)
		v1.Use(s.rateLimiter.Middleware())
	}
	v1.Use(MaxBodyMiddleware(int64(cfg.MaxPayloadBytes), s.logger))

	records := v1.Group("/records")
	{
		records.POST("", recordHandler.StoreHandler)
		records.POST("/encrypt", recordHandler.EncryptHandler)
		records.POST("/decrypt", recordHandler.DecryptHandler)
		records.GET("/:id", recordHandler.GetHandler)
	}

	keys := v1.Group("/keys")
	{
		keys.POST("/rotate", keyHandler.RotateHandler)
		keys.GET("/info", keyHandler.InfoHandler)
	}

	v1.GET("/stats", recordHandler.StatsHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start listens and serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured: call SetupRouter first")
	}
	s.server.Handler = s.router

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.logger.Info("starting http server", slog.String("addr", listener.Addr().String()))
	s.listening.Store(true)

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.listening.Store(false)
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown marks the server not ready, stops the rate limiter sweeper and
// drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.listening.Store(false)

	if s.rateLimiter != nil {
		s.rateLimiter.Close()
	}

	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler is ready while the server is listening and the key
// manager has not been closed.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"http": "ok", "keys": "ok"}
	ready := true

	if !s.listening.Load() {
		components["http"] = "error"
		ready = false
	}
	if s.keys == nil || s.keys.Closed() {
		components["keys"] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
