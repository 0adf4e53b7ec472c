// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/vault/internal/config"
	cryptoService "github.com/allisson/vault/internal/crypto/service"
	cryptoUseCase "github.com/allisson/vault/internal/crypto/usecase"
	"github.com/allisson/vault/internal/http"
	"github.com/allisson/vault/internal/metrics"
	vaultHTTP "github.com/allisson/vault/internal/vault/http"
	vaultUseCase "github.com/allisson/vault/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Keys and ciphers
	keyManager        *cryptoService.KeyManagerService
	aeadManager       cryptoService.AEADManager
	rotationScheduler *cryptoUseCase.RotationScheduler

	// Repositories
	recordRepo vaultUseCase.RecordRepository

	// Use Cases
	vaultUseCase  vaultUseCase.VaultUseCase
	recordUseCase vaultUseCase.RecordUseCase

	// Handlers
	recordHandler *vaultHTTP.RecordHandler
	keyHandler    *vaultHTTP.KeyHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	keyManagerInit        sync.Once
	aeadManagerInit       sync.Once
	rotationSchedulerInit sync.Once
	recordRepoInit        sync.Once
	vaultUseCaseInit      sync.Once
	recordUseCaseInit     sync.Once
	recordHandlerInit     sync.Once
	keyHandlerInit        sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	shutdownOnce          sync.Once
	shutdownErr           error
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// initOnce runs init through once and remembers its error under name.
func (c *Container) initOnce(once *sync.Once, name string, init func() error) error {
	once.Do(func() {
		if err := init(); err != nil {
			c.mu.Lock()
			c.initErrors[name] = err
			c.mu.Unlock()
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	err := c.initOnce(&c.metricsProviderInit, "metricsProvider", func() error {
		if !c.config.MetricsEnabled {
			return nil
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create metrics provider: %w", err)
		}
		c.metricsProvider = provider
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder; a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	err := c.initOnce(&c.businessMetricsInit, "businessMetrics", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return nil
		}

		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create business metrics: %w", err)
		}
		c.businessMetrics = businessMetrics
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	err := c.initOnce(&c.httpServerInit, "httpServer", func() error {
		server, err := c.initHTTPServer()
		if err != nil {
			return err
		}
		c.httpServer = server
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	err := c.initOnce(&c.metricsServerInit, "metricsServer", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		if provider == nil {
			return nil
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources. The key manager is
// closed last, on every path, so derived keys and the root secret are wiped
// even when a server fails to stop.
// Calls after the first return the first result.
func (c *Container) Shutdown(ctx context.Context) error {
	c.shutdownOnce.Do(func() {
		c.shutdownErr = c.shutdown(ctx)
	})
	return c.shutdownErr
}

func (c *Container) shutdown(ctx context.Context) error {
	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.keyManager != nil {
		c.keyManager.Close()
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initHTTPServer creates the API server and wires every route.
func (c *Container) initHTTPServer() (*http.Server, error) {
	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get key manager for http server: %w", err)
	}

	recordHandler, err := c.RecordHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get record handler for http server: %w", err)
	}

	keyHandler, err := c.KeyHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get key handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(c.config.ServerHost, c.config.ServerPort, c.Logger(), keyManager)
	if provider != nil {
		server.SetupRouter(c.config, recordHandler, keyHandler, provider.MeterProvider())
	} else {
		server.SetupRouter(c.config, recordHandler, keyHandler, nil)
	}

	return server, nil
}
