// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	auditRepository "github.com/NotDonCitron/BlueBirdHub-sub005/internal/audit/repository"
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/config"
	cryptoService "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/service"
	encryptionUsecase "github.com/NotDonCitron/BlueBirdHub-sub005/internal/encryption/usecase"
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	cryptoMetrics   metrics.CryptoMetrics

	// Repositories and stores
	auditLog *auditRepository.MemoryAuditLogRepository
	keyStore cryptoService.KeyStore

	// Use Cases
	encryptionManager encryptionUsecase.EncryptionUseCase

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	metricsProviderInit   sync.Once
	cryptoMetricsInit     sync.Once
	auditLogInit          sync.Once
	keyStoreInit          sync.Once
	encryptionManagerInit sync.Once
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
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider with Prometheus export.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// MetricsHandler returns the HTTP handler serving Prometheus metrics.
func (c *Container) MetricsHandler() (http.Handler, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	return provider.Handler(), nil
}

// CryptoMetrics returns the cryptographic operation metrics recorder.
// A no-op recorder is returned when metrics are disabled.
func (c *Container) CryptoMetrics() (metrics.CryptoMetrics, error) {
	c.cryptoMetricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			c.cryptoMetrics = metrics.NewNoOpCryptoMetrics()
			return
		}

		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["cryptoMetrics"] = err
			return
		}
		recorder, err := metrics.NewCryptoMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["cryptoMetrics"] = err
			return
		}
		c.cryptoMetrics = recorder
	})
	if storedErr, exists := c.initErrors["cryptoMetrics"]; exists {
		return nil, storedErr
	}
	return c.cryptoMetrics, nil
}

// AuditLog returns the bounded in-memory security audit log.
func (c *Container) AuditLog() *auditRepository.MemoryAuditLogRepository {
	c.auditLogInit.Do(func() {
		c.auditLog = auditRepository.NewMemoryAuditLogRepository(c.config.AuditLogCapacity)
	})
	return c.auditLog
}

// KeyStore returns the in-memory encryption key store.
func (c *Container) KeyStore() cryptoService.KeyStore {
	c.keyStoreInit.Do(func() {
		c.keyStore = cryptoService.NewMemoryKeyStore()
	})
	return c.keyStore
}

// EncryptionManager returns the encryption manager, instrumented with metrics.
// The manager starts UNINITIALIZED; callers must run Initialize before use.
func (c *Container) EncryptionManager() (encryptionUsecase.EncryptionUseCase, error) {
	c.encryptionManagerInit.Do(func() {
		manager, err := c.initEncryptionManager()
		if err != nil {
			c.initErrors["encryptionManager"] = err
			return
		}
		c.encryptionManager = manager
	})
	if storedErr, exists := c.initErrors["encryptionManager"]; exists {
		return nil, storedErr
	}
	return c.encryptionManager, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Flush and stop the metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Destroy key material held by the key store if initialized
	if c.keyStore != nil {
		c.keyStore.Clear()
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
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

// initEncryptionManager creates the encryption manager with all its dependencies.
func (c *Container) initEncryptionManager() (encryptionUsecase.EncryptionUseCase, error) {
	cryptoMetrics, err := c.CryptoMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto metrics for encryption manager: %w", err)
	}

	manager := encryptionUsecase.NewEncryptionManager(
		c.config,
		c.Logger(),
		c.KeyStore(),
		c.AuditLog(),
	)

	return encryptionUsecase.NewEncryptionUseCaseWithMetrics(manager, cryptoMetrics), nil
}
