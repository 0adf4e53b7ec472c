package app

import (
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	cryptoService "github.com/allisson/vault/internal/crypto/service"
	cryptoUseCase "github.com/allisson/vault/internal/crypto/usecase"
	"github.com/allisson/vault/internal/metrics"
	vaultHTTP "github.com/allisson/vault/internal/vault/http"
	vaultRepository "github.com/allisson/vault/internal/vault/repository"
	vaultUseCase "github.com/allisson/vault/internal/vault/usecase"
)

// KeyManager returns the key manager, deriving key version 1 from ROOT_SECRET.
func (c *Container) KeyManager() (*cryptoService.KeyManagerService, error) {
	err := c.initOnce(&c.keyManagerInit, "keyManager", func() error {
		keyManager, err := c.initKeyManager()
		if err != nil {
			return err
		}
		c.keyManager = keyManager
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.keyManager, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// RotationScheduler returns the scheduler that rotates keys on a timer and on demand.
func (c *Container) RotationScheduler() (*cryptoUseCase.RotationScheduler, error) {
	err := c.initOnce(&c.rotationSchedulerInit, "rotationScheduler", func() error {
		keyManager, err := c.KeyManager()
		if err != nil {
			return fmt.Errorf("failed to get key manager for rotation scheduler: %w", err)
		}
		c.rotationScheduler = cryptoUseCase.NewRotationScheduler(
			cryptoUseCase.RotationConfig{RetryInterval: c.config.KeyRotationRetryInterval},
			keyManager,
			c.Logger(),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.rotationScheduler, nil
}

// RecordRepository returns the in-memory record repository.
func (c *Container) RecordRepository() vaultUseCase.RecordRepository {
	c.recordRepoInit.Do(func() {
		c.recordRepo = vaultRepository.NewMemoryRecordRepository()
	})
	return c.recordRepo
}

// VaultUseCase returns the vault orchestrator, wrapped with metrics.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	err := c.initOnce(&c.vaultUseCaseInit, "vaultUseCase", func() error {
		useCase, err := c.initVaultUseCase()
		if err != nil {
			return err
		}
		c.vaultUseCase = useCase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.vaultUseCase, nil
}

// RecordUseCase returns the record use case, wrapped with metrics.
func (c *Container) RecordUseCase() (vaultUseCase.RecordUseCase, error) {
	err := c.initOnce(&c.recordUseCaseInit, "recordUseCase", func() error {
		vault, err := c.VaultUseCase()
		if err != nil {
			return fmt.Errorf("failed to get vault use case for record use case: %w", err)
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return fmt.Errorf("failed to get business metrics for record use case: %w", err)
		}

		useCase := vaultUseCase.NewRecordUseCase(vault, c.RecordRepository())
		c.recordUseCase = vaultUseCase.NewRecordUseCaseWithMetrics(useCase, businessMetrics)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.recordUseCase, nil
}

// RecordHandler returns the HTTP handler for record operations.
func (c *Container) RecordHandler() (*vaultHTTP.RecordHandler, error) {
	err := c.initOnce(&c.recordHandlerInit, "recordHandler", func() error {
		useCase, err := c.RecordUseCase()
		if err != nil {
			return fmt.Errorf("failed to get record use case for record handler: %w", err)
		}
		c.recordHandler = vaultHTTP.NewRecordHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.recordHandler, nil
}

// KeyHandler returns the HTTP handler for key operations.
func (c *Container) KeyHandler() (*vaultHTTP.KeyHandler, error) {
	err := c.initOnce(&c.keyHandlerInit, "keyHandler", func() error {
		useCase, err := c.VaultUseCase()
		if err != nil {
			return fmt.Errorf("failed to get vault use case for key handler: %w", err)
		}
		c.keyHandler = vaultHTTP.NewKeyHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.keyHandler, nil
}

// initKeyManager loads the root secret and registers the key gauges.
func (c *Container) initKeyManager() (*cryptoService.KeyManagerService, error) {
	rootSecret, err := c.config.LoadRootSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to load root secret: %w", err)
	}

	// NewKeyManager owns rootSecret from here on, including on failure.
	keyManager, err := cryptoService.NewKeyManager(rootSecret, c.config.KeyRotationInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to create key manager: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		keyManager.Close()
		return nil, fmt.Errorf("failed to get metrics provider for key manager: %w", err)
	}
	if provider != nil {
		err := metrics.RegisterKeyMetrics(provider.MeterProvider(), c.config.MetricsNamespace, keyManager)
		if err != nil {
			keyManager.Close()
			return nil, fmt.Errorf("failed to register key metrics: %w", err)
		}
	}

	c.Logger().Info("key manager initialized",
		slog.Uint64("current_version", uint64(keyManager.Info().CurrentVersion)),
		slog.Duration("rotation_interval", c.config.KeyRotationInterval))

	return keyManager, nil
}

// initVaultUseCase binds the key manager, cipher service and scheduler.
func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get key manager for vault use case: %w", err)
	}

	scheduler, err := c.RotationScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to get rotation scheduler for vault use case: %w", err)
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.CipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cipher algorithm: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
	}

	useCase := vaultUseCase.NewVaultUseCase(keyManager, c.AEADManager(), scheduler, algorithm)
	return vaultUseCase.NewVaultUseCaseWithMetrics(useCase, businessMetrics), nil
}
