// Package usecase defines the key rotation workflow built on the key manager.
package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

// KeyRotator is the subset of the key manager the scheduler drives.
type KeyRotator interface {
	Rotate() (cryptoDomain.KeyInfo, error)
	Info() cryptoDomain.KeyInfo
	Interval() time.Duration
}

// RotationUseCase schedules periodic rotations and serves on-demand ones.
type RotationUseCase interface {
	// Start runs the rotation timer until ctx is cancelled.
	Start(ctx context.Context) error

	// Trigger rotates immediately. Concurrent calls share a single rotation.
	Trigger(ctx context.Context) (cryptoDomain.KeyInfo, error)
}
