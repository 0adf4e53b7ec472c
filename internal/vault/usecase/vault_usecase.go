package usecase

import (
	"context"
	"fmt"
	"time"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	cryptoService "github.com/allisson/vault/internal/crypto/service"
	apperrors "github.com/allisson/vault/internal/errors"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// vaultUseCase implements VaultUseCase.
type vaultUseCase struct {
	keyManager  cryptoService.KeyManager
	aeadManager cryptoService.AEADManager
	rotator     Rotator
	algorithm   cryptoDomain.Algorithm
	clock       func() time.Time
}

// versionAAD binds a record to its key version. A record relabelled with
// another retained version fails authentication instead of opening.
func versionAAD(version uint) []byte {
	return []byte(fmt.Sprintf("v%d", version))
}

// Write encrypts plaintext under the current key.
func (v *vaultUseCase) Write(ctx context.Context, plaintext []byte) (*vaultDomain.EncryptedRecord, error) {
	key, err := v.keyManager.CurrentKey()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key.Key)

	cipher, err := v.aeadManager.CreateCipher(key.Key, v.algorithm)
	if err != nil {
		return nil, err
	}

	sealed, err := cipher.Encrypt(plaintext, versionAAD(key.Version))
	if err != nil {
		return nil, err
	}

	return &vaultDomain.EncryptedRecord{
		Ciphertext: sealed.Ciphertext,
		Nonce:      sealed.Nonce,
		Tag:        sealed.Tag,
		KeyVersion: key.Version,
		Algorithm:  v.algorithm,
		CreatedAt:  v.clock().UTC(),
	}, nil
}

// Read opens a record if its key version is still retained.
func (v *vaultUseCase) Read(
	ctx context.Context,
	record *vaultDomain.EncryptedRecord,
) (*vaultDomain.DecryptedRecord, error) {
	if record == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "record is required")
	}

	algorithm := record.Algorithm
	if algorithm == "" {
		algorithm = v.algorithm
	}

	if !v.keyManager.IsVersionSupported(record.KeyVersion) {
		return nil, v.unsupported(record.KeyVersion)
	}

	key, ok := v.keyManager.KeyForVersion(record.KeyVersion)
	if !ok {
		// Rotated out between the check and the lookup.
		return nil, v.unsupported(record.KeyVersion)
	}
	defer cryptoDomain.Zero(key.Key)

	cipher, err := v.aeadManager.CreateCipher(key.Key, algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(record.Sealed(), versionAAD(record.KeyVersion))
	if err != nil {
		return nil, err
	}

	return &vaultDomain.DecryptedRecord{
		Plaintext:  plaintext,
		KeyVersion: record.KeyVersion,
		CreatedAt:  record.CreatedAt,
	}, nil
}

func (v *vaultUseCase) unsupported(version uint) error {
	if v.keyManager.Closed() {
		return cryptoDomain.ErrKeyManagerClosed
	}
	info := v.keyManager.Info()
	return &vaultDomain.KeyVersionExpiredError{
		Version:  version,
		Current:  info.CurrentVersion,
		Previous: info.PreviousVersion,
	}
}

// ForceRotate rotates the keys immediately.
func (v *vaultUseCase) ForceRotate(ctx context.Context) (cryptoDomain.KeyInfo, error) {
	return v.rotator.Trigger(ctx)
}

// KeyInfo describes the retained key versions.
func (v *vaultUseCase) KeyInfo(ctx context.Context) cryptoDomain.KeyInfo {
	return v.keyManager.Info()
}

// NewVaultUseCase creates a new vault use case instance with the provided dependencies.
// Records are sealed with algorithm; records without an algorithm are opened with it too.
func NewVaultUseCase(
	keyManager cryptoService.KeyManager,
	aeadManager cryptoService.AEADManager,
	rotator Rotator,
	algorithm cryptoDomain.Algorithm,
) VaultUseCase {
	return &vaultUseCase{
		keyManager:  keyManager,
		aeadManager: aeadManager,
		rotator:     rotator,
		algorithm:   algorithm,
		clock:       time.Now,
	}
}
