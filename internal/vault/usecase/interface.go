// Package usecase defines the vault use cases: the version-gated orchestrator
// that binds key versions to the cipher service, and the record workflow that
// stores and opens JSON payloads on top of it.
package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// RecordRepository defines the interface for sealed record persistence.
type RecordRepository interface {
	Create(ctx context.Context, record *vaultDomain.StoredRecord) error
	Get(ctx context.Context, id uuid.UUID) (*vaultDomain.StoredRecord, error)
	Count(ctx context.Context) (int, error)
	CountByVersion(ctx context.Context) (map[uint]int, error)
}

// Rotator performs on-demand key rotations.
type Rotator interface {
	Trigger(ctx context.Context) (cryptoDomain.KeyInfo, error)
}

// VaultUseCase seals bytes under the current key and opens them under the
// key version they name, as long as that version is still retained.
type VaultUseCase interface {
	// Write encrypts plaintext under the current key. The returned record
	// carries no plaintext and is safe to hand to storage.
	Write(ctx context.Context, plaintext []byte) (*vaultDomain.EncryptedRecord, error)

	// Read opens a record. It returns *vaultDomain.KeyVersionExpiredError when
	// the record's version aged out and cryptoDomain.ErrAuthenticationFailed
	// when the tag does not verify.
	//
	// Security Note: callers MUST zero DecryptedRecord.Plaintext after use.
	Read(ctx context.Context, record *vaultDomain.EncryptedRecord) (*vaultDomain.DecryptedRecord, error)

	// ForceRotate rotates the keys immediately.
	ForceRotate(ctx context.Context) (cryptoDomain.KeyInfo, error)

	// KeyInfo describes the retained key versions.
	KeyInfo(ctx context.Context) cryptoDomain.KeyInfo
}

// RecordUseCase stores and opens JSON payloads.
type RecordUseCase interface {
	// Store seals payload and keeps it in the repository.
	Store(ctx context.Context, payload json.RawMessage) (*vaultDomain.StoredRecord, error)
	// Retrieve fetches a stored record and opens it.
	Retrieve(ctx context.Context, id uuid.UUID) (*vaultDomain.RetrievedRecord, error)
	// Encrypt seals payload without storing it.
	Encrypt(ctx context.Context, payload json.RawMessage) (*vaultDomain.EncryptedRecord, error)
	// Decrypt opens a record held by the caller. The result has no ID.
	Decrypt(ctx context.Context, record *vaultDomain.EncryptedRecord) (*vaultDomain.RetrievedRecord, error)
	// Stats summarizes stored records against the retained key versions.
	Stats(ctx context.Context) (*vaultDomain.Stats, error)
}
