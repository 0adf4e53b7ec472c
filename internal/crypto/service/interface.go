// Package service provides the cryptographic services behind the vault:
// HKDF key derivation, the key lifecycle manager and the AEAD ciphers
// (AES-256-GCM, ChaCha20-Poly1305) that seal records under derived keys.
package service

import (
	"time"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt seals plaintext with optional AAD under a fresh random nonce.
	Encrypt(plaintext, aad []byte) (cryptoDomain.Sealed, error)

	// Decrypt verifies the tag and opens a sealed payload using the same AAD.
	Decrypt(sealed cryptoDomain.Sealed, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyManager defines the key lifecycle operations consumed by the vault.
type KeyManager interface {
	// CurrentKey returns a private copy of the current key. Callers must zero it.
	CurrentKey() (cryptoDomain.DerivedKey, error)

	// KeyForVersion returns a private copy of the key for version when it is
	// still retained. A false result is a policy answer, not a failure.
	KeyForVersion(version uint) (cryptoDomain.DerivedKey, bool)

	// IsVersionSupported reports whether version is current or previous.
	IsVersionSupported(version uint) bool

	// SupportedVersions lists the retained versions, current first.
	SupportedVersions() []uint

	// Rotate retires the previous key and derives the next version.
	Rotate() (cryptoDomain.KeyInfo, error)

	// Info describes the key ring without key material.
	Info() cryptoDomain.KeyInfo

	// Interval returns the scheduled rotation interval.
	Interval() time.Duration

	// Closed reports whether Close has been called.
	Closed() bool

	// Close zeroes all retained keys and the root secret.
	Close()
}
