// Package domain defines the record models handled by the vault: sealed records
// as produced for storage and the decrypted views returned to callers.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

// EncryptedRecord is the sealed package produced by a vault write.
//
// It references its key by version number only. Nothing in it is plaintext.
type EncryptedRecord struct {
	// Ciphertext is the AEAD output without the tag.
	Ciphertext []byte
	// Nonce is the random 12-byte value the record was sealed under.
	Nonce []byte
	// Tag is the detached 16-byte authentication tag.
	Tag []byte
	// KeyVersion is the version of the derived key that sealed the record.
	KeyVersion uint
	// Algorithm is the AEAD algorithm; empty means the vault default.
	Algorithm cryptoDomain.Algorithm
	// CreatedAt is the UTC timestamp of the write.
	CreatedAt time.Time
}

// Sealed returns the cipher-level view of the record.
func (r *EncryptedRecord) Sealed() cryptoDomain.Sealed {
	return cryptoDomain.Sealed{
		Ciphertext: r.Ciphertext,
		Nonce:      r.Nonce,
		Tag:        r.Tag,
	}
}

// DecryptedRecord is the result of a successful vault read.
type DecryptedRecord struct {
	// Plaintext holds the opened bytes in memory only; zero after use.
	Plaintext []byte `json:"-"`
	// KeyVersion is the version that opened the record.
	KeyVersion uint
	// CreatedAt is the creation timestamp carried by the record.
	CreatedAt time.Time
}

// StoredRecord is an EncryptedRecord kept by the record repository.
type StoredRecord struct {
	ID uuid.UUID
	EncryptedRecord
}

// RetrievedRecord is a stored record opened back into its JSON payload.
type RetrievedRecord struct {
	ID         uuid.UUID
	Data       json.RawMessage
	KeyVersion uint
	CreatedAt  time.Time
}
