package service

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

// KeyInfoLabel returns the HKDF info string that binds a derived key to version.
func KeyInfoLabel(version uint) string {
	return fmt.Sprintf("vault-key-v%d", version)
}

// NewSalt draws SaltSize random bytes from r.
func NewSalt(r io.Reader) ([]byte, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey expands rootSecret into a KeySize key using HKDF-SHA256.
//
// The function is deterministic for identical inputs; uniqueness across
// versions comes from the fresh salt and the version-bound info string.
func DeriveKey(rootSecret, salt []byte, info string) ([]byte, error) {
	if len(rootSecret) != cryptoDomain.RootSecretSize {
		return nil, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			cryptoDomain.ErrInvalidSecretLength,
			cryptoDomain.RootSecretSize,
			len(rootSecret),
		)
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, rootSecret, salt, []byte(info)), key); err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// deriveVersion derives the key for version under a fresh random salt.
func deriveVersion(rootSecret []byte, version uint, rnd io.Reader) ([]byte, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	salt, err := NewSalt(rnd)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(salt)
	return DeriveKey(rootSecret, salt, KeyInfoLabel(version))
}
