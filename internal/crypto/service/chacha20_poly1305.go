package service

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using ChaCha20-Poly1305.
//
// It's particularly efficient on platforms without hardware AES acceleration
// and shares the nonce and tag sizes of AES-256-GCM.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 creates a new ChaCha20-Poly1305 cipher instance.
//
// The key must be exactly 32 bytes (256 bits).
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random 12-byte nonce.
func (c *ChaCha20Poly1305Cipher) Encrypt(plaintext, aad []byte) (cryptoDomain.Sealed, error) {
	return sealDetached(c.aead, plaintext, aad)
}

// Decrypt verifies the Poly1305 tag and opens the sealed payload.
func (c *ChaCha20Poly1305Cipher) Decrypt(sealed cryptoDomain.Sealed, aad []byte) ([]byte, error) {
	return openDetached(c.aead, sealed, aad)
}
