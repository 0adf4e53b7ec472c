package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM
// (Advanced Encryption Standard with Galois/Counter Mode).
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce, drawn from crypto/rand on every encryption
//   - 16-byte authentication tag, returned detached from the ciphertext
//
// Nonces are never derived from a counter or from the content, so a restart
// cannot replay a nonce under a key that is still in use.
//
// Thread safety:
//
//	The cipher instance is stateless and safe for concurrent use from multiple
//	goroutines. Each encryption operation generates a unique nonce independently.
//
// Example usage:
//
//	cipher, err := NewAESGCM(key)
//	if err != nil {
//	    return err
//	}
//
//	sealed, err := cipher.Encrypt(plaintext, []byte("v1"))
//	plaintext, err := cipher.Decrypt(sealed, []byte("v1"))
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes (256 bits) for AES-256.
//
// Returns:
//   - A new AESGCMCipher instance ready for encryption/decryption
//   - ErrInvalidKeySize if the key size is invalid, or an error if cipher initialization fails
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with optional additional authenticated data.
//
// The AAD is authenticated but not encrypted. The vault binds the key version
// as AAD so a record relabelled with another version fails authentication.
//
// Parameters:
//   - plaintext: The data to encrypt (can be empty)
//   - aad: Additional data to authenticate but not encrypt (can be nil)
//
// Returns:
//   - The sealed ciphertext, the 12-byte nonce and the 16-byte tag
//   - An error if nonce generation fails
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (cryptoDomain.Sealed, error) {
	return sealDetached(a.aead, plaintext, aad)
}

// Decrypt verifies the authentication tag and decrypts a sealed payload.
//
// The tag is verified before any plaintext is released. A wrong key, a wrong
// AAD and any modification of ciphertext, nonce or tag all return the same
// ErrAuthenticationFailed. A nonce or tag of the wrong length returns
// ErrInvalidInputLength.
func (a *AESGCMCipher) Decrypt(sealed cryptoDomain.Sealed, aad []byte) ([]byte, error) {
	return openDetached(a.aead, sealed, aad)
}
