package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

// sealDetached encrypts under a fresh random nonce and splits the tag from
// the ciphertext so both can be stored as separate fields.
func sealDetached(aead cipher.AEAD, plaintext, aad []byte) (cryptoDomain.Sealed, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return cryptoDomain.Sealed{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := aead.Seal(nil, nonce, plaintext, aad)
	split := len(out) - aead.Overhead()

	return cryptoDomain.Sealed{
		Ciphertext: out[:split:split],
		Nonce:      nonce,
		Tag:        out[split:],
	}, nil
}

// openDetached checks framing, reassembles ciphertext||tag and opens it.
// Every Open failure collapses into ErrAuthenticationFailed.
func openDetached(aead cipher.AEAD, sealed cryptoDomain.Sealed, aad []byte) ([]byte, error) {
	if len(sealed.Nonce) != aead.NonceSize() {
		return nil, fmt.Errorf(
			"%w: nonce must be %d bytes, got %d",
			cryptoDomain.ErrInvalidInputLength,
			aead.NonceSize(),
			len(sealed.Nonce),
		)
	}
	if len(sealed.Tag) != aead.Overhead() {
		return nil, fmt.Errorf(
			"%w: tag must be %d bytes, got %d",
			cryptoDomain.ErrInvalidInputLength,
			aead.Overhead(),
			len(sealed.Tag),
		)
	}

	combined := make([]byte, 0, len(sealed.Ciphertext)+len(sealed.Tag))
	combined = append(combined, sealed.Ciphertext...)
	combined = append(combined, sealed.Tag...)

	plaintext, err := aead.Open(nil, sealed.Nonce, combined, aad)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
