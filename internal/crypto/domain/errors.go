package domain

import (
	"github.com/allisson/vault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so the HTTP layer can map them without knowing about cryptography.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is unknown.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a derived key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidSecretLength indicates the root secret is not exactly RootSecretSize bytes.
	//
	// Returned at initialization; the process must not continue without a valid secret.
	ErrInvalidSecretLength = errors.Wrap(errors.ErrInvalidInput, "invalid root secret length")

	// ErrInvalidInputLength indicates a nonce or tag with the wrong framing length.
	//
	// This is a caller or storage bug, not an attack signal, and is never retried.
	ErrInvalidInputLength = errors.Wrap(errors.ErrInvalidInput, "invalid input length")

	// ErrAuthenticationFailed indicates the authentication tag did not verify.
	//
	// The same value is returned for a wrong key and for tampered ciphertext,
	// nonce or tag so callers cannot tell the causes apart.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrIntegrity, "authentication failed")

	// ErrKeyManagerClosed indicates the key manager was shut down and its keys zeroed.
	ErrKeyManagerClosed = errors.Wrap(errors.ErrUnavailable, "key manager closed")
)
