package domain

// Algorithm represents the AEAD cipher used to seal records.
//
// Both algorithms take a 256-bit key, a 96-bit nonce and produce a 128-bit tag,
// so records sealed by either share the same framing.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred without AES hardware support.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of every derived key.
	KeySize = 32

	// RootSecretSize is the required size in bytes of the root secret.
	RootSecretSize = 32

	// SaltSize is the size in bytes of the random salt drawn for each derivation.
	SaltSize = 32

	// NonceSize is the nonce length shared by both supported algorithms.
	NonceSize = 12

	// TagSize is the authentication tag length shared by both supported algorithms.
	TagSize = 16
)

// ParseAlgorithm converts a configuration or request value into an Algorithm.
func ParseAlgorithm(alg string) (Algorithm, error) {
	switch Algorithm(alg) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
