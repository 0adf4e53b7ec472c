package domain

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/awnumar/memguard"
)

// RootSecret is the long-lived secret every key version is derived from.
//
// The bytes live in a memguard locked buffer for the lifetime of the key
// manager and are wiped by Destroy.
type RootSecret struct {
	buf *memguard.LockedBuffer
}

// NewRootSecret moves secret into locked memory. The caller's slice is wiped
// regardless of the outcome.
func NewRootSecret(secret []byte) (*RootSecret, error) {
	if len(secret) != RootSecretSize {
		Zero(secret)
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSecretLength, RootSecretSize, len(secret))
	}
	return &RootSecret{buf: memguard.NewBufferFromBytes(secret)}, nil
}

// ParseRootSecret decodes a standard base64 root secret, as found in ROOT_SECRET.
func ParseRootSecret(encoded string) (*RootSecret, error) {
	secret, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: root secret is not valid base64", ErrInvalidSecretLength)
	}
	return NewRootSecret(secret)
}

// Bytes exposes the secret for key derivation. The slice is only valid until Destroy.
func (r *RootSecret) Bytes() []byte {
	if r == nil || r.buf == nil || !r.buf.IsAlive() {
		return nil
	}
	return r.buf.Bytes()
}

// Size returns the secret length, or 0 once destroyed.
func (r *RootSecret) Size() int {
	return len(r.Bytes())
}

// Destroy wipes and releases the secret. Safe to call more than once.
func (r *RootSecret) Destroy() {
	if r == nil || r.buf == nil {
		return
	}
	r.buf.Destroy()
}
