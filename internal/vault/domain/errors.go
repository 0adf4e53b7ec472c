package domain

import (
	"fmt"
	"strings"

	"github.com/allisson/vault/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrRecordNotFound indicates no record exists with the requested id.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "record not found")

	// ErrKeyVersionExpired indicates the record's key version is no longer retained.
	//
	// This is a retention policy outcome, distinct from ErrAuthenticationFailed.
	// Use errors.As with *KeyVersionExpiredError to read the supported versions.
	ErrKeyVersionExpired = errors.Wrap(errors.ErrGone, "key version expired")

	// ErrInvalidPayload indicates the record payload is not a JSON value.
	ErrInvalidPayload = errors.Wrap(errors.ErrInvalidInput, "payload must be valid JSON")
)

// KeyVersionExpiredError reports which versions were retained when a read was rejected.
type KeyVersionExpiredError struct {
	Version  uint
	Current  uint
	Previous *uint
}

// Error implements the error interface. It never includes key material.
func (e *KeyVersionExpiredError) Error() string {
	supported := []string{fmt.Sprintf("current=%d", e.Current)}
	if e.Previous != nil {
		supported = append(supported, fmt.Sprintf("previous=%d", *e.Previous))
	}
	return fmt.Sprintf(
		"key version %d expired: supported versions are %s",
		e.Version,
		strings.Join(supported, ", "),
	)
}

// Unwrap returns ErrKeyVersionExpired so errors.Is works on the sentinel chain.
func (e *KeyVersionExpiredError) Unwrap() error {
	return ErrKeyVersionExpired
}
