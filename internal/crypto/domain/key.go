// Package domain defines the key material, key ring and sealed payload models
// shared by the key lifecycle manager and the AEAD cipher service.
package domain

import (
	"time"
)

// DerivedKey is a symmetric key bound to exactly one key version.
//
// Keys handed out by the key manager are private copies; callers must
// Zero(key.Key) once the cipher operation is done.
type DerivedKey struct {
	Version   uint
	Key       []byte
	CreatedAt time.Time
}

// Clone returns a DerivedKey with its own copy of the key bytes.
func (k *DerivedKey) Clone() DerivedKey {
	key := make([]byte, len(k.Key))
	copy(key, k.Key)
	return DerivedKey{Version: k.Version, Key: key, CreatedAt: k.CreatedAt}
}

// KeyRing is an immutable snapshot of the retained keys.
//
// Previous is nil until the first rotation. When set, its version is exactly
// Current.Version-1. A ring is never mutated after it is published, except for
// zeroing the key bytes of a key that has aged out.
type KeyRing struct {
	Current   *DerivedKey
	Previous  *DerivedKey
	RotatedAt time.Time
}

// Supports reports whether records sealed under version can still be opened.
func (r *KeyRing) Supports(version uint) bool {
	return r.lookup(version) != nil
}

// Versions returns the retained versions, current first.
func (r *KeyRing) Versions() []uint {
	versions := []uint{r.Current.Version}
	if r.Previous != nil {
		versions = append(versions, r.Previous.Version)
	}
	return versions
}

func (r *KeyRing) lookup(version uint) *DerivedKey {
	switch {
	case r.Current != nil && r.Current.Version == version:
		return r.Current
	case r.Previous != nil && r.Previous.Version == version:
		return r.Previous
	default:
		return nil
	}
}

// Lookup returns the retained key for version, if any.
func (r *KeyRing) Lookup(version uint) (*DerivedKey, bool) {
	key := r.lookup(version)
	return key, key != nil
}

// KeyInfo describes the key ring without exposing key material.
type KeyInfo struct {
	CurrentVersion  uint
	PreviousVersion *uint
	LastRotationAt  time.Time
	NextRotationAt  time.Time
}

// Sealed is the output of an AEAD encryption: ciphertext, the nonce it was
// sealed under and the detached authentication tag.
type Sealed struct {
	Ciphertext []byte
	Nonce      []byte
	Tag        []byte
}
