package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/atomic"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	apperrors "github.com/allisson/vault/internal/errors"
)

// KeyManagerOption configures a KeyManagerService.
type KeyManagerOption func(*KeyManagerService)

// WithClock replaces time.Now as the source of rotation timestamps.
func WithClock(clock func() time.Time) KeyManagerOption {
	return func(km *KeyManagerService) {
		km.clock = clock
	}
}

// WithRandReader replaces crypto/rand as the source of derivation salts.
func WithRandReader(r io.Reader) KeyManagerOption {
	return func(km *KeyManagerService) {
		km.rand = r
	}
}

// KeyManagerService owns the rotating key pair.
//
// The ring is published through an atomic pointer so metadata reads never
// block. Key bytes are only copied out under mu, which Rotate and Close take
// exclusively before zeroing a key that left the ring.
type KeyManagerService struct {
	rootSecret *cryptoDomain.RootSecret
	interval   time.Duration
	clock      func() time.Time
	rand       io.Reader

	rotateMu sync.Mutex
	mu       sync.RWMutex
	ring     atomic.Pointer[cryptoDomain.KeyRing]
	closed   atomic.Bool
}

// NewKeyManager derives key version 1 from rootSecret and returns a manager
// with no previous key.
//
// The manager takes ownership of rootSecret and destroys it on Close or on
// a failed initialization.
func NewKeyManager(
	rootSecret *cryptoDomain.RootSecret,
	interval time.Duration,
	opts ...KeyManagerOption,
) (*KeyManagerService, error) {
	if rootSecret.Size() != cryptoDomain.RootSecretSize {
		rootSecret.Destroy()
		return nil, cryptoDomain.ErrInvalidSecretLength
	}
	if interval <= 0 {
		rootSecret.Destroy()
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "rotation interval must be positive, got %s", interval)
	}

	km := &KeyManagerService{
		rootSecret: rootSecret,
		interval:   interval,
		clock:      time.Now,
		rand:       rand.Reader,
	}
	for _, opt := range opts {
		opt(km)
	}

	key, err := deriveVersion(rootSecret.Bytes(), 1, km.rand)
	if err != nil {
		rootSecret.Destroy()
		return nil, fmt.Errorf("failed to derive initial key: %w", err)
	}

	now := km.clock().UTC()
	km.ring.Store(&cryptoDomain.KeyRing{
		Current:   &cryptoDomain.DerivedKey{Version: 1, Key: key, CreatedAt: now},
		RotatedAt: now,
	})

	return km, nil
}

// Interval returns the scheduled rotation interval.
func (km *KeyManagerService) Interval() time.Duration {
	return km.interval
}

// Closed reports whether Close has been called.
func (km *KeyManagerService) Closed() bool {
	return km.closed.Load()
}

// CurrentKey returns a copy of the current key. Callers must Zero the copy.
func (km *KeyManagerService) CurrentKey() (cryptoDomain.DerivedKey, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	ring := km.ring.Load()
	if ring == nil {
		return cryptoDomain.DerivedKey{}, cryptoDomain.ErrKeyManagerClosed
	}
	return ring.Current.Clone(), nil
}

// KeyForVersion returns a copy of the key for version if it is current or previous.
func (km *KeyManagerService) KeyForVersion(version uint) (cryptoDomain.DerivedKey, bool) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	ring := km.ring.Load()
	if ring == nil {
		return cryptoDomain.DerivedKey{}, false
	}
	key, ok := ring.Lookup(version)
	if !ok {
		return cryptoDomain.DerivedKey{}, false
	}
	return key.Clone(), true
}

// IsVersionSupported reports whether version is current or previous.
func (km *KeyManagerService) IsVersionSupported(version uint) bool {
	ring := km.ring.Load()
	return ring != nil && ring.Supports(version)
}

// SupportedVersions lists the retained versions, current first.
func (km *KeyManagerService) SupportedVersions() []uint {
	ring := km.ring.Load()
	if ring == nil {
		return nil
	}
	return ring.Versions()
}

// Info describes the key ring. Returns the zero KeyInfo once closed.
func (km *KeyManagerService) Info() cryptoDomain.KeyInfo {
	ring := km.ring.Load()
	if ring == nil {
		return cryptoDomain.KeyInfo{}
	}
	return km.info(ring)
}

func (km *KeyManagerService) info(ring *cryptoDomain.KeyRing) cryptoDomain.KeyInfo {
	info := cryptoDomain.KeyInfo{
		CurrentVersion: ring.Current.Version,
		LastRotationAt: ring.RotatedAt,
		NextRotationAt: ring.RotatedAt.Add(km.interval),
	}
	if ring.Previous != nil {
		previous := ring.Previous.Version
		info.PreviousVersion = &previous
	}
	return info
}

// Rotate derives version current+1 and shifts the current key to previous.
//
// The key that was previous is zeroed. If derivation fails the ring is left
// exactly as it was.
func (km *KeyManagerService) Rotate() (cryptoDomain.KeyInfo, error) {
	km.rotateMu.Lock()
	defer km.rotateMu.Unlock()

	old := km.ring.Load()
	if old == nil {
		return cryptoDomain.KeyInfo{}, cryptoDomain.ErrKeyManagerClosed
	}

	next := old.Current.Version + 1
	key, err := deriveVersion(km.rootSecret.Bytes(), next, km.rand)
	if err != nil {
		return cryptoDomain.KeyInfo{}, fmt.Errorf("failed to derive key version %d: %w", next, err)
	}

	now := km.clock().UTC()
	ring := &cryptoDomain.KeyRing{
		Current:   &cryptoDomain.DerivedKey{Version: next, Key: key, CreatedAt: now},
		Previous:  old.Current,
		RotatedAt: now,
	}

	km.mu.Lock()
	km.ring.Store(ring)
	if old.Previous != nil {
		cryptoDomain.Zero(old.Previous.Key)
	}
	km.mu.Unlock()

	return km.info(ring), nil
}

// Close zeroes every retained key and destroys the root secret. Safe to call more than once.
func (km *KeyManagerService) Close() {
	if !km.closed.CompareAndSwap(false, true) {
		return
	}

	km.rotateMu.Lock()
	defer km.rotateMu.Unlock()

	km.mu.Lock()
	ring := km.ring.Swap(nil)
	if ring != nil {
		cryptoDomain.Zero(ring.Current.Key)
		if ring.Previous != nil {
			cryptoDomain.Zero(ring.Previous.Key)
		}
	}
	km.mu.Unlock()

	km.rootSecret.Destroy()
}
