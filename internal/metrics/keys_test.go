package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

type stubKeyInfoSource struct {
	mu   sync.Mutex
	info cryptoDomain.KeyInfo
}

func (s *stubKeyInfoSource) Info() cryptoDomain.KeyInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

func (s *stubKeyInfoSource) set(info cryptoDomain.KeyInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

func TestRegisterKeyMetrics(t *testing.T) {
	provider, err := NewProvider("keys_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	source := &stubKeyInfoSource{info: cryptoDomain.KeyInfo{
		CurrentVersion: 3,
		NextRotationAt: time.Now().Add(time.Hour),
	}}

	require.NoError(t, RegisterKeyMetrics(provider.MeterProvider(), "keys_test", source))

	output := scrape(t, provider)
	assert.Regexp(t, `keys_test_key_current_version(\{[^}]*\})? 3`, output)
	assert.Regexp(t, `keys_test_key_next_rotation_seconds(_seconds)?(\{[^}]*\})? 3[0-9]{3}\.`, output)

	source.set(cryptoDomain.KeyInfo{CurrentVersion: 4, NextRotationAt: time.Now().Add(time.Hour)})
	output = scrape(t, provider)
	assert.Regexp(t, `keys_test_key_current_version(\{[^}]*\})? 4`, output)
}

func TestRegisterKeyMetrics_ClosedManager(t *testing.T) {
	provider, err := NewProvider("closed_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	require.NoError(t, RegisterKeyMetrics(provider.MeterProvider(), "closed_test", &stubKeyInfoSource{}))

	output := scrape(t, provider)
	assert.NotRegexp(t, `(?m)^closed_test_key_current_version\{`, output)
}
