package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestKeyInfoLabel(t *testing.T) {
	assert.Equal(t, "vault-key-v1", KeyInfoLabel(1))
	assert.Equal(t, "vault-key-v42", KeyInfoLabel(42))
}

func TestNewSalt(t *testing.T) {
	t.Run("fresh salts differ", func(t *testing.T) {
		first, err := NewSalt(bytes.NewReader(bytes.Repeat([]byte{1}, 32)))
		require.NoError(t, err)
		assert.Len(t, first, cryptoDomain.SaltSize)

		second, err := NewSalt(bytes.NewReader(bytes.Repeat([]byte{2}, 32)))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("short reader", func(t *testing.T) {
		salt, err := NewSalt(bytes.NewReader([]byte{1, 2, 3}))
		assert.Error(t, err)
		assert.Nil(t, salt)
	})

	t.Run("failing reader", func(t *testing.T) {
		_, err := NewSalt(failingReader{})
		assert.Error(t, err)
	})
}

func TestDeriveKey(t *testing.T) {
	rootSecret := bytes.Repeat([]byte{0x42}, cryptoDomain.RootSecretSize)
	salt := bytes.Repeat([]byte{0x07}, cryptoDomain.SaltSize)

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		first, err := DeriveKey(rootSecret, salt, KeyInfoLabel(1))
		require.NoError(t, err)
		second, err := DeriveKey(rootSecret, salt, KeyInfoLabel(1))
		require.NoError(t, err)

		assert.Len(t, first, cryptoDomain.KeySize)
		assert.Equal(t, first, second)
	})

	t.Run("info separates versions", func(t *testing.T) {
		v1, err := DeriveKey(rootSecret, salt, KeyInfoLabel(1))
		require.NoError(t, err)
		v2, err := DeriveKey(rootSecret, salt, KeyInfoLabel(2))
		require.NoError(t, err)
		assert.NotEqual(t, v1, v2)
	})

	t.Run("salt separates derivations", func(t *testing.T) {
		first, err := DeriveKey(rootSecret, salt, KeyInfoLabel(1))
		require.NoError(t, err)
		second, err := DeriveKey(rootSecret, bytes.Repeat([]byte{0x08}, cryptoDomain.SaltSize), KeyInfoLabel(1))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("root secret is not returned", func(t *testing.T) {
		key, err := DeriveKey(rootSecret, salt, KeyInfoLabel(1))
		require.NoError(t, err)
		assert.NotEqual(t, rootSecret, key)
	})

	t.Run("invalid secret length", func(t *testing.T) {
		for _, size := range []int{0, 16, 31, 33} {
			key, err := DeriveKey(make([]byte, size), salt, KeyInfoLabel(1))
			assert.ErrorIs(t, err, cryptoDomain.ErrInvalidSecretLength)
			assert.Nil(t, key)
		}
	})
}
