package service

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

func newTestKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func ciphersUnderTest(t *testing.T, key []byte) map[cryptoDomain.Algorithm]AEAD {
	t.Helper()
	aesGCM, err := NewAESGCM(key)
	require.NoError(t, err)
	chacha, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)
	return map[cryptoDomain.Algorithm]AEAD{
		cryptoDomain.AESGCM:   aesGCM,
		cryptoDomain.ChaCha20: chacha,
	}
}

func TestNewCiphers_InvalidKeySize(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33, 64} {
		t.Run(fmt.Sprintf("size %d", size), func(t *testing.T) {
			key := make([]byte, size)

			aesGCM, err := NewAESGCM(key)
			assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
			assert.Nil(t, aesGCM)

			chacha, err := NewChaCha20Poly1305(key)
			assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
			assert.Nil(t, chacha)
		})
	}
}

func TestAEAD_RoundTrip(t *testing.T) {
	key := newTestKey(t)

	for alg, cipher := range ciphersUnderTest(t, key) {
		t.Run(string(alg), func(t *testing.T) {
			cases := map[string][]byte{
				"short":  []byte(`{"a":1}`),
				"empty":  {},
				"binary": {0x00, 0xff, 0x10, 0x00},
				"large":  make([]byte, 64*1024),
			}

			for name, plaintext := range cases {
				t.Run(name, func(t *testing.T) {
					sealed, err := cipher.Encrypt(plaintext, []byte("v1"))
					require.NoError(t, err)
					assert.Len(t, sealed.Nonce, cryptoDomain.NonceSize)
					assert.Len(t, sealed.Tag, cryptoDomain.TagSize)
					assert.Len(t, sealed.Ciphertext, len(plaintext))

					decrypted, err := cipher.Decrypt(sealed, []byte("v1"))
					require.NoError(t, err)
					assert.Equal(t, len(plaintext), len(decrypted))
					if len(plaintext) > 0 {
						assert.Equal(t, plaintext, decrypted)
					}
				})
			}
		})
	}
}

func TestAEAD_NonceUniqueness(t *testing.T) {
	key := newTestKey(t)
	const n = 10000

	for alg, cipher := range ciphersUnderTest(t, key) {
		t.Run(string(alg), func(t *testing.T) {
			seen := make(map[string]struct{}, n)
			for i := 0; i < n; i++ {
				sealed, err := cipher.Encrypt([]byte("same plaintext"), nil)
				require.NoError(t, err)

				_, dup := seen[string(sealed.Nonce)]
				require.False(t, dup, "nonce repeated after %d encryptions", i)
				seen[string(sealed.Nonce)] = struct{}{}
			}
		})
	}
}

func TestAEAD_TamperDetection(t *testing.T) {
	key := newTestKey(t)
	plaintext := []byte(`{"account":"42","balance":100}`)

	flip := func(b []byte, bit int) []byte {
		out := append([]byte(nil), b...)
		out[bit/8] ^= 1 << (bit % 8)
		return out
	}

	for alg, cipher := range ciphersUnderTest(t, key) {
		t.Run(string(alg), func(t *testing.T) {
			sealed, err := cipher.Encrypt(plaintext, []byte("v1"))
			require.NoError(t, err)

			t.Run("every ciphertext bit", func(t *testing.T) {
				for bit := 0; bit < len(sealed.Ciphertext)*8; bit++ {
					tampered := sealed
					tampered.Ciphertext = flip(sealed.Ciphertext, bit)
					out, err := cipher.Decrypt(tampered, []byte("v1"))
					require.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
					require.Nil(t, out)
				}
			})

			t.Run("every nonce bit", func(t *testing.T) {
				for bit := 0; bit < len(sealed.Nonce)*8; bit++ {
					tampered := sealed
					tampered.Nonce = flip(sealed.Nonce, bit)
					_, err := cipher.Decrypt(tampered, []byte("v1"))
					require.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
				}
			})

			t.Run("every tag bit", func(t *testing.T) {
				for bit := 0; bit < len(sealed.Tag)*8; bit++ {
					tampered := sealed
					tampered.Tag = flip(sealed.Tag, bit)
					_, err := cipher.Decrypt(tampered, []byte("v1"))
					require.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
				}
			})

			t.Run("different aad", func(t *testing.T) {
				_, err := cipher.Decrypt(sealed, []byte("v2"))
				assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
			})

			t.Run("wrong key", func(t *testing.T) {
				other := ciphersUnderTest(t, newTestKey(t))[alg]
				_, err := other.Decrypt(sealed, []byte("v1"))
				assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
			})

			t.Run("untouched record still opens", func(t *testing.T) {
				out, err := cipher.Decrypt(sealed, []byte("v1"))
				require.NoError(t, err)
				assert.Equal(t, plaintext, out)
			})
		})
	}
}

func TestAEAD_InvalidInputLength(t *testing.T) {
	key := newTestKey(t)

	for alg, cipher := range ciphersUnderTest(t, key) {
		t.Run(string(alg), func(t *testing.T) {
			sealed, err := cipher.Encrypt([]byte("data"), nil)
			require.NoError(t, err)

			tests := []struct {
				name   string
				mutate func(s cryptoDomain.Sealed) cryptoDomain.Sealed
			}{
				{"short nonce", func(s cryptoDomain.Sealed) cryptoDomain.Sealed { s.Nonce = s.Nonce[:8]; return s }},
				{"long nonce", func(s cryptoDomain.Sealed) cryptoDomain.Sealed {
					s.Nonce = append(append([]byte(nil), s.Nonce...), 0)
					return s
				}},
				{"missing nonce", func(s cryptoDomain.Sealed) cryptoDomain.Sealed { s.Nonce = nil; return s }},
				{"short tag", func(s cryptoDomain.Sealed) cryptoDomain.Sealed { s.Tag = s.Tag[:15]; return s }},
				{"missing tag", func(s cryptoDomain.Sealed) cryptoDomain.Sealed { s.Tag = nil; return s }},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					out, err := cipher.Decrypt(tt.mutate(sealed), nil)
					assert.ErrorIs(t, err, cryptoDomain.ErrInvalidInputLength)
					assert.NotErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
					assert.Nil(t, out)
				})
			}
		})
	}
}

func TestAEAD_CrossAlgorithm(t *testing.T) {
	key := newTestKey(t)
	ciphers := ciphersUnderTest(t, key)

	sealed, err := ciphers[cryptoDomain.AESGCM].Encrypt([]byte("data"), nil)
	require.NoError(t, err)

	_, err = ciphers[cryptoDomain.ChaCha20].Decrypt(sealed, nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
}
