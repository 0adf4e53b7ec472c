package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	"github.com/allisson/vault/internal/vault/http/dto"
	"github.com/allisson/vault/internal/vault/usecase/mocks"
)

func setupKeyHandler(t *testing.T) (*KeyHandler, *mocks.MockVaultUseCase) {
	t.Helper()

	mockUseCase := mocks.NewMockVaultUseCase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewKeyHandler(mockUseCase, logger), mockUseCase
}

func TestKeyHandler_RotateHandler(t *testing.T) {
	t.Run("Success_ReportsNewVersions", func(t *testing.T) {
		handler, mockUseCase := setupKeyHandler(t)

		previous := uint(2)
		now := time.Now().UTC()
		mockUseCase.On("ForceRotate", mock.Anything).
			Return(cryptoDomain.KeyInfo{
				CurrentVersion:  3,
				PreviousVersion: &previous,
				LastRotationAt:  now,
				NextRotationAt:  now.Add(time.Hour),
			}, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys/rotate", nil)
		handler.RotateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.KeyInfoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, uint(3), response.CurrentVersion)
		require.NotNil(t, response.PreviousVersion)
		assert.Equal(t, uint(2), *response.PreviousVersion)
	})

	t.Run("Error_KeyManagerClosed", func(t *testing.T) {
		handler, mockUseCase := setupKeyHandler(t)

		mockUseCase.On("ForceRotate", mock.Anything).
			Return(cryptoDomain.KeyInfo{}, cryptoDomain.ErrKeyManagerClosed).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys/rotate", nil)
		handler.RotateHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestKeyHandler_InfoHandler(t *testing.T) {
	handler, mockUseCase := setupKeyHandler(t)

	mockUseCase.On("KeyInfo", mock.Anything).
		Return(cryptoDomain.KeyInfo{CurrentVersion: 1}).
		Once()

	c, w := createTestContext(http.MethodGet, "/v1/keys/info", nil)
	handler.InfoHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"current_version": 1,
		"previous_version": null,
		"last_rotation_at": "0001-01-01T00:00:00Z",
		"next_rotation_at": "0001-01-01T00:00:00Z"
	}`, w.Body.String())
}
