package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/vault/internal/httputil"
	"github.com/allisson/vault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/vault/internal/vault/usecase"
)

// KeyHandler exposes key rotation and key info.
type KeyHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewKeyHandler creates a new key handler.
func NewKeyHandler(vaultUseCase vaultUseCase.VaultUseCase, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		vaultUseCase: vaultUseCase,
		logger:       logger,
	}
}

// RotateHandler rotates the keys immediately. Records sealed two or more
// versions ago stop being readable.
// POST /v1/keys/rotate
func (h *KeyHandler) RotateHandler(c *gin.Context) {
	info, err := h.vaultUseCase.ForceRotate(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("keys rotated on demand",
		slog.Uint64("current_version", uint64(info.CurrentVersion)))

	c.JSON(http.StatusOK, dto.MapKeyInfoToResponse(info))
}

// InfoHandler describes the retained key versions.
// GET /v1/keys/info
func (h *KeyHandler) InfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MapKeyInfoToResponse(h.vaultUseCase.KeyInfo(c.Request.Context())))
}
