// Package http provides HTTP handlers for the vault: sealing and opening
// JSON records and managing the rotating keys.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	"github.com/allisson/vault/internal/httputil"
	customValidation "github.com/allisson/vault/internal/validation"
	"github.com/allisson/vault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/vault/internal/vault/usecase"
)

// RecordHandler handles HTTP requests for record operations.
type RecordHandler struct {
	recordUseCase vaultUseCase.RecordUseCase
	logger        *slog.Logger
}

// NewRecordHandler creates a new record handler with required dependencies.
func NewRecordHandler(recordUseCase vaultUseCase.RecordUseCase, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		recordUseCase: recordUseCase,
		logger:        logger,
	}
}

// bindRecordData parses and validates a {"data": ...} body. It writes the
// error response itself and reports whether the handler may continue.
func (h *RecordHandler) bindRecordData(c *gin.Context) (*dto.RecordDataRequest, bool) {
	var req dto.RecordDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return nil, false
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return nil, false
	}

	return &req, true
}

// StoreHandler seals a JSON payload and keeps it.
// POST /v1/records
// Returns 201 Created with the record ID and key version, never the payload.
func (h *RecordHandler) StoreHandler(c *gin.Context) {
	req, ok := h.bindRecordData(c)
	if !ok {
		return
	}

	record, err := h.recordUseCase.Store(c.Request.Context(), req.Data)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapStoredRecordToResponse(record))
}

// GetHandler opens a stored record.
// GET /v1/records/:id
// Returns 410 Gone when the record's key version has expired.
func (h *RecordHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			customValidation.WrapValidationError(fmt.Errorf("id: must be a valid UUID")),
			h.logger,
		)
		return
	}

	record, err := h.recordUseCase.Retrieve(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// SECURITY: Zero plaintext once the response is written
	defer cryptoDomain.Zero(record.Data)

	c.JSON(http.StatusOK, dto.MapRetrievedRecordToResponse(record))
}

// EncryptHandler seals a JSON payload without storing it.
// POST /v1/records/encrypt
// Returns 200 OK with the full sealed record, base64-encoded.
func (h *RecordHandler) EncryptHandler(c *gin.Context) {
	req, ok := h.bindRecordData(c)
	if !ok {
		return
	}

	record, err := h.recordUseCase.Encrypt(c.Request.Context(), req.Data)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEncryptedRecordToResponse(record))
}

// DecryptHandler opens a sealed record held by the caller.
// POST /v1/records/decrypt
func (h *RecordHandler) DecryptHandler(c *gin.Context) {
	var req dto.DecryptRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	encrypted, err := req.ToEncryptedRecord()
	if err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.recordUseCase.Decrypt(c.Request.Context(), encrypted)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// SECURITY: Zero plaintext once the response is written
	defer cryptoDomain.Zero(record.Data)

	c.JSON(http.StatusOK, dto.MapRetrievedRecordToResponse(record))
}

// StatsHandler reports how many stored records each key version holds.
// GET /v1/stats
func (h *RecordHandler) StatsHandler(c *gin.Context) {
	stats, err := h.recordUseCase.Stats(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatsToResponse(stats))
}
