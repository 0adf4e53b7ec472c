package dto

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// StoreRecordResponse is returned by POST /v1/records. It carries no payload.
type StoreRecordResponse struct {
	ID         string    `json:"id"`
	KeyVersion uint      `json:"key_version"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordResponse is an opened record.
// SECURITY: Data is plaintext and must only travel over HTTPS.
type RecordResponse struct {
	ID         string          `json:"id,omitempty"`
	Data       json.RawMessage `json:"data"`
	KeyVersion uint            `json:"key_version"`
	CreatedAt  time.Time       `json:"created_at"`
}

// EncryptedRecordResponse is a sealed record handed back to the caller,
// in the same shape DecryptRecordRequest accepts.
type EncryptedRecordResponse struct {
	Ciphertext string    `json:"ciphertext"`
	Nonce      string    `json:"nonce"`
	Tag        string    `json:"tag"`
	KeyVersion uint      `json:"key_version"`
	Algorithm  string    `json:"algorithm"`
	CreatedAt  time.Time `json:"created_at"`
}

// KeyInfoResponse describes the retained key versions.
type KeyInfoResponse struct {
	CurrentVersion  uint      `json:"current_version"`
	PreviousVersion *uint     `json:"previous_version"`
	LastRotationAt  time.Time `json:"last_rotation_at"`
	NextRotationAt  time.Time `json:"next_rotation_at"`
}

// StatsResponse summarizes stored records. Version keys are decimal strings.
type StatsResponse struct {
	TotalRecords     int             `json:"total_records"`
	RecordsByVersion map[string]int  `json:"records_by_version"`
	ReadableRecords  int             `json:"readable_records"`
	ExpiredRecords   int             `json:"expired_records"`
	Keys             KeyInfoResponse `json:"keys"`
}

// MapStoredRecordToResponse converts a stored record to its creation response.
func MapStoredRecordToResponse(record *vaultDomain.StoredRecord) StoreRecordResponse {
	return StoreRecordResponse{
		ID:         record.ID.String(),
		KeyVersion: record.KeyVersion,
		CreatedAt:  record.CreatedAt,
	}
}

// MapRetrievedRecordToResponse converts an opened record. Records opened from
// caller-held data have no ID and omit it.
func MapRetrievedRecordToResponse(record *vaultDomain.RetrievedRecord) RecordResponse {
	response := RecordResponse{
		Data:       record.Data,
		KeyVersion: record.KeyVersion,
		CreatedAt:  record.CreatedAt,
	}
	if record.ID != uuid.Nil {
		response.ID = record.ID.String()
	}
	return response
}

// MapEncryptedRecordToResponse base64-encodes a sealed record.
func MapEncryptedRecordToResponse(record *vaultDomain.EncryptedRecord) EncryptedRecordResponse {
	return EncryptedRecordResponse{
		Ciphertext: base64.StdEncoding.EncodeToString(record.Ciphertext),
		Nonce:      base64.StdEncoding.EncodeToString(record.Nonce),
		Tag:        base64.StdEncoding.EncodeToString(record.Tag),
		KeyVersion: record.KeyVersion,
		Algorithm:  string(record.Algorithm),
		CreatedAt:  record.CreatedAt,
	}
}

// MapKeyInfoToResponse converts key info.
func MapKeyInfoToResponse(info cryptoDomain.KeyInfo) KeyInfoResponse {
	return KeyInfoResponse{
		CurrentVersion:  info.CurrentVersion,
		PreviousVersion: info.PreviousVersion,
		LastRotationAt:  info.LastRotationAt,
		NextRotationAt:  info.NextRotationAt,
	}
}

// MapStatsToResponse converts record statistics.
func MapStatsToResponse(stats *vaultDomain.Stats) StatsResponse {
	byVersion := make(map[string]int, len(stats.RecordsByVersion))
	for version, count := range stats.RecordsByVersion {
		byVersion[strconv.FormatUint(uint64(version), 10)] = count
	}

	return StatsResponse{
		TotalRecords:     stats.TotalRecords,
		RecordsByVersion: byVersion,
		ReadableRecords:  stats.ReadableRecords,
		ExpiredRecords:   stats.ExpiredRecords,
		Keys:             MapKeyInfoToResponse(stats.Keys),
	}
}
