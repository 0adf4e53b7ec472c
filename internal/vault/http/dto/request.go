// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/base64"
	"encoding/json"
	"time"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	customValidation "github.com/allisson/vault/internal/validation"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// RecordDataRequest carries a JSON payload to seal, for both store and encrypt.
type RecordDataRequest struct {
	Data json.RawMessage `json:"data"`
}

// Validate checks that data is present and is a single JSON value.
func (r *RecordDataRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Data, validation.Required, customValidation.JSONValue),
	)
}

// DecryptRecordRequest carries a sealed record held by the caller.
// Binary fields are standard base64.
type DecryptRecordRequest struct {
	Ciphertext string    `json:"ciphertext"`
	Nonce      string    `json:"nonce"`
	Tag        string    `json:"tag"`
	KeyVersion uint      `json:"key_version"`
	Algorithm  string    `json:"algorithm,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// Validate checks field presence and encoding. Lengths are enforced by the cipher.
func (r *DecryptRecordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext, customValidation.Base64),
		validation.Field(&r.Nonce, validation.Required, customValidation.Base64),
		validation.Field(&r.Tag, validation.Required, customValidation.Base64),
		validation.Field(&r.KeyVersion, validation.Required),
		validation.Field(&r.Algorithm, customValidation.Algorithm),
	)
}

// ToEncryptedRecord decodes the request into a domain record. Call Validate first.
func (r *DecryptRecordRequest) ToEncryptedRecord() (*vaultDomain.EncryptedRecord, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(r.Ciphertext)
	if err != nil {
		return nil, err
	}
	nonce, err := base64.StdEncoding.DecodeString(r.Nonce)
	if err != nil {
		return nil, err
	}
	tag, err := base64.StdEncoding.DecodeString(r.Tag)
	if err != nil {
		return nil, err
	}

	return &vaultDomain.EncryptedRecord{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Tag:        tag,
		KeyVersion: r.KeyVersion,
		Algorithm:  cryptoDomain.Algorithm(r.Algorithm),
		CreatedAt:  r.CreatedAt,
	}, nil
}
