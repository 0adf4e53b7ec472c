package dto

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

func TestRecordDataRequest_Validate(t *testing.T) {
	t.Run("Success_Object", func(t *testing.T) {
		req := RecordDataRequest{Data: json.RawMessage(`{"a":1}`)}
		assert.NoError(t, req.Validate())
	})

	t.Run("Success_Scalar", func(t *testing.T) {
		req := RecordDataRequest{Data: json.RawMessage(`"text"`)}
		assert.NoError(t, req.Validate())
	})

	t.Run("Error_Missing", func(t *testing.T) {
		req := RecordDataRequest{}
		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "data")
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		req := RecordDataRequest{Data: json.RawMessage(`{"a":`)}
		assert.Error(t, req.Validate())
	})
}

func validDecryptRequest() DecryptRecordRequest {
	return DecryptRecordRequest{
		Ciphertext: base64.StdEncoding.EncodeToString([]byte("ciphertext")),
		Nonce:      base64.StdEncoding.EncodeToString(make([]byte, cryptoDomain.NonceSize)),
		Tag:        base64.StdEncoding.EncodeToString(make([]byte, cryptoDomain.TagSize)),
		KeyVersion: 1,
		Algorithm:  string(cryptoDomain.AESGCM),
	}
}

func TestDecryptRecordRequest_Validate(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := validDecryptRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("Success_EmptyCiphertextAndAlgorithm", func(t *testing.T) {
		req := validDecryptRequest()
		req.Ciphertext = ""
		req.Algorithm = ""
		assert.NoError(t, req.Validate())
	})

	tests := []struct {
		name   string
		mutate func(r *DecryptRecordRequest)
		field  string
	}{
		{"Error_MissingNonce", func(r *DecryptRecordRequest) { r.Nonce = "" }, "nonce"},
		{"Error_InvalidTag", func(r *DecryptRecordRequest) { r.Tag = "not*base64" }, "tag"},
		{"Error_InvalidCiphertext", func(r *DecryptRecordRequest) { r.Ciphertext = "%%%" }, "ciphertext"},
		{"Error_ZeroVersion", func(r *DecryptRecordRequest) { r.KeyVersion = 0 }, "key_version"},
		{"Error_UnknownAlgorithm", func(r *DecryptRecordRequest) { r.Algorithm = "rot13" }, "algorithm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validDecryptRequest()
			tt.mutate(&req)
			err := req.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDecryptRecordRequest_ToEncryptedRecord(t *testing.T) {
	req := validDecryptRequest()
	req.KeyVersion = 7

	record, err := req.ToEncryptedRecord()
	require.NoError(t, err)

	assert.Equal(t, []byte("ciphertext"), record.Ciphertext)
	assert.Len(t, record.Nonce, cryptoDomain.NonceSize)
	assert.Len(t, record.Tag, cryptoDomain.TagSize)
	assert.Equal(t, uint(7), record.KeyVersion)
	assert.Equal(t, cryptoDomain.AESGCM, record.Algorithm)
}
