// Package validation provides custom validation rules for request DTOs.
package validation

import (
	"encoding/base64"
	"encoding/json"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	apperrors "github.com/allisson/vault/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Base64 validates that a string is standard base64-encoded data.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// JSONValue validates that a raw message holds exactly one JSON value.
var JSONValue = validation.By(func(value interface{}) error {
	raw, ok := value.(json.RawMessage)
	if !ok {
		return validation.NewError("validation_json_type", "must be a JSON value")
	}
	if len(raw) == 0 {
		return nil // Let Required handle missing values
	}
	if !json.Valid(raw) {
		return validation.NewError("validation_json", "must be valid JSON")
	}
	return nil
})

// Algorithm validates that a string names a supported AEAD algorithm. Empty is allowed.
var Algorithm = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_algorithm_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if _, err := cryptoDomain.ParseAlgorithm(s); err != nil {
		return validation.NewError(
			"validation_algorithm",
			"must be one of "+string(cryptoDomain.AESGCM)+", "+string(cryptoDomain.ChaCha20),
		)
	}
	return nil
})
