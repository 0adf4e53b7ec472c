package domain

import (
	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

// Stats summarizes stored records against the retained key versions.
type Stats struct {
	TotalRecords     int
	RecordsByVersion map[uint]int
	// ReadableRecords counts records sealed under the current or previous key.
	ReadableRecords int
	// ExpiredRecords counts records whose key version aged out.
	ExpiredRecords int
	Keys           cryptoDomain.KeyInfo
}
