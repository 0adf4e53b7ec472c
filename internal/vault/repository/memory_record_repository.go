// Package repository provides record storage for the vault.
package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/allisson/vault/internal/errors"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// ErrRecordExists indicates a record with the same id was already stored.
var ErrRecordExists = errors.Wrap(errors.ErrConflict, "record already exists")

// MemoryRecordRepository keeps sealed records in process memory.
//
// Records are copied on the way in and out so callers never share
// backing arrays with the store. Plaintext never reaches this type.
type MemoryRecordRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*vaultDomain.StoredRecord
}

// NewMemoryRecordRepository creates an empty MemoryRecordRepository.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{
		records: make(map[uuid.UUID]*vaultDomain.StoredRecord),
	}
}

// Create stores a record under its id.
func (r *MemoryRecordRepository) Create(ctx context.Context, record *vaultDomain.StoredRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.ID]; ok {
		return ErrRecordExists
	}
	r.records[record.ID] = cloneRecord(record)
	return nil
}

// Get returns the record with id or ErrRecordNotFound.
func (r *MemoryRecordRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.StoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, vaultDomain.ErrRecordNotFound
	}
	return cloneRecord(record), nil
}

// Count returns the number of stored records.
func (r *MemoryRecordRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records), nil
}

// CountByVersion returns the number of stored records per key version.
func (r *MemoryRecordRepository) CountByVersion(ctx context.Context) (map[uint]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[uint]int)
	for _, record := range r.records {
		counts[record.KeyVersion]++
	}
	return counts, nil
}

func cloneRecord(record *vaultDomain.StoredRecord) *vaultDomain.StoredRecord {
	clone := *record
	clone.Ciphertext = append([]byte(nil), record.Ciphertext...)
	clone.Nonce = append([]byte(nil), record.Nonce...)
	clone.Tag = append([]byte(nil), record.Tag...)
	return &clone
}
