package usecase

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// recordUseCase implements RecordUseCase on top of a VaultUseCase.
type recordUseCase struct {
	vault      VaultUseCase
	recordRepo RecordRepository
}

// compactPayload validates payload and returns its compact encoding.
func compactPayload(payload json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return nil, vaultDomain.ErrInvalidPayload
	}
	return buf.Bytes(), nil
}

// Store seals payload and keeps it in the repository.
func (r *recordUseCase) Store(ctx context.Context, payload json.RawMessage) (*vaultDomain.StoredRecord, error) {
	record, err := r.Encrypt(ctx, payload)
	if err != nil {
		return nil, err
	}

	stored := &vaultDomain.StoredRecord{
		ID:              uuid.Must(uuid.NewV7()),
		EncryptedRecord: *record,
	}
	if err := r.recordRepo.Create(ctx, stored); err != nil {
		return nil, err
	}

	return stored, nil
}

// Retrieve fetches a stored record and opens it.
func (r *recordUseCase) Retrieve(ctx context.Context, id uuid.UUID) (*vaultDomain.RetrievedRecord, error) {
	stored, err := r.recordRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	retrieved, err := r.Decrypt(ctx, &stored.EncryptedRecord)
	if err != nil {
		return nil, err
	}
	retrieved.ID = stored.ID

	return retrieved, nil
}

// Encrypt seals payload without storing it.
func (r *recordUseCase) Encrypt(
	ctx context.Context,
	payload json.RawMessage,
) (*vaultDomain.EncryptedRecord, error) {
	plaintext, err := compactPayload(payload)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	return r.vault.Write(ctx, plaintext)
}

// Decrypt opens a record and returns its payload verbatim.
func (r *recordUseCase) Decrypt(
	ctx context.Context,
	record *vaultDomain.EncryptedRecord,
) (*vaultDomain.RetrievedRecord, error) {
	decrypted, err := r.vault.Read(ctx, record)
	if err != nil {
		return nil, err
	}

	if !json.Valid(decrypted.Plaintext) {
		cryptoDomain.Zero(decrypted.Plaintext)
		return nil, vaultDomain.ErrInvalidPayload
	}

	return &vaultDomain.RetrievedRecord{
		Data:       json.RawMessage(decrypted.Plaintext),
		KeyVersion: decrypted.KeyVersion,
		CreatedAt:  decrypted.CreatedAt,
	}, nil
}

// Stats summarizes stored records against the retained key versions.
func (r *recordUseCase) Stats(ctx context.Context) (*vaultDomain.Stats, error) {
	total, err := r.recordRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	byVersion, err := r.recordRepo.CountByVersion(ctx)
	if err != nil {
		return nil, err
	}

	info := r.vault.KeyInfo(ctx)
	readable := byVersion[info.CurrentVersion]
	if info.PreviousVersion != nil {
		readable += byVersion[*info.PreviousVersion]
	}

	return &vaultDomain.Stats{
		TotalRecords:     total,
		RecordsByVersion: byVersion,
		ReadableRecords:  readable,
		ExpiredRecords:   total - readable,
		Keys:             info,
	}, nil
}

// NewRecordUseCase creates a new record use case instance with the provided dependencies.
func NewRecordUseCase(vault VaultUseCase, recordRepo RecordRepository) RecordUseCase {
	return &recordUseCase{
		vault:      vault,
		recordRepo: recordRepo,
	}
}
