package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	"github.com/allisson/vault/internal/metrics"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Write records metrics for vault writes.
func (v *vaultUseCaseWithMetrics) Write(
	ctx context.Context,
	plaintext []byte,
) (*vaultDomain.EncryptedRecord, error) {
	start := time.Now()
	record, err := v.next.Write(ctx, plaintext)
	metrics.Observe(ctx, v.metrics, "vault", "vault_write", start, err)
	return record, err
}

// Read records metrics for vault reads. Expired and rejected reads get their own status.
func (v *vaultUseCaseWithMetrics) Read(
	ctx context.Context,
	record *vaultDomain.EncryptedRecord,
) (*vaultDomain.DecryptedRecord, error) {
	start := time.Now()
	decrypted, err := v.next.Read(ctx, record)
	metrics.Observe(ctx, v.metrics, "vault", "vault_read", start, err)
	return decrypted, err
}

// ForceRotate records metrics for manual rotations.
func (v *vaultUseCaseWithMetrics) ForceRotate(ctx context.Context) (cryptoDomain.KeyInfo, error) {
	start := time.Now()
	info, err := v.next.ForceRotate(ctx)
	metrics.Observe(ctx, v.metrics, "keys", "key_rotate", start, err)
	return info, err
}

// KeyInfo is not instrumented.
func (v *vaultUseCaseWithMetrics) KeyInfo(ctx context.Context) cryptoDomain.KeyInfo {
	return v.next.KeyInfo(ctx)
}

// recordUseCaseWithMetrics decorates RecordUseCase with metrics instrumentation.
type recordUseCaseWithMetrics struct {
	next    RecordUseCase
	metrics metrics.BusinessMetrics
}

// NewRecordUseCaseWithMetrics wraps a RecordUseCase with metrics recording.
func NewRecordUseCaseWithMetrics(useCase RecordUseCase, m metrics.BusinessMetrics) RecordUseCase {
	return &recordUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Store records metrics for record storage.
func (r *recordUseCaseWithMetrics) Store(
	ctx context.Context,
	payload json.RawMessage,
) (*vaultDomain.StoredRecord, error) {
	start := time.Now()
	record, err := r.next.Store(ctx, payload)
	metrics.Observe(ctx, r.metrics, "records", "record_store", start, err)
	return record, err
}

// Retrieve records metrics for record retrieval.
func (r *recordUseCaseWithMetrics) Retrieve(
	ctx context.Context,
	id uuid.UUID,
) (*vaultDomain.RetrievedRecord, error) {
	start := time.Now()
	record, err := r.next.Retrieve(ctx, id)
	metrics.Observe(ctx, r.metrics, "records", "record_retrieve", start, err)
	return record, err
}

// Encrypt records metrics for stateless encryption.
func (r *recordUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	payload json.RawMessage,
) (*vaultDomain.EncryptedRecord, error) {
	start := time.Now()
	record, err := r.next.Encrypt(ctx, payload)
	metrics.Observe(ctx, r.metrics, "records", "record_encrypt", start, err)
	return record, err
}

// Decrypt records metrics for stateless decryption.
func (r *recordUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	record *vaultDomain.EncryptedRecord,
) (*vaultDomain.RetrievedRecord, error) {
	start := time.Now()
	retrieved, err := r.next.Decrypt(ctx, record)
	metrics.Observe(ctx, r.metrics, "records", "record_decrypt", start, err)
	return retrieved, err
}

// Stats records metrics for statistics queries.
func (r *recordUseCaseWithMetrics) Stats(ctx context.Context) (*vaultDomain.Stats, error) {
	start := time.Now()
	stats, err := r.next.Stats(ctx)
	metrics.Observe(ctx, r.metrics, "records", "record_stats", start, err)
	return stats, err
}
