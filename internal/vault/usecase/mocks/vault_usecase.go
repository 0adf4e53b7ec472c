// Package mocks provides mock implementations of the vault use cases for testing.
package mocks

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// MockVaultUseCase is a mock implementation of VaultUseCase for testing.
type MockVaultUseCase struct {
	mock.Mock
}

// NewMockVaultUseCase creates a MockVaultUseCase whose expectations are asserted on cleanup.
func NewMockVaultUseCase(t testing.TB) *MockVaultUseCase {
	m := &MockVaultUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Write mocks the Write method of VaultUseCase.
func (m *MockVaultUseCase) Write(ctx context.Context, plaintext []byte) (*vaultDomain.EncryptedRecord, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.EncryptedRecord), args.Error(1)
}

// Read mocks the Read method of VaultUseCase.
func (m *MockVaultUseCase) Read(
	ctx context.Context,
	record *vaultDomain.EncryptedRecord,
) (*vaultDomain.DecryptedRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.DecryptedRecord), args.Error(1)
}

// ForceRotate mocks the ForceRotate method of VaultUseCase.
func (m *MockVaultUseCase) ForceRotate(ctx context.Context) (cryptoDomain.KeyInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(cryptoDomain.KeyInfo), args.Error(1)
}

// KeyInfo mocks the KeyInfo method of VaultUseCase.
func (m *MockVaultUseCase) KeyInfo(ctx context.Context) cryptoDomain.KeyInfo {
	args := m.Called(ctx)
	return args.Get(0).(cryptoDomain.KeyInfo)
}

// MockRecordUseCase is a mock implementation of RecordUseCase for testing.
type MockRecordUseCase struct {
	mock.Mock
}

// NewMockRecordUseCase creates a MockRecordUseCase whose expectations are asserted on cleanup.
func NewMockRecordUseCase(t testing.TB) *MockRecordUseCase {
	m := &MockRecordUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Store mocks the Store method of RecordUseCase.
func (m *MockRecordUseCase) Store(ctx context.Context, payload json.RawMessage) (*vaultDomain.StoredRecord, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.StoredRecord), args.Error(1)
}

// Retrieve mocks the Retrieve method of RecordUseCase.
func (m *MockRecordUseCase) Retrieve(ctx context.Context, id uuid.UUID) (*vaultDomain.RetrievedRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.RetrievedRecord), args.Error(1)
}

// Encrypt mocks the Encrypt method of RecordUseCase.
func (m *MockRecordUseCase) Encrypt(
	ctx context.Context,
	payload json.RawMessage,
) (*vaultDomain.EncryptedRecord, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.EncryptedRecord), args.Error(1)
}

// Decrypt mocks the Decrypt method of RecordUseCase.
func (m *MockRecordUseCase) Decrypt(
	ctx context.Context,
	record *vaultDomain.EncryptedRecord,
) (*vaultDomain.RetrievedRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.RetrievedRecord), args.Error(1)
}

// Stats mocks the Stats method of RecordUseCase.
func (m *MockRecordUseCase) Stats(ctx context.Context) (*vaultDomain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Stats), args.Error(1)
}

// MockRecordRepository is a mock implementation of RecordRepository for testing.
type MockRecordRepository struct {
	mock.Mock
}

// NewMockRecordRepository creates a MockRecordRepository whose expectations are asserted on cleanup.
func NewMockRecordRepository(t testing.TB) *MockRecordRepository {
	m := &MockRecordRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create mocks the Create method of RecordRepository.
func (m *MockRecordRepository) Create(ctx context.Context, record *vaultDomain.StoredRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Get mocks the Get method of RecordRepository.
func (m *MockRecordRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.StoredRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.StoredRecord), args.Error(1)
}

// Count mocks the Count method of RecordRepository.
func (m *MockRecordRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// CountByVersion mocks the CountByVersion method of RecordRepository.
func (m *MockRecordRepository) CountByVersion(ctx context.Context) (map[uint]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int), args.Error(1)
}
