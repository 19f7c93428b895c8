package usecase

import (
	"context"
	"time"

	auditDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/audit/domain"
	cryptoDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/domain"
	encryptionDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/encryption/domain"
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/metrics"
)

// encryptionUseCaseWithMetrics decorates EncryptionUseCase with metrics instrumentation.
type encryptionUseCaseWithMetrics struct {
	next    EncryptionUseCase
	metrics metrics.CryptoMetrics
}

// NewEncryptionUseCaseWithMetrics wraps an EncryptionUseCase with metrics recording.
func NewEncryptionUseCaseWithMetrics(useCase EncryptionUseCase, m metrics.CryptoMetrics) EncryptionUseCase {
	return &encryptionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the counter and duration for one operation.
func (e *encryptionUseCaseWithMetrics) record(
	ctx context.Context,
	action, entityType string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordOperation(ctx, action, entityType, status)
	e.metrics.RecordDuration(ctx, action, entityType, time.Since(start), status)
}

// Initialize records metrics for key bootstrap operations.
func (e *encryptionUseCaseWithMetrics) Initialize(ctx context.Context, password string) error {
	start := time.Now()
	err := e.next.Initialize(ctx, password)
	e.record(ctx, "initialize", "", start, err)
	return err
}

// State delegates without instrumentation.
func (e *encryptionUseCaseWithMetrics) State() State {
	return e.next.State()
}

// EncryptEntity records metrics for entity encryption operations.
func (e *encryptionUseCaseWithMetrics) EncryptEntity(
	ctx context.Context,
	entityType encryptionDomain.EntityType,
	entity encryptionDomain.Entity,
	opts EncryptOptions,
) (encryptionDomain.Entity, error) {
	start := time.Now()
	result, err := e.next.EncryptEntity(ctx, entityType, entity, opts)
	e.record(ctx, "encrypt", string(entityType), start, err)
	return result, err
}

// DecryptEntity records metrics for entity decryption operations.
func (e *encryptionUseCaseWithMetrics) DecryptEntity(
	ctx context.Context,
	entityType encryptionDomain.EntityType,
	entity encryptionDomain.Entity,
) (encryptionDomain.Entity, error) {
	start := time.Now()
	result, err := e.next.DecryptEntity(ctx, entityType, entity)
	e.record(ctx, "decrypt", string(entityType), start, err)
	return result, err
}

// EncryptEntities records metrics for batch encryption operations.
func (e *encryptionUseCaseWithMetrics) EncryptEntities(
	ctx context.Context,
	entityType encryptionDomain.EntityType,
	entities []encryptionDomain.Entity,
	opts EncryptOptions,
) ([]encryptionDomain.Entity, error) {
	start := time.Now()
	results, err := e.next.EncryptEntities(ctx, entityType, entities, opts)
	e.record(ctx, "encrypt_batch", string(entityType), start, err)
	return results, err
}

// DecryptEntities records metrics for batch decryption operations.
func (e *encryptionUseCaseWithMetrics) DecryptEntities(
	ctx context.Context,
	entityType encryptionDomain.EntityType,
	entities []encryptionDomain.Entity,
) ([]encryptionDomain.Entity, error) {
	start := time.Now()
	results, err := e.next.DecryptEntities(ctx, entityType, entities)
	e.record(ctx, "decrypt_batch", string(entityType), start, err)
	return results, err
}

// EncryptFileContent records metrics for file content encryption.
func (e *encryptionUseCaseWithMetrics) EncryptFileContent(
	ctx context.Context,
	content []byte,
	keyID string,
) (cryptoDomain.EncryptedPayload, error) {
	start := time.Now()
	payload, err := e.next.EncryptFileContent(ctx, content, keyID)
	e.record(ctx, "encrypt", string(fileContentTag), start, err)
	return payload, err
}

// DecryptFileContent records metrics for file content decryption.
func (e *encryptionUseCaseWithMetrics) DecryptFileContent(
	ctx context.Context,
	payload cryptoDomain.EncryptedPayload,
	keyID string,
) ([]byte, error) {
	start := time.Now()
	content, err := e.next.DecryptFileContent(ctx, payload, keyID)
	e.record(ctx, "decrypt", string(fileContentTag), start, err)
	return content, err
}

// GenerateKey records metrics for key generation operations.
func (e *encryptionUseCaseWithMetrics) GenerateKey(
	ctx context.Context,
	usage []cryptoDomain.KeyUsage,
) (string, error) {
	start := time.Now()
	keyID, err := e.next.GenerateKey(ctx, usage)
	e.record(ctx, "key_generate", "", start, err)
	return keyID, err
}

// HashPassword delegates without instrumentation.
func (e *encryptionUseCaseWithMetrics) HashPassword(password string) (string, error) {
	return e.next.HashPassword(password)
}

// VerifyPassword delegates without instrumentation.
func (e *encryptionUseCaseWithMetrics) VerifyPassword(password, encoded string) (bool, error) {
	return e.next.VerifyPassword(password, encoded)
}

// RegisterRule delegates without instrumentation.
func (e *encryptionUseCaseWithMetrics) RegisterRule(
	entityType encryptionDomain.EntityType,
	rule encryptionDomain.Rule,
) error {
	return e.next.RegisterRule(entityType, rule)
}

// SecurityLogs delegates without instrumentation.
func (e *encryptionUseCaseWithMetrics) SecurityLogs(filter auditDomain.Filter) []auditDomain.Entry {
	return e.next.SecurityLogs(filter)
}

// Stats delegates without instrumentation.
func (e *encryptionUseCaseWithMetrics) Stats() Stats {
	return e.next.Stats()
}
