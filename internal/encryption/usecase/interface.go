// Package usecase implements the encryption manager: the orchestration layer
// that decides what to encrypt, owns the key lifecycle, and records every
// cryptographic operation in the security audit log.
package usecase

import (
	"context"

	auditDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/audit/domain"
	cryptoDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/domain"
	encryptionDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/encryption/domain"
)

// State is the encryption manager lifecycle state.
type State string

const (
	// StateUninitialized is the state before Initialize is called.
	StateUninitialized State = "uninitialized"

	// StateInitializing is the transient state while keys are being derived.
	StateInitializing State = "initializing"

	// StateReady is the operational state; all operations require it.
	StateReady State = "ready"
)

// AuditLogRepository defines the audit log surface the manager depends on.
type AuditLogRepository interface {
	Append(entry auditDomain.Entry)
	List(filter auditDomain.Filter) []auditDomain.Entry
	Stats() auditDomain.Stats
	Capacity() int
}

// EncryptOptions tunes a single entity encryption call.
type EncryptOptions struct {
	// ForceEncrypt encrypts every field except the fixed ignore list,
	// bypassing the rule table. It also overrides the global disabled flag.
	ForceEncrypt bool
	// KeyID selects a specific key instead of the entity type's default key.
	// A missing key is fatal for the call; there is no fallback key.
	KeyID string
}

// Stats is the diagnostics snapshot exposed to the security dashboard.
// It is informational only and never used for access-control decisions.
type Stats struct {
	State            State
	Enabled          bool
	TotalKeys        int
	KeysByProvenance map[cryptoDomain.KeyProvenance]int
	Operations       auditDomain.Stats
	AuditCapacity    int
}

// EncryptionUseCase is the manager surface offered to the offline-storage
// and file-cache collaborators and to the read-only security dashboard.
type EncryptionUseCase interface {
	// Initialize derives the session keys and moves the manager to READY.
	// With a password the master key is derived deterministically from it;
	// without one a random master key is used. Re-initialization is explicit
	// and invalidates previously derived keys.
	Initialize(ctx context.Context, password string) error

	// State returns the current lifecycle state.
	State() State

	// EncryptEntity returns a copy of the entity with the selected fields
	// replaced by encrypted payloads and a metadata block attached.
	EncryptEntity(
		ctx context.Context,
		entityType encryptionDomain.EntityType,
		entity encryptionDomain.Entity,
		opts EncryptOptions,
	) (encryptionDomain.Entity, error)

	// DecryptEntity is the inverse of EncryptEntity. Entities without a
	// metadata block pass through unchanged.
	DecryptEntity(
		ctx context.Context,
		entityType encryptionDomain.EntityType,
		entity encryptionDomain.Entity,
	) (encryptionDomain.Entity, error)

	// EncryptEntities encrypts a batch of entities of one type concurrently.
	// The batch fails as a whole on the first error.
	EncryptEntities(
		ctx context.Context,
		entityType encryptionDomain.EntityType,
		entities []encryptionDomain.Entity,
		opts EncryptOptions,
	) ([]encryptionDomain.Entity, error)

	// DecryptEntities decrypts a batch of entities of one type concurrently.
	DecryptEntities(
		ctx context.Context,
		entityType encryptionDomain.EntityType,
		entities []encryptionDomain.Entity,
	) ([]encryptionDomain.Entity, error)

	// EncryptFileContent encrypts raw binary content. Pass an empty keyID to
	// use the master key.
	EncryptFileContent(
		ctx context.Context,
		content []byte,
		keyID string,
	) (cryptoDomain.EncryptedPayload, error)

	// DecryptFileContent decrypts a payload produced by EncryptFileContent
	// back into a byte-identical buffer.
	DecryptFileContent(
		ctx context.Context,
		payload cryptoDomain.EncryptedPayload,
		keyID string,
	) ([]byte, error)

	// GenerateKey mints a purpose-scoped random key and returns its id.
	// Empty usage defaults to encrypt+decrypt.
	GenerateKey(ctx context.Context, usage []cryptoDomain.KeyUsage) (string, error)

	// HashPassword hashes a credential on the independent PBKDF2 path.
	HashPassword(password string) (string, error)

	// VerifyPassword verifies a credential against its hash. Attempts are
	// throttled; exhaustion returns ErrTooManyAttempts.
	VerifyPassword(password, encoded string) (bool, error)

	// RegisterRule adds or replaces the encryption rule for an entity type.
	RegisterRule(entityType encryptionDomain.EntityType, rule encryptionDomain.Rule) error

	// SecurityLogs returns audit entries matching the filter, newest first.
	SecurityLogs(filter auditDomain.Filter) []auditDomain.Entry

	// Stats returns the diagnostics snapshot.
	Stats() Stats
}
