package domain

import (
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. Callers inspect them with
// errors.Is; the raw cause of an authentication failure is never disclosed.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// The subsystem supports AESGCM (AES-256-GCM) only. This error is returned
	// when an unknown algorithm tag is encountered in stored metadata or a
	// cipher request.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// All keys must be exactly 32 bytes (256 bits) for AES-256-GCM. This error
	// is returned when key material of a different length is provided.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEncryptionFailed indicates an encryption operation failed.
	//
	// Typical causes are nonce generation failure or a value that cannot be
	// canonically serialized.
	ErrEncryptionFailed = errors.Wrap(errors.ErrInvalidInput, "encryption failed")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong decryption key used
	//   - Ciphertext has been tampered with (authentication failure)
	//   - Invalid nonce provided
	//   - Corrupted or malformed encrypted payload
	//
	// For security reasons, the specific cause is not disclosed to prevent
	// information leakage that could aid attackers. Decryption never returns a
	// silently-wrong plaintext.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrKeyNotFound indicates the referenced key id is not present in the key store.
	//
	// A missing key is fatal for the enclosing call; operations never fall back
	// to a different key.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "encryption key not found")

	// ErrKeyUsageNotAllowed indicates the key exists but does not permit the requested operation.
	ErrKeyUsageNotAllowed = errors.Wrap(errors.ErrForbidden, "key usage not allowed")

	// ErrKeyExpired indicates the key exists but its expiry has passed.
	ErrKeyExpired = errors.Wrap(errors.ErrForbidden, "encryption key expired")

	// ErrInvalidPayload indicates an encrypted payload is structurally invalid
	// (missing fields, bad base64, or wrong nonce length).
	ErrInvalidPayload = errors.Wrap(errors.ErrInvalidInput, "invalid encrypted payload")
)
