// Package service provides the cryptographic services of the offline data
// encryption subsystem: the AES-256-GCM AEAD cipher, the JSON field cipher
// built on top of it, key derivation, the in-memory key store, and the
// PBKDF2 password hashing path.
package service

import (
	cryptoDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// Cipher defines the value-level encryption surface used by the encryption
// manager. One Cipher instance is bound to one key; the expensive key
// derivation happens at most once per instance.
type Cipher interface {
	// EncryptValue serializes a JSON-serializable value and encrypts it into a payload.
	EncryptValue(value any) (cryptoDomain.EncryptedPayload, error)

	// DecryptValue decrypts a payload back into its value. Non-payload input is
	// returned unchanged (plaintext pass-through).
	DecryptValue(value any) (any, error)

	// EncryptFields returns a shallow copy of the entity with the named fields
	// replaced by encrypted payloads. Absent fields are skipped without error.
	EncryptFields(entity map[string]any, fields []string) (map[string]any, error)

	// DecryptFields returns a shallow copy of the entity with the named fields
	// decrypted. Absent and plaintext fields are skipped without error.
	DecryptFields(entity map[string]any, fields []string) (map[string]any, error)

	// EncryptBytes encrypts raw binary content into a payload.
	EncryptBytes(content []byte) (cryptoDomain.EncryptedPayload, error)

	// DecryptBytes decrypts a payload produced by EncryptBytes back into raw bytes.
	DecryptBytes(payload cryptoDomain.EncryptedPayload) ([]byte, error)
}

// KeyStore defines the interface for the named key registry.
type KeyStore interface {
	// Put registers a key under its id, replacing any previous key with that id.
	Put(key *cryptoDomain.EncryptionKey)

	// Get returns the key for the given id. Returns ErrKeyNotFound for unknown
	// ids and ErrKeyExpired for keys past their expiry.
	Get(id string) (*cryptoDomain.EncryptionKey, error)

	// Remove deletes a key and destroys its material.
	Remove(id string)

	// Clear destroys all keys. Used on re-initialization.
	Clear()

	// IDs returns the registered key ids.
	IDs() []string

	// Count returns the number of registered keys.
	Count() int

	// CountByProvenance returns key counts grouped by provenance.
	CountByProvenance() map[cryptoDomain.KeyProvenance]int
}
