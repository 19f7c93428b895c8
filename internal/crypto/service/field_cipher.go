package service

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/domain"
)

// FieldCipher encrypts and decrypts JSON-serializable values under one key.
//
// The cipher is constructed from opaque raw key material; the actual AES-256
// key is stretched from it with PBKDF2-SHA256 under the fixed application
// salt. Derivation is the only expensive step and runs at most once per
// instance, on first use, never per call. After derivation the instance is
// immutable and safe for concurrent use.
//
// Values are canonically serialized as JSON before encryption, so the
// round-trip law holds under JSON value semantics: numbers come back as
// float64, objects as map[string]any. Plaintext input to DecryptValue is
// passed through unchanged, which keeps reads of legacy unencrypted cache
// rows working.
//
// The cipher never logs plaintext values or key material.
type FieldCipher struct {
	material   string
	iterations int
	salt       []byte

	deriveOnce sync.Once
	deriveErr  error
	aead       AEAD
}

// FieldCipherOption customizes a FieldCipher.
type FieldCipherOption func(*FieldCipher)

// WithCipherIterations overrides the PBKDF2 iteration count used for key
// stretching. Values below the domain minimum are raised to it.
func WithCipherIterations(iterations int) FieldCipherOption {
	return func(c *FieldCipher) {
		if iterations > c.iterations {
			c.iterations = iterations
		}
	}
}

// WithCipherSalt overrides the application salt used for key stretching.
func WithCipherSalt(salt string) FieldCipherOption {
	return func(c *FieldCipher) {
		if salt != "" {
			c.salt = []byte(salt)
		}
	}
}

// NewFieldCipher creates a FieldCipher bound to the given raw key material.
// The key is not derived yet; derivation happens lazily on first use.
func NewFieldCipher(material string, opts ...FieldCipherOption) *FieldCipher {
	cipher := &FieldCipher{
		material:   material,
		iterations: cryptoDomain.MinKeyDerivationIterations,
		salt:       []byte(defaultDerivationSalt),
	}
	for _, opt := range opts {
		opt(cipher)
	}
	return cipher
}

// derive stretches the raw material into the AES key and builds the AEAD.
// Runs exactly once per instance; concurrent callers share the result.
func (c *FieldCipher) derive() error {
	c.deriveOnce.Do(func() {
		key := pbkdf2.Key([]byte(c.material), c.salt, c.iterations, cryptoDomain.KeySize, sha256.New)
		c.aead, c.deriveErr = NewAESGCM(key)
		cryptoDomain.Zero(key)
	})
	return c.deriveErr
}

// EncryptValue serializes value as JSON, encrypts it under a fresh random
// nonce, and returns the base64 payload.
func (c *FieldCipher) EncryptValue(value any) (cryptoDomain.EncryptedPayload, error) {
	if err := c.derive(); err != nil {
		return cryptoDomain.EncryptedPayload{}, err
	}

	plaintext, err := json.Marshal(value)
	if err != nil {
		return cryptoDomain.EncryptedPayload{}, fmt.Errorf(
			"%w: value not serializable: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	ciphertext, nonce, err := c.aead.Encrypt(plaintext, nil)
	if err != nil {
		return cryptoDomain.EncryptedPayload{}, fmt.Errorf(
			"%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	return cryptoDomain.NewEncryptedPayload(ciphertext, nonce), nil
}

// DecryptValue decrypts a payload back into its JSON value.
//
// Non-payload input (the encrypted marker is absent or falsy) is returned
// unchanged. A structurally malformed payload or a failed authentication
// check returns ErrDecryptionFailed; a silently-wrong plaintext is never
// returned.
func (c *FieldCipher) DecryptValue(value any) (any, error) {
	payload, ok := cryptoDomain.PayloadFromValue(value)
	if !ok {
		return value, nil
	}

	plaintext, err := c.open(payload)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(plaintext, &decoded); err != nil {
		return nil, fmt.Errorf("%w: plaintext not valid JSON: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return decoded, nil
}

// EncryptFields returns a shallow copy of the entity with the named fields
// replaced by encrypted payloads.
//
// Absent and nil fields are skipped without error, as are fields that
// already hold an encrypted payload: a field is either plaintext or a
// payload, never a payload of a payload.
func (c *FieldCipher) EncryptFields(
	entity map[string]any,
	fields []string,
) (map[string]any, error) {
	result := maps.Clone(entity)

	for _, field := range fields {
		value, ok := entity[field]
		if !ok || value == nil {
			continue
		}
		if _, alreadyEncrypted := cryptoDomain.PayloadFromValue(value); alreadyEncrypted {
			continue
		}

		payload, err := c.EncryptValue(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		result[field] = payload
	}

	return result, nil
}

// DecryptFields returns a shallow copy of the entity with the named fields
// decrypted. Absent fields and plaintext fields are skipped without error.
func (c *FieldCipher) DecryptFields(
	entity map[string]any,
	fields []string,
) (map[string]any, error) {
	result := maps.Clone(entity)

	for _, field := range fields {
		value, ok := entity[field]
		if !ok || value == nil {
			continue
		}

		decrypted, err := c.DecryptValue(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		result[field] = decrypted
	}

	return result, nil
}

// EncryptBytes encrypts raw binary content into a payload. Unlike
// EncryptValue there is no JSON step; the payload's base64 envelope carries
// the bytes as-is, so decryption is byte-exact.
func (c *FieldCipher) EncryptBytes(content []byte) (cryptoDomain.EncryptedPayload, error) {
	if err := c.derive(); err != nil {
		return cryptoDomain.EncryptedPayload{}, err
	}

	ciphertext, nonce, err := c.aead.Encrypt(content, nil)
	if err != nil {
		return cryptoDomain.EncryptedPayload{}, fmt.Errorf(
			"%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	return cryptoDomain.NewEncryptedPayload(ciphertext, nonce), nil
}

// DecryptBytes decrypts a payload produced by EncryptBytes back into raw bytes.
func (c *FieldCipher) DecryptBytes(payload cryptoDomain.EncryptedPayload) ([]byte, error) {
	return c.open(payload)
}

// open validates the payload, derives the key if needed, and opens the
// ciphertext. All failure modes surface as ErrDecryptionFailed.
func (c *FieldCipher) open(payload cryptoDomain.EncryptedPayload) ([]byte, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	if err := c.derive(); err != nil {
		return nil, err
	}

	ciphertext, err := payload.DataBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	nonce, err := payload.IVBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}

	return c.aead.Decrypt(ciphertext, nonce, nil)
}
