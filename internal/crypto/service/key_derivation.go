package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/domain"
)

// defaultDerivationSalt is the fixed application salt used for password-based
// master key derivation. It is not a secret; its role is to bind derived keys
// to this application so the same password produces different keys elsewhere.
// Changing it invalidates every previously derived master key.
const defaultDerivationSalt = "bluebirdhub-offline-encryption-v1"

// DeviceFingerprint carries the ambient device identity used for device key
// derivation. None of the fields are secret on their own; the fresh entropy
// mixed in at derivation time is what makes the resulting key unguessable.
type DeviceFingerprint struct {
	// UserAgent identifies the hosting application build.
	UserAgent string
	// Platform identifies the operating system / architecture.
	Platform string
}

// KeyDeriver derives key material for the manager's key bootstrap.
//
// Two derivation paths exist:
//   - password path: PBKDF2-SHA256 with a fixed application salt, deterministic
//     so the same password always reproduces the same master key for a profile
//   - device path: device-fingerprint inputs mixed with fresh randomness
//     through HKDF, intentionally non-reproducible across reinstalls
//
// Subkeys (one default key per entity type) are expanded from a parent key
// with HKDF using the subkey name as the info string.
type KeyDeriver struct {
	iterations int
	salt       []byte
}

// KeyDeriverOption customizes a KeyDeriver.
type KeyDeriverOption func(*KeyDeriver)

// WithIterations overrides the PBKDF2 iteration count. Values below the
// domain minimum are raised to it.
func WithIterations(iterations int) KeyDeriverOption {
	return func(d *KeyDeriver) {
		d.iterations = iterations
	}
}

// WithSalt overrides the application salt for password derivation.
func WithSalt(salt string) KeyDeriverOption {
	return func(d *KeyDeriver) {
		if salt != "" {
			d.salt = []byte(salt)
		}
	}
}

// NewKeyDeriver creates a KeyDeriver with the default salt and iteration count.
func NewKeyDeriver(opts ...KeyDeriverOption) *KeyDeriver {
	deriver := &KeyDeriver{
		iterations: cryptoDomain.MinKeyDerivationIterations,
		salt:       []byte(defaultDerivationSalt),
	}
	for _, opt := range opts {
		opt(deriver)
	}
	if deriver.iterations < cryptoDomain.MinKeyDerivationIterations {
		deriver.iterations = cryptoDomain.MinKeyDerivationIterations
	}
	return deriver
}

// Iterations returns the effective PBKDF2 iteration count.
func (d *KeyDeriver) Iterations() int {
	return d.iterations
}

// DeriveMasterKey derives 32 bytes of master key material from a password.
// The derivation is deterministic: the same password and salt always produce
// the same material. This is the expensive step (PBKDF2 at the configured
// iteration count) and must run once per initialization, never per call.
func (d *KeyDeriver) DeriveMasterKey(password string) []byte {
	return pbkdf2.Key([]byte(password), d.salt, d.iterations, cryptoDomain.KeySize, sha256.New)
}

// DeriveDeviceKey derives 32 bytes of device key material from the device
// fingerprint mixed with fresh randomness.
//
// The randomness makes the key non-reproducible: a reinstall or a different
// device cannot recover it. This is deliberate; the device key offers
// best-effort local-only protection with accepted data loss on reinstall.
func (d *KeyDeriver) DeriveDeviceKey(fingerprint DeviceFingerprint) ([]byte, error) {
	entropy := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(entropy); err != nil {
		return nil, fmt.Errorf("failed to gather device key entropy: %w", err)
	}

	secret := make([]byte, 0, len(fingerprint.UserAgent)+len(fingerprint.Platform)+len(entropy))
	secret = append(secret, fingerprint.UserAgent...)
	secret = append(secret, fingerprint.Platform...)
	secret = append(secret, entropy...)

	reader := hkdf.New(sha256.New, secret, d.salt, []byte("device-key"))
	material := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(reader, material); err != nil {
		return nil, fmt.Errorf("failed to derive device key: %w", err)
	}

	cryptoDomain.Zero(entropy)
	cryptoDomain.Zero(secret)
	return material, nil
}

// DeriveSubKey expands 32 bytes of subkey material from a parent key using
// HKDF with the given info string. The same parent and info always produce
// the same subkey, so per-entity-type default keys survive re-derivation as
// long as the parent does.
func (d *KeyDeriver) DeriveSubKey(parent []byte, info string) ([]byte, error) {
	if len(parent) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	reader := hkdf.New(sha256.New, parent, d.salt, []byte(info))
	material := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(reader, material); err != nil {
		return nil, fmt.Errorf("failed to derive subkey %q: %w", info, err)
	}
	return material, nil
}

// GenerateKeyMaterial returns fresh random 256-bit key material, hex-encoded.
func GenerateKeyMaterial() (string, error) {
	material := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(material); err != nil {
		return "", fmt.Errorf("failed to generate key material: %w", err)
	}
	return hex.EncodeToString(material), nil
}
