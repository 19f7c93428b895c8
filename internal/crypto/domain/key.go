package domain

import (
	"encoding/json"
	"log/slog"
	"slices"
	"time"
)

// EncryptionKey is a named key held by the key store.
//
// The raw key material is unexported and reachable only through Material(),
// which exists for the cipher construction boundary. Keys are referenced by
// id everywhere else; both JSON serialization and slog logging redact the
// material so it can never leak into the audit log or persisted entities.
type EncryptionKey struct {
	id         string
	material   []byte
	provenance KeyProvenance
	createdAt  time.Time
	expiresAt  time.Time
	usage      []KeyUsage
}

// KeyOption customizes key construction.
type KeyOption func(*EncryptionKey)

// WithExpiry sets an expiry timestamp on the key.
func WithExpiry(expiresAt time.Time) KeyOption {
	return func(k *EncryptionKey) {
		k.expiresAt = expiresAt
	}
}

// NewEncryptionKey constructs a key from raw 32-byte material.
// The material slice is copied; callers should Zero their copy after use.
// Returns ErrInvalidKeySize if the material is not exactly 32 bytes.
func NewEncryptionKey(
	id string,
	material []byte,
	provenance KeyProvenance,
	usage []KeyUsage,
	opts ...KeyOption,
) (*EncryptionKey, error) {
	if len(material) != KeySize {
		return nil, ErrInvalidKeySize
	}

	key := &EncryptionKey{
		id:         id,
		material:   slices.Clone(material),
		provenance: provenance,
		createdAt:  time.Now().UTC(),
		usage:      slices.Clone(usage),
	}
	for _, opt := range opts {
		opt(key)
	}

	return key, nil
}

// ID returns the key identifier.
func (k *EncryptionKey) ID() string {
	return k.id
}

// Material returns the raw key material.
//
// Only the cipher construction path may call this; the material must never be
// logged, serialized, or stored alongside entity data.
func (k *EncryptionKey) Material() []byte {
	return k.material
}

// Provenance returns how the key material was obtained.
func (k *EncryptionKey) Provenance() KeyProvenance {
	return k.provenance
}

// CreatedAt returns the key creation timestamp.
func (k *EncryptionKey) CreatedAt() time.Time {
	return k.createdAt
}

// ExpiresAt returns the expiry timestamp, zero when the key never expires.
func (k *EncryptionKey) ExpiresAt() time.Time {
	return k.expiresAt
}

// Expired reports whether the key expiry has passed at the given instant.
func (k *EncryptionKey) Expired(now time.Time) bool {
	return !k.expiresAt.IsZero() && now.After(k.expiresAt)
}

// AllowsUsage reports whether the key permits the given operation.
func (k *EncryptionKey) AllowsUsage(usage KeyUsage) bool {
	return slices.Contains(k.usage, usage)
}

// Usage returns a copy of the allowed usages.
func (k *EncryptionKey) Usage() []KeyUsage {
	return slices.Clone(k.usage)
}

// Destroy zeroes the key material in place. The key is unusable afterwards.
func (k *EncryptionKey) Destroy() {
	Zero(k.material)
	k.material = nil
}

// LogValue implements slog.LogValuer so accidental logging of a key exposes
// only its id and provenance, never the material.
func (k *EncryptionKey) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", k.id),
		slog.String("provenance", string(k.provenance)),
	)
}

// MarshalJSON redacts the key material; only the id and provenance are serialized.
func (k *EncryptionKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string        `json:"id"`
		Provenance KeyProvenance `json:"provenance"`
	}{ID: k.id, Provenance: k.provenance})
}
