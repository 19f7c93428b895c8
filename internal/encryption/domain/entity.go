// Package domain defines the entity model and encryption policy types for
// the offline data encryption subsystem.
package domain

import (
	"time"
)

// EntityType tags the kinds of locally-cached application data the subsystem
// protects. The rule table is keyed by the same tags, so field selection is
// always checked against a known schema rather than arbitrary strings.
type EntityType string

const (
	// EntityWorkspace is a user workspace (layout, ambient settings, color).
	EntityWorkspace EntityType = "workspace"

	// EntityTask is a task or todo item within a workspace.
	EntityTask EntityType = "task"

	// EntityFile is file metadata tracked by the file scanner.
	EntityFile EntityType = "file"

	// EntityAnalyticsEvent is a locally-buffered analytics event.
	EntityAnalyticsEvent EntityType = "analytics_event"

	// EntityUserPreference is a single user preference entry.
	EntityUserPreference EntityType = "user_preference"
)

// Entity is the string-keyed record shape the offline cache persists.
// Values are JSON value types; encrypted fields hold an EncryptedPayload
// (or its decoded map form after a round trip through the cache).
type Entity = map[string]any

// MetadataKey is the reserved entity key holding the encryption metadata
// block. It is never selected for encryption itself.
const MetadataKey = "_encryption_metadata"

// IgnoredFields are never encrypted, even under forced encryption: the
// primary key and bookkeeping timestamps must stay queryable by the cache.
var IgnoredFields = []string{"id", "created_at", "updated_at"}

// Metadata is the block attached to an entity after encryption. It makes the
// stored entity self-describing: which algorithm, which key (by id only),
// when, and which fields were transformed.
type Metadata struct {
	Encrypted       bool     `json:"encrypted"`
	Algorithm       string   `json:"algorithm"`
	KeyID           string   `json:"keyId"`
	EncryptedAt     int64    `json:"encryptedAt"`
	EncryptedFields []string `json:"encryptedFields"`
}

// NewMetadata builds a metadata block stamped with the current time in epoch
// milliseconds.
func NewMetadata(algorithm, keyID string, fields []string) Metadata {
	return Metadata{
		Encrypted:       true,
		Algorithm:       algorithm,
		KeyID:           keyID,
		EncryptedAt:     time.Now().UTC().UnixMilli(),
		EncryptedFields: fields,
	}
}

// MetadataFromEntity extracts the metadata block from an entity, tolerating
// both the in-process Metadata struct and the map form an entity takes after
// a JSON round trip through the cache. The second return is false when the
// entity carries no (recognizable) metadata.
func MetadataFromEntity(entity Entity) (Metadata, bool) {
	raw, ok := entity[MetadataKey]
	if !ok {
		return Metadata{}, false
	}

	switch value := raw.(type) {
	case Metadata:
		return value, value.Encrypted
	case *Metadata:
		if value == nil {
			return Metadata{}, false
		}
		return *value, value.Encrypted
	case map[string]any:
		encrypted, ok := value["encrypted"].(bool)
		if !ok || !encrypted {
			return Metadata{}, false
		}
		meta := Metadata{Encrypted: true}
		meta.Algorithm, _ = value["algorithm"].(string)
		meta.KeyID, _ = value["keyId"].(string)
		switch at := value["encryptedAt"].(type) {
		case int64:
			meta.EncryptedAt = at
		case float64:
			meta.EncryptedAt = int64(at)
		}
		switch fields := value["encryptedFields"].(type) {
		case []string:
			meta.EncryptedFields = fields
		case []any:
			for _, f := range fields {
				if name, ok := f.(string); ok {
					meta.EncryptedFields = append(meta.EncryptedFields, name)
				}
			}
		}
		return meta, true
	default:
		return Metadata{}, false
	}
}
