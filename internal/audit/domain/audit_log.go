// Package domain defines the security audit log types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies the kind of cryptographic operation an audit entry records.
type Action string

const (
	// ActionEncrypt records an entity or file encryption.
	ActionEncrypt Action = "encrypt"

	// ActionDecrypt records an entity or file decryption.
	ActionDecrypt Action = "decrypt"

	// ActionKeyGenerate records the minting of a random key.
	ActionKeyGenerate Action = "key_generate"

	// ActionKeyDerive records a key derivation (master, device, or subkey).
	ActionKeyDerive Action = "key_derive"

	// ActionAccessDenied records a refused operation (missing key, lockout,
	// or a call before initialization).
	ActionAccessDenied Action = "access_denied"
)

// Entry records one cryptographic operation for diagnostics and incident
// investigation. Entries never carry key material or plaintext; keys appear
// by id only. The log is diagnostic, never consulted for access control.
type Entry struct {
	ID         uuid.UUID
	Action     Action
	EntityType string
	EntityID   string
	KeyID      string
	Success    bool
	Error      string
	Timestamp  time.Time
	UserAgent  string
	IPAddress  string
}

// NewEntry creates an audit entry with a fresh id and the current UTC timestamp.
func NewEntry(action Action) Entry {
	return Entry{
		ID:        uuid.Must(uuid.NewV7()),
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

// Filter selects audit entries on read. Zero-valued fields match everything.
type Filter struct {
	// Action restricts entries to one action kind.
	Action Action
	// EntityType restricts entries to one entity type tag.
	EntityType string
	// Success restricts entries by outcome when non-nil.
	Success *bool
	// Since excludes entries before this instant when non-zero.
	Since time.Time
	// Until excludes entries after this instant when non-zero.
	Until time.Time
	// Limit caps the number of returned entries when positive.
	Limit int
}

// Matches reports whether the entry passes the filter.
func (f Filter) Matches(entry Entry) bool {
	if f.Action != "" && entry.Action != f.Action {
		return false
	}
	if f.EntityType != "" && entry.EntityType != f.EntityType {
		return false
	}
	if f.Success != nil && entry.Success != *f.Success {
		return false
	}
	if !f.Since.IsZero() && entry.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && entry.Timestamp.After(f.Until) {
		return false
	}
	return true
}

// Stats aggregates audit outcomes for the diagnostics surface.
type Stats struct {
	Total    int
	Success  int
	Failed   int
	ByAction map[Action]int
}
