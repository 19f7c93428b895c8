package service

import (
	"sync"
	"time"

	cryptoDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/domain"
)

// MemoryKeyStore holds the session's named keys in memory.
//
// The store is the only owner of raw key material; everything outside it
// references keys by id. Keys live for the process/session and are destroyed
// on Remove/Clear. The store is safe for concurrent use.
type MemoryKeyStore struct {
	mu   sync.RWMutex
	keys map[string]*cryptoDomain.EncryptionKey
}

// NewMemoryKeyStore creates an empty key store.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{
		keys: make(map[string]*cryptoDomain.EncryptionKey),
	}
}

// Put registers a key under its id. A previous key with the same id is
// destroyed before being replaced.
func (s *MemoryKeyStore) Put(key *cryptoDomain.EncryptionKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.keys[key.ID()]; ok && existing != key {
		existing.Destroy()
	}
	s.keys[key.ID()] = key
}

// Get returns the key for the given id.
// Returns ErrKeyNotFound for unknown ids and ErrKeyExpired for keys past
// their expiry. Expired keys are treated as gone; there is no fallback key.
func (s *MemoryKeyStore) Get(id string) (*cryptoDomain.EncryptionKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[id]
	if !ok {
		return nil, cryptoDomain.ErrKeyNotFound
	}
	if key.Expired(time.Now().UTC()) {
		return nil, cryptoDomain.ErrKeyExpired
	}
	return key, nil
}

// Remove deletes a key and destroys its material.
func (s *MemoryKeyStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key, ok := s.keys[id]; ok {
		key.Destroy()
		delete(s.keys, id)
	}
}

// Clear destroys all keys. Used on re-initialization, which must invalidate
// previously derived keys.
func (s *MemoryKeyStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, key := range s.keys {
		key.Destroy()
		delete(s.keys, id)
	}
}

// IDs returns the registered key ids.
func (s *MemoryKeyStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.keys))
	for id := range s.keys {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of registered keys.
func (s *MemoryKeyStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.keys)
}

// CountByProvenance returns key counts grouped by provenance, used by the
// diagnostics stats surface.
func (s *MemoryKeyStore) CountByProvenance() map[cryptoDomain.KeyProvenance]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[cryptoDomain.KeyProvenance]int)
	for _, key := range s.keys {
		counts[key.Provenance()]++
	}
	return counts
}
