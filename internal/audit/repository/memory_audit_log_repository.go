// Package repository provides the in-memory bounded audit log store.
package repository

import (
	"sort"
	"sync"

	auditDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/audit/domain"
)

// DefaultCapacity is the audit log bound used when none is configured.
const DefaultCapacity = 1000

// MemoryAuditLogRepository is an append-only, capacity-bounded audit store.
//
// The log holds at most capacity entries; once full, the oldest entry is
// evicted for each append (FIFO). Appends are simple inserts with no ordering
// requirement between concurrent callers; entries are sorted by timestamp on
// read, not on write. Safe for concurrent use.
type MemoryAuditLogRepository struct {
	mu       sync.RWMutex
	capacity int
	entries  []auditDomain.Entry
	start    int
	size     int
}

// NewMemoryAuditLogRepository creates a bounded audit log. Non-positive
// capacities fall back to DefaultCapacity.
func NewMemoryAuditLogRepository(capacity int) *MemoryAuditLogRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryAuditLogRepository{
		capacity: capacity,
		entries:  make([]auditDomain.Entry, capacity),
	}
}

// Append records an entry, evicting the oldest entry when the log is full.
func (r *MemoryAuditLogRepository) Append(entry auditDomain.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := (r.start + r.size) % r.capacity
	r.entries[index] = entry
	if r.size < r.capacity {
		r.size++
	} else {
		// Log is full; the slot just written was the oldest entry.
		r.start = (r.start + 1) % r.capacity
	}
}

// List returns the entries matching the filter, newest first.
// The filter's limit is applied after sorting, so it always keeps the most
// recent matches.
func (r *MemoryAuditLogRepository) List(filter auditDomain.Filter) []auditDomain.Entry {
	r.mu.RLock()
	matched := make([]auditDomain.Entry, 0, r.size)
	for i := 0; i < r.size; i++ {
		entry := r.entries[(r.start+i)%r.capacity]
		if filter.Matches(entry) {
			matched = append(matched, entry)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched
}

// Len returns the number of retained entries.
func (r *MemoryAuditLogRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// Capacity returns the configured bound.
func (r *MemoryAuditLogRepository) Capacity() int {
	return r.capacity
}

// Stats aggregates outcomes over the retained entries.
func (r *MemoryAuditLogRepository) Stats() auditDomain.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := auditDomain.Stats{ByAction: make(map[auditDomain.Action]int)}
	for i := 0; i < r.size; i++ {
		entry := r.entries[(r.start+i)%r.capacity]
		stats.Total++
		if entry.Success {
			stats.Success++
		} else {
			stats.Failed++
		}
		stats.ByAction[entry.Action]++
	}
	return stats
}
