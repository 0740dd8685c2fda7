package journal

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and by sessions that run
// without a journal file
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make([]*Entry, 0),
	}
}

// Record stores a copy of entry
func (s *MemoryStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(entry)
	stored := *entry
	s.entries = append(s.entries, &stored)
	return nil
}

// Recent lists runs matching filter, newest first
func (s *MemoryStore) Recent(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*Entry
	for _, entry := range s.entries {
		if filter.matches(entry) {
			copied := *entry
			results = append(results, &copied)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(results) {
			return nil, nil
		}
		results = results[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(results) {
		results = results[:filter.Limit]
	}

	return results, nil
}

// Stats returns counts per origin and error code
func (s *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		ByOrigin:    make(map[string]int64),
		ByErrorCode: make(map[string]int64),
	}

	var total time.Duration
	for _, entry := range s.entries {
		stats.Total++
		stats.ByOrigin[string(entry.Origin)]++
		if entry.Failed() {
			stats.Failed++
			stats.ByErrorCode[entry.ErrorCode]++
		}
		total += entry.Duration
		if entry.Timestamp.After(stats.LastRun) {
			stats.LastRun = entry.Timestamp
		}
	}
	if stats.Total > 0 {
		stats.AverageDuration = total / time.Duration(stats.Total)
	}

	return stats, nil
}

// Prune removes runs older than the given age
func (s *MemoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var deleted int64

	kept := make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if entry.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	s.entries = kept

	return deleted, nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
