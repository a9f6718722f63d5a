package store

import (
	"context"
	"fmt"
	"sync"

	"capfinder/internal/capitals/models"
	"capfinder/internal/capitals/normalize"
)

// InMemoryStore keeps entries in memory only. It mirrors FileStore's semantics
// without persistence and is used by tests and local experiments.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []models.CapitalEntry
	index   map[string]string
}

// NewInMemory constructs an in-memory store seeded with the given entries.
func NewInMemory(seed ...models.CapitalEntry) *InMemoryStore {
	s := &InMemoryStore{index: make(map[string]string, len(seed))}
	for _, entry := range seed {
		if entry.Type == "" {
			entry.Type = models.EntryType
		}
		s.entries = append(s.entries, entry)
		s.index[normalize.Key(entry.Country)] = entry.Capital
	}
	return s
}

func (s *InMemoryStore) Lookup(_ context.Context, country string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if capital, ok := s.index[normalize.Key(country)]; ok {
		return capital, nil
	}
	return "", fmt.Errorf("%q: %w", country, ErrNotFound)
}

func (s *InMemoryStore) Insert(_ context.Context, entry models.CapitalEntry) error {
	if entry.Type == "" {
		entry.Type = models.EntryType
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	s.index[normalize.Key(entry.Country)] = entry.Capital
	return nil
}

func (s *InMemoryStore) Keys(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.index))
	for key := range s.index {
		keys = append(keys, key)
	}
	return keys
}

func (s *InMemoryStore) Entries(_ context.Context) []models.CapitalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]models.CapitalEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}
