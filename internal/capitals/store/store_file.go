package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"capfinder/internal/capitals/models"
	"capfinder/internal/capitals/normalize"
	dErrors "capfinder/pkg/domain-errors"
)

// FileStore persists entries as an ordered JSON array and keeps a derived
// normalized-country index for O(1) exact lookup. Inserts rewrite the whole
// file atomically; the index update is rolled back if the write fails so the
// store never advertises an entry that was not durably saved.
type FileStore struct {
	path string

	mu      sync.RWMutex
	entries []models.CapitalEntry
	index   map[string]string // normalize.Key(country) -> capital
}

// Load deserializes the persisted entries at path. An unreadable or malformed
// file yields a CodePersistence domain error; the caller decides whether that
// is fatal (it is at startup).
func Load(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, fmt.Sprintf("read store file %s", path))
	}

	var entries []models.CapitalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, fmt.Sprintf("malformed store file %s", path))
	}

	index := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.Country == "" || entry.Capital == "" {
			return nil, dErrors.New(dErrors.CodePersistence,
				fmt.Sprintf("malformed store file %s: entry with empty country or capital", path))
		}
		// Later entries win, matching insertion semantics for repeated saves.
		index[normalize.Key(entry.Country)] = entry.Capital
	}

	return &FileStore{path: path, entries: entries, index: index}, nil
}

// Lookup returns the capital for country if an entry's normalized name matches exactly.
func (s *FileStore) Lookup(_ context.Context, country string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if capital, ok := s.index[normalize.Key(country)]; ok {
		return capital, nil
	}
	return "", fmt.Errorf("%q: %w", country, ErrNotFound)
}

// Insert appends entry to the sequence and persists the full sequence back to
// disk. Inserts are serialized by the write lock, so concurrent saves cannot
// interleave the read-modify-write and lose entries.
func (s *FileStore) Insert(_ context.Context, entry models.CapitalEntry) error {
	if entry.Country == "" || entry.Capital == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "entry requires country and capital")
	}
	if entry.Type == "" {
		entry.Type = models.EntryType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if err := writeEntries(s.path, s.entries); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		return dErrors.Wrap(err, dErrors.CodePersistence, fmt.Sprintf("write store file %s", s.path))
	}
	s.index[normalize.Key(entry.Country)] = entry.Capital
	return nil
}

// Keys returns the normalized country names, for fuzzy candidate generation.
// Order is not significant.
func (s *FileStore) Keys(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.index))
	for key := range s.index {
		keys = append(keys, key)
	}
	return keys
}

// Entries returns a copy of the persisted sequence in insertion order.
func (s *FileStore) Entries(_ context.Context) []models.CapitalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]models.CapitalEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// Len returns the number of persisted entries.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// writeEntries writes the full sequence atomically using write-to-temp-then-rename,
// so a crash mid-write cannot corrupt the store file.
func writeEntries(path string, entries []models.CapitalEntry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	data = append(data, '\n')

	randBytes := make([]byte, 4)
	_, _ = rand.Read(randBytes)
	tmpPath := filepath.Join(filepath.Dir(path),
		fmt.Sprintf(".%s.tmp.%s", filepath.Base(path), hex.EncodeToString(randBytes)))

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
