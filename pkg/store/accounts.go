package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileAccountStore keeps the curated handle set in a sorted JSON array.
type FileAccountStore struct {
	path string
}

// NewFileAccountStore returns a store backed by path. The file is created
// on first Replace; a missing file reads as an empty set.
func NewFileAccountStore(path string) *FileAccountStore {
	return &FileAccountStore{path: path}
}

func (s *FileAccountStore) All() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}

	var handles []string
	if err := json.Unmarshal(data, &handles); err != nil {
		return nil, fmt.Errorf("unmarshaling accounts file: %w", err)
	}
	return NormalizeHandles(handles), nil
}

func (s *FileAccountStore) Replace(handles []string) error {
	normalized := NormalizeHandles(handles)
	if normalized == nil {
		normalized = []string{}
	}

	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling accounts: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing accounts file: %w", err)
	}
	return nil
}

// Add inserts a handle into the stored set. Adding an already-present
// handle (compared case-insensitively) is a no-op.
func (s *FileAccountStore) Add(handle string) error {
	handles, err := s.All()
	if err != nil {
		return err
	}
	return s.Replace(append(handles, handle))
}

// Remove deletes a handle from the stored set, compared case-insensitively.
func (s *FileAccountStore) Remove(handle string) error {
	handle = normalizeHandle(handle)
	if handle == "" {
		return nil
	}

	handles, err := s.All()
	if err != nil {
		return err
	}

	kept := handles[:0]
	for _, h := range handles {
		if !strings.EqualFold(h, handle) {
			kept = append(kept, h)
		}
	}
	return s.Replace(kept)
}

// NormalizeHandles trims each handle, strips a leading "@", drops empties
// and case-insensitive duplicates (first spelling wins) and sorts the
// result.
func NormalizeHandles(handles []string) []string {
	seen := make(map[string]bool, len(handles))
	var out []string
	for _, h := range handles {
		h = normalizeHandle(h)
		if h == "" {
			continue
		}
		key := strings.ToLower(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

func normalizeHandle(h string) string {
	return strings.TrimPrefix(strings.TrimSpace(h), "@")
}
