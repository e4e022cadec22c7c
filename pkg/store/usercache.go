package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spotterhq/spotter/pkg/tweet"
)

// FileUserInfoCache persists the handle → {name, avatar} mapping as a JSON
// object. Keys are stored lowercased so lookups are case-insensitive.
type FileUserInfoCache struct {
	path string
}

// NewFileUserInfoCache returns a cache backed by path. A missing or
// unreadable file reads as an empty cache; the cache is best-effort data.
func NewFileUserInfoCache(path string) *FileUserInfoCache {
	return &FileUserInfoCache{path: path}
}

func (c *FileUserInfoCache) All() (map[string]tweet.UserInfo, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return map[string]tweet.UserInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading user cache: %w", err)
	}

	var entries map[string]tweet.UserInfo
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt cache is not worth failing a search over.
		return map[string]tweet.UserInfo{}, nil
	}
	if entries == nil {
		entries = map[string]tweet.UserInfo{}
	}
	return entries, nil
}

func (c *FileUserInfoCache) Replace(entries map[string]tweet.UserInfo) error {
	if entries == nil {
		entries = map[string]tweet.UserInfo{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling user cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("writing user cache: %w", err)
	}
	return nil
}
