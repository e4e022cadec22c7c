// Package store persists the application's three small collections: the
// curated account list, the search-history log and the resolved user-info
// cache. The core logic only sees the interfaces here; the file-backed
// implementations keep everything as flat JSON/JSONL under the data
// directory.
//
// There is no file locking. Concurrent writers can lose an update, which
// is acceptable for the expected single-operator usage and documented as a
// known limitation.
package store

import (
	"time"

	"github.com/spotterhq/spotter/pkg/tweet"
)

// AccountStore holds the curated set of author handles. Handles are stored
// without a leading "@" and deduplicated case-insensitively.
type AccountStore interface {
	// All returns the stored handles, sorted.
	All() ([]string, error)
	// Replace overwrites the stored set with the given handles, after
	// normalization and dedup.
	Replace(handles []string) error
}

// HistoryEntry records one search invocation.
type HistoryEntry struct {
	ID          string     `json:"id"`
	Timestamp   time.Time  `json:"timestamp"`
	Phrase      string     `json:"phrase"`
	Mode        string     `json:"mode"`
	Authors     []string   `json:"authors,omitempty"`
	Since       *time.Time `json:"since,omitempty"`
	Until       *time.Time `json:"until,omitempty"`
	Pages       int        `json:"pages"`
	ResultCount int        `json:"result_count"`
}

// AccountManager extends AccountStore with the single-handle mutations the
// admin UI uses.
type AccountManager interface {
	AccountStore
	Add(handle string) error
	Remove(handle string) error
}

// HistoryLog is the append-only log of search invocations.
type HistoryLog interface {
	Append(entry HistoryEntry) error
	// All returns entries newest-first.
	All() ([]HistoryEntry, error)
}

// HistoryStore extends HistoryLog with the admin-only truncation.
type HistoryStore interface {
	HistoryLog
	Clear() error
}

// UserInfoCache persists resolved handle → {name, avatar} metadata. An
// entry whose name merely restates the handle is treated as unresolved by
// the resolver and re-fetched; entries never expire.
type UserInfoCache interface {
	All() (map[string]tweet.UserInfo, error)
	Replace(entries map[string]tweet.UserInfo) error
}
