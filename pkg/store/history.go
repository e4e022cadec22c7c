package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spotterhq/spotter/pkg/log"
)

// FileHistoryLog appends search invocations to a JSONL file, one entry per
// line.
type FileHistoryLog struct {
	path   string
	logger *log.Logger
}

// NewFileHistoryLog returns a log backed by path. A missing file reads as
// an empty history.
func NewFileHistoryLog(path string) *FileHistoryLog {
	return &FileHistoryLog{path: path, logger: log.ForService("history")}
}

func (l *FileHistoryLog) Append(entry HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling history entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening history file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Warnf("failed to close history file: %v", err)
		}
	}()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}
	return nil
}

// All returns entries newest-first. Lines that fail to decode are skipped
// so one corrupt line cannot hide the rest of the log.
func (l *FileHistoryLog) All() ([]HistoryEntry, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Warnf("failed to close history file: %v", err)
		}
	}()

	var entries []HistoryEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry HistoryEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			l.logger.Warnf("skipping corrupt history line: %v", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning history file: %w", err)
	}

	// Entries are appended oldest-first; readers want newest-first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Clear truncates the log. Exposed for the admin UI; the log is otherwise
// append-only.
func (l *FileHistoryLog) Clear() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing history file: %w", err)
	}
	return nil
}
