package search

import (
	"context"
	"errors"
	"testing"

	"github.com/spotterhq/spotter/pkg/store"
	"github.com/spotterhq/spotter/pkg/tweet"
)

type fakeSearcher struct {
	gotQuery string
	gotMode  string
	gotPages int
	items    []tweet.Tweet
	err      error
}

func (f *fakeSearcher) SearchPages(_ context.Context, q, mode string, pages int, emit func(int, []tweet.Tweet)) ([]tweet.Tweet, error) {
	f.gotQuery = q
	f.gotMode = mode
	f.gotPages = pages
	if f.err != nil {
		return nil, f.err
	}
	if emit != nil {
		emit(1, f.items)
	}
	return f.items, nil
}

type memAccounts struct {
	handles []string
	err     error
}

func (m *memAccounts) All() ([]string, error) { return m.handles, m.err }
func (m *memAccounts) Replace([]string) error { return nil }

type memHistory struct {
	entries []store.HistoryEntry
}

func (m *memHistory) Append(e store.HistoryEntry) error { m.entries = append(m.entries, e); return nil }
func (m *memHistory) All() ([]store.HistoryEntry, error) {
	return m.entries, nil
}

func TestRunScopesToStoredAccounts(t *testing.T) {
	searcher := &fakeSearcher{items: []tweet.Tweet{{ID: "1"}}}
	accounts := &memAccounts{handles: []string{"nytimes", "BBCWorld"}}
	history := &memHistory{}

	svc := NewService(searcher, accounts, history)
	result, err := svc.Run(context.Background(), Request{Phrase: "climate", Mode: "Latest", PageBudget: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantQuery := `"climate" (from:nytimes OR from:BBCWorld)`
	if searcher.gotQuery != wantQuery {
		t.Errorf("query = %q, want %q", searcher.gotQuery, wantQuery)
	}
	if len(result.Rows) != 1 {
		t.Errorf("got %d rows, want 1", len(result.Rows))
	}
	if len(result.Authors) != 2 {
		t.Errorf("authors = %v", result.Authors)
	}
}

func TestRunExplicitEmptyAuthorsSkipsStore(t *testing.T) {
	searcher := &fakeSearcher{}
	accounts := &memAccounts{handles: []string{"nytimes"}}

	svc := NewService(searcher, accounts, &memHistory{})
	_, err := svc.Run(context.Background(), Request{Phrase: "x", Authors: []string{}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if searcher.gotQuery != `"x"` {
		t.Errorf("query = %q, want unscoped", searcher.gotQuery)
	}
}

func TestRunAppendsHistory(t *testing.T) {
	searcher := &fakeSearcher{items: []tweet.Tweet{{ID: "1"}, {ID: "2"}}}
	history := &memHistory{}

	svc := NewService(searcher, &memAccounts{}, history)
	if _, err := svc.Run(context.Background(), Request{Phrase: "news", Mode: "Top", PageBudget: 3}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(history.entries) != 1 {
		t.Fatalf("got %d history entries, want 1", len(history.entries))
	}
	e := history.entries[0]
	if e.Phrase != "news" || e.Mode != "Top" || e.Pages != 3 || e.ResultCount != 2 {
		t.Errorf("entry = %+v", e)
	}
	if e.ID == "" || e.Timestamp.IsZero() {
		t.Errorf("entry missing ID/timestamp: %+v", e)
	}
}

func TestRunSearchErrorSkipsHistory(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("provider down")}
	history := &memHistory{}

	svc := NewService(searcher, &memAccounts{}, history)
	if _, err := svc.Run(context.Background(), Request{Phrase: "x"}); err == nil {
		t.Fatal("expected error")
	}
	if len(history.entries) != 0 {
		t.Errorf("failed search must not be logged, got %v", history.entries)
	}
}

func TestRunAccountStoreErrorIsNotFatal(t *testing.T) {
	searcher := &fakeSearcher{}
	accounts := &memAccounts{err: errors.New("disk gone")}

	svc := NewService(searcher, accounts, &memHistory{})
	_, err := svc.Run(context.Background(), Request{Phrase: "x"})
	if err != nil {
		t.Fatalf("Run must survive an account-store error, got: %v", err)
	}
	if searcher.gotQuery != `"x"` {
		t.Errorf("query = %q, want unscoped fallback", searcher.gotQuery)
	}
}

func TestRunPagesEmitsFlattenedRows(t *testing.T) {
	searcher := &fakeSearcher{items: []tweet.Tweet{{ID: "1", Author: tweet.Author{Handle: "a"}}}}

	svc := NewService(searcher, &memAccounts{}, nil)
	var got [][]tweet.Row
	_, err := svc.RunPages(context.Background(), Request{Phrase: "x"}, func(_ int, rows []tweet.Row) {
		got = append(got, rows)
	})
	if err != nil {
		t.Fatalf("RunPages: %v", err)
	}
	if len(got) != 1 || len(got[0]) != 1 {
		t.Fatalf("emitted = %v", got)
	}
	if got[0][0].AuthorAvatar == "" {
		t.Errorf("emitted rows must be flattened (avatar fallback applied)")
	}
}
