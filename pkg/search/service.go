// Package search orchestrates one search invocation end to end: it builds
// the provider query from the request and the curated account list, runs
// the paginated fetch, flattens the results and appends a history entry.
// Both the web and CLI surfaces go through this service.
package search

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spotterhq/spotter/pkg/log"
	"github.com/spotterhq/spotter/pkg/query"
	"github.com/spotterhq/spotter/pkg/store"
	"github.com/spotterhq/spotter/pkg/tweet"
)

// Searcher is the provider capability the service needs.
// *provider.Client satisfies it.
type Searcher interface {
	SearchPages(ctx context.Context, query, mode string, pageBudget int, emit func(page int, items []tweet.Tweet)) ([]tweet.Tweet, error)
}

// Request describes one search invocation.
type Request struct {
	Phrase     string
	Mode       string
	PageBudget int

	// Authors overrides the curated account list when non-nil. A nil
	// slice means "use the stored list"; an empty non-nil slice means
	// "no author scoping".
	Authors []string

	Since *time.Time
	Until *time.Time
}

// Result is a completed search.
type Result struct {
	// Query is the serialized provider query that was executed.
	Query string
	// Authors is the author scope the query was built with.
	Authors []string
	Rows    []tweet.Row
}

// Service runs searches against the provider and records them in the
// history log.
type Service struct {
	searcher Searcher
	accounts store.AccountStore
	history  store.HistoryLog
	logger   *log.Logger
}

// NewService wires a search service. history may be nil to skip logging
// (used by the author resolver's content tier and by tests).
func NewService(searcher Searcher, accounts store.AccountStore, history store.HistoryLog) *Service {
	return &Service{
		searcher: searcher,
		accounts: accounts,
		history:  history,
		logger:   log.ForService("search"),
	}
}

// Run executes the request. See RunPages.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	return s.RunPages(ctx, req, nil)
}

// RunPages executes the request, calling emit after each fetched page with
// that page's flattened rows. The history entry is appended after the
// fetch completes, also for partial results; a history write failure is
// logged but does not fail the search.
func (s *Service) RunPages(ctx context.Context, req Request, emit func(page int, rows []tweet.Row)) (*Result, error) {
	authors := req.Authors
	if authors == nil {
		stored, err := s.accounts.All()
		if err != nil {
			s.logger.Warnf("reading account list, searching unscoped: %v", err)
		}
		authors = stored
	}

	q := query.Build(query.Params{
		Phrase:  req.Phrase,
		Authors: authors,
		Since:   req.Since,
		Until:   req.Until,
	})

	var pageEmit func(page int, items []tweet.Tweet)
	if emit != nil {
		pageEmit = func(page int, items []tweet.Tweet) {
			emit(page, tweet.FlattenAll(items))
		}
	}

	items, err := s.searcher.SearchPages(ctx, q, req.Mode, req.PageBudget, pageEmit)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Query:   q,
		Authors: authors,
		Rows:    tweet.FlattenAll(items),
	}

	s.record(req, authors, len(result.Rows))

	return result, nil
}

func (s *Service) record(req Request, authors []string, count int) {
	if s.history == nil {
		return
	}
	entry := store.HistoryEntry{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Phrase:      req.Phrase,
		Mode:        req.Mode,
		Authors:     authors,
		Since:       req.Since,
		Until:       req.Until,
		Pages:       req.PageBudget,
		ResultCount: count,
	}
	if err := s.history.Append(entry); err != nil {
		s.logger.Warnf("appending history entry: %v", err)
	}
}
