package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spotterhq/spotter/pkg/provider"
	"github.com/spotterhq/spotter/pkg/query"
	"github.com/spotterhq/spotter/pkg/search"
	"github.com/spotterhq/spotter/pkg/version"
)

// parseSearchRequest maps query parameters onto a search request. The
// authors parameter distinguishes absent (use the stored account list)
// from present-but-empty (search unscoped).
func parseSearchRequest(values url.Values) (search.Request, error) {
	req := search.Request{
		Phrase: values.Get("q"),
		Mode:   values.Get("mode"),
	}

	if values.Has("authors") {
		req.Authors = splitHandles(values.Get("authors"))
	}

	if pages := values.Get("pages"); pages != "" {
		n, err := strconv.Atoi(pages)
		if err != nil || n < 1 {
			return req, fmt.Errorf("invalid pages value %q", pages)
		}
		req.PageBudget = n
	}

	var err error
	if req.Since, err = parseDate(values.Get("since")); err != nil {
		return req, err
	}
	if req.Until, err = parseDate(values.Get("until")); err != nil {
		return req, err
	}
	return req, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(query.DateFormat, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return &t, nil
}

func splitHandles(value string) []string {
	parts := strings.Split(value, ",")
	handles := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			handles = append(handles, p)
		}
	}
	return handles
}

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid parameters", err.Error())
		return
	}

	if req.Phrase == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'q' is required")
		return
	}

	result, err := s.service.Run(r.Context(), req)
	if err != nil {
		s.writeSearchError(w, err)
		return
	}

	response := SearchResponse{
		Query:   result.Query,
		Authors: result.Authors,
		Count:   len(result.Rows),
		Tweets:  result.Rows,
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) writeSearchError(w http.ResponseWriter, err error) {
	var perr *provider.ProviderError
	switch {
	case errors.Is(err, provider.ErrNoAPIKey):
		s.writeError(w, http.StatusServiceUnavailable, "Provider not configured", err.Error())
	case errors.As(err, &perr):
		s.writeError(w, http.StatusBadGateway, "Provider request failed", perr.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
	}
}

func (s *Server) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.All()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to load accounts", err.Error())
		return
	}

	response := AccountsResponse{
		Accounts: accounts,
		Count:    len(accounts),
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleAddAccount(w http.ResponseWriter, r *http.Request) {
	handle := r.FormValue("handle")
	if strings.TrimSpace(handle) == "" {
		s.writeError(w, http.StatusBadRequest, "Missing handle", "Form value 'handle' is required")
		return
	}

	if err := s.accounts.Add(handle); err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to add account", err.Error())
		return
	}

	s.HandleListAccounts(w, r)
}

func (s *Server) HandleRemoveAccount(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if handle == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid path", "Account handle is required")
		return
	}

	if err := s.accounts.Remove(handle); err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to remove account", err.Error())
		return
	}

	s.HandleListAccounts(w, r)
}

func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.history.All()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to load history", err.Error())
		return
	}

	response := HistoryResponse{
		Entries: entries,
		Count:   len(entries),
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
