package api

import (
	"time"

	"github.com/spotterhq/spotter/pkg/store"
	"github.com/spotterhq/spotter/pkg/tweet"
)

type SearchResponse struct {
	Query   string      `json:"query"`
	Authors []string    `json:"authors"`
	Count   int         `json:"count"`
	Tweets  []tweet.Row `json:"tweets"`
}

type AccountsResponse struct {
	Accounts []string `json:"accounts"`
	Count    int      `json:"count"`
}

type HistoryResponse struct {
	Entries []store.HistoryEntry `json:"entries"`
	Count   int                  `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// socket messages

type socketRequest struct {
	Phrase  string   `json:"phrase"`
	Mode    string   `json:"mode"`
	Pages   int      `json:"pages"`
	Authors []string `json:"authors"`
	Since   string   `json:"since"`
	Until   string   `json:"until"`
}

type socketMessage struct {
	Type    string      `json:"type"`
	Query   string      `json:"query,omitempty"`
	Authors []string    `json:"authors,omitempty"`
	Page    int         `json:"page,omitempty"`
	Count   int         `json:"count,omitempty"`
	Tweets  []tweet.Row `json:"tweets,omitempty"`
	Message string      `json:"message,omitempty"`
}
