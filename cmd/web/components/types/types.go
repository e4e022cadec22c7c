package types

import (
	"github.com/spotterhq/spotter/pkg/store"
	"github.com/spotterhq/spotter/pkg/tweet"
)

// PageData represents data passed to templates
type PageData struct {
	Title   string
	Version string // Application version (for footer display)
	Error   string
	Success string

	// Search form state, echoed back on the results page.
	Phrase   string
	Mode     string
	Pages    int
	Since    string
	Until    string
	Unscoped bool

	// Curated account list and its resolved display metadata.
	Accounts   []string
	AuthorInfo map[string]tweet.UserInfo

	// Results of the last search.
	Query      string
	Authors    []string
	Rows       []TweetView
	TotalCount int

	History []store.HistoryEntry
}

// TweetView is a flattened tweet plus its highlighted text, ready for
// rendering.
type TweetView struct {
	tweet.Row

	// HighlightedHTML is escaped HTML with <mark> spans around phrase
	// occurrences. It is written raw into the page.
	HighlightedHTML string
}
