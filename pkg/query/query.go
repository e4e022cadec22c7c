// Package query builds advanced-search query strings for the content
// provider. The grammar is the usual Twitter search syntax: a quoted exact
// phrase, an OR-joined group of from: terms and optional since:/until:
// date bounds.
package query

import (
	"strings"
	"time"
)

// DateFormat is the calendar-date layout the provider accepts for
// since:/until: terms.
const DateFormat = "2006-01-02"

// Params describes one search to build a query string for.
type Params struct {
	// Phrase is the text to match. It is wrapped in double quotes unless
	// the caller already quoted it.
	Phrase string

	// Authors restricts the search to posts authored by these handles.
	// Leading "@" is stripped from each handle.
	Authors []string

	// Since and Until bound the search by calendar date when non-nil.
	Since *time.Time
	Until *time.Time
}

// Build serializes params into the provider's query grammar. Terms appear
// in fixed order: phrase, author clause, since, until.
//
// Build performs no escaping: quotes, parentheses or colons inside the
// phrase or a handle are injected verbatim and will corrupt the query.
// The provider's grammar has no documented escape sequence, so input is
// passed through as-is. Known defect, tracked for a future fix.
func Build(params Params) string {
	var b strings.Builder
	b.WriteString(quotePhrase(params.Phrase))

	if clause := authorClause(params.Authors); clause != "" {
		b.WriteString(" (")
		b.WriteString(clause)
		b.WriteString(")")
	}

	if params.Since != nil {
		b.WriteString(" since:")
		b.WriteString(params.Since.Format(DateFormat))
	}
	if params.Until != nil {
		b.WriteString(" until:")
		b.WriteString(params.Until.Format(DateFormat))
	}

	return b.String()
}

// quotePhrase wraps phrase in double quotes unless its trimmed form already
// starts and ends with one.
func quotePhrase(phrase string) string {
	phrase = strings.TrimSpace(phrase)
	if len(phrase) >= 2 && strings.HasPrefix(phrase, `"`) && strings.HasSuffix(phrase, `"`) {
		return phrase
	}
	return `"` + phrase + `"`
}

// authorClause returns the OR-joined from: terms for authors, without the
// surrounding parentheses. Empty handles are skipped.
func authorClause(authors []string) string {
	terms := make([]string, 0, len(authors))
	for _, a := range authors {
		a = strings.TrimPrefix(strings.TrimSpace(a), "@")
		if a == "" {
			continue
		}
		terms = append(terms, "from:"+a)
	}
	return strings.Join(terms, " OR ")
}
