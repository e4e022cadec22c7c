package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/spotterhq/spotter/cmd/web/components/types"
	"github.com/spotterhq/spotter/pkg/query"
)

// History renders the search log, newest first.
func History(data types.PageData) templ.Component {
	return page(data, func(h *hbuf) {
		h.raw(`<div class="results-header"><h2>Search history</h2>`)
		if len(data.History) > 0 {
			h.raw(`<form method="post" action="/history/clear">`)
			h.raw(`<button type="submit" class="danger">Clear</button>`)
			h.raw(`</form>`)
		}
		h.raw(`</div>`)

		if len(data.History) == 0 {
			h.raw(`<p class="hint">No searches yet.</p>`)
			return
		}

		h.raw(`<table><thead><tr>`)
		h.raw(`<th>When</th><th>Phrase</th><th>Mode</th><th>Scope</th><th>Dates</th><th class="num">Pages</th><th class="num">Results</th>`)
		h.raw(`</tr></thead><tbody>`)

		for _, entry := range data.History {
			h.raw(`<tr><td class="date">`)
			h.esc(entry.Timestamp.Format(time.DateTime))
			h.raw(`</td><td>`)
			h.esc(entry.Phrase)
			h.raw(`</td><td>`)
			h.esc(entry.Mode)
			h.raw(`</td><td class="scope">`)
			if len(entry.Authors) == 0 {
				h.raw(`all of X`)
			} else {
				h.esc(strconv.Itoa(len(entry.Authors)) + " accounts")
				h.raw(` <span class="handle" title="`)
				h.esc(strings.Join(entry.Authors, ", "))
				h.raw(`">&#9432;</span>`)
			}
			h.raw(`</td><td class="date">`)
			h.esc(dateRange(entry.Since, entry.Until))
			h.raw(`</td><td class="num">`)
			h.raw(strconv.Itoa(entry.Pages))
			h.raw(`</td><td class="num">`)
			h.raw(formatCount(entry.ResultCount))
			h.raw(`</td></tr>`)
		}

		h.raw(`</tbody></table>`)
	})
}

func dateRange(since, until *time.Time) string {
	switch {
	case since == nil && until == nil:
		return ""
	case until == nil:
		return "from " + since.Format(query.DateFormat)
	case since == nil:
		return "until " + until.Format(query.DateFormat)
	default:
		return since.Format(query.DateFormat) + " to " + until.Format(query.DateFormat)
	}
}
