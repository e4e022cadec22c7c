package components

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/spotterhq/spotter/cmd/web/components/types"
	"github.com/spotterhq/spotter/pkg/tweet"
)

// Index renders the search page: the form, the curated account chips and,
// after a search, the result table.
func Index(data types.PageData) templ.Component {
	return page(data, func(h *hbuf) {
		searchForm(h, data)
		accountChips(h, data)
		if data.Query != "" {
			results(h, data)
		}
	})
}

func searchForm(h *hbuf, data types.PageData) {
	h.raw(`<form method="post" action="/search" class="search-form">`)

	h.raw(`<input type="text" name="phrase" placeholder="Phrase to find" required`)
	h.attr("value", data.Phrase)
	h.raw(`>`)

	h.raw(`<select name="mode">`)
	for _, mode := range []string{"Latest", "Top"} {
		h.raw(`<option`)
		h.attr("value", mode)
		if data.Mode == mode {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.esc(mode)
		h.raw(`</option>`)
	}
	h.raw(`</select>`)

	pages := data.Pages
	if pages < 1 {
		pages = 1
	}
	h.raw(`<input type="number" name="pages" min="1" max="20" title="Pages to fetch"`)
	h.attr("value", strconv.Itoa(pages))
	h.raw(`>`)

	h.raw(`<input type="date" name="since" title="From date"`)
	h.attr("value", data.Since)
	h.raw(`>`)
	h.raw(`<input type="date" name="until" title="To date"`)
	h.attr("value", data.Until)
	h.raw(`>`)

	h.raw(`<label class="unscoped"><input type="checkbox" name="unscoped" value="1"`)
	if data.Unscoped {
		h.raw(` checked`)
	}
	h.raw(`> all of X</label>`)

	h.raw(`<button type="submit">Search</button>`)
	h.raw(`</form>`)
}

func accountChips(h *hbuf, data types.PageData) {
	if len(data.Accounts) == 0 {
		h.raw(`<p class="hint">No curated accounts yet. Searches cover all of X until you <a href="/accounts">add some</a>.</p>`)
		return
	}

	h.raw(`<div class="chips">`)
	for _, handle := range data.Accounts {
		info := data.AuthorInfo[handle]
		name := info.Name
		if name == "" {
			name = handle
		}
		avatar := info.Avatar
		if avatar == "" {
			avatar = tweet.AvatarURL(handle)
		}

		h.raw(`<span class="chip">`)
		h.raw(`<img`)
		h.attr("src", avatar)
		h.attr("alt", handle)
		h.raw(` loading="lazy">`)
		h.esc(name)
		h.raw(` <span class="handle">@`)
		h.esc(handle)
		h.raw(`</span></span>`)
	}
	h.raw(`</div>`)
}

func results(h *hbuf, data types.PageData) {
	h.raw(`<section class="results">`)

	h.raw(`<div class="results-header">`)
	h.raw(`<h2>`)
	h.raw(formatCount(data.TotalCount))
	h.raw(` results</h2>`)
	h.raw(`<code class="query">`)
	h.esc(data.Query)
	h.raw(`</code>`)
	exportButtons(h, data)
	h.raw(`</div>`)

	if len(data.Rows) == 0 {
		h.raw(`<p class="hint">Nothing matched.</p></section>`)
		return
	}

	h.raw(`<input type="search" id="row-filter" placeholder="Filter by author or text">`)

	h.raw(`<table id="results-table"><thead><tr>`)
	h.raw(`<th>Author</th><th>Tweet</th><th>Date</th>`)
	h.raw(`<th class="num sortable" data-sort="likes">Likes</th>`)
	h.raw(`<th class="num sortable" data-sort="retweets">RTs</th>`)
	h.raw(`<th class="num sortable" data-sort="replies">Replies</th>`)
	h.raw(`<th class="num sortable" data-sort="views">Views</th>`)
	h.raw(`</tr></thead><tbody>`)

	for _, row := range data.Rows {
		h.raw(`<tr`)
		h.attr("data-author", row.AuthorHandle)
		h.raw(`>`)

		h.raw(`<td class="author">`)
		if row.AuthorAvatar != "" {
			h.raw(`<img`)
			h.attr("src", row.AuthorAvatar)
			h.attr("alt", row.AuthorHandle)
			h.raw(` loading="lazy">`)
		}
		h.raw(`<span>`)
		h.esc(row.AuthorName)
		h.raw(` <span class="handle">@`)
		h.esc(row.AuthorHandle)
		h.raw(`</span></span></td>`)

		h.raw(`<td class="text">`)
		// Pre-escaped upstream, written raw so <mark> spans survive.
		h.raw(row.HighlightedHTML)
		if row.URL != "" {
			h.raw(` <a class="permalink"`)
			h.attr("href", row.URL)
			h.raw(` target="_blank" rel="noopener">&#8599;</a>`)
		}
		h.raw(`</td>`)

		h.raw(`<td class="date">`)
		h.esc(row.CreatedAt)
		h.raw(`</td>`)

		for _, n := range []int{row.LikeCount, row.RetweetCount, row.ReplyCount, row.ViewCount} {
			h.raw(`<td class="num"`)
			h.attr("data-value", strconv.Itoa(n))
			h.raw(`>`)
			h.raw(formatCount(n))
			h.raw(`</td>`)
		}

		h.raw(`</tr>`)
	}

	h.raw(`</tbody></table></section>`)
}

// exportButtons re-submits the original search to /export via hidden
// fields, one button per format.
func exportButtons(h *hbuf, data types.PageData) {
	h.raw(`<form method="post" action="/export" class="export-form">`)

	hidden := func(name, value string) {
		h.raw(`<input type="hidden"`)
		h.attr("name", name)
		h.attr("value", value)
		h.raw(`>`)
	}
	hidden("phrase", data.Phrase)
	hidden("mode", data.Mode)
	hidden("pages", strconv.Itoa(data.Pages))
	hidden("since", data.Since)
	hidden("until", data.Until)
	if data.Unscoped {
		hidden("unscoped", "1")
	}

	for _, format := range []string{"csv", "csvgz", "xlsx"} {
		h.raw(`<button type="submit" name="format"`)
		h.attr("value", format)
		h.raw(`>`)
		h.esc(format)
		h.raw(`</button>`)
	}
	h.raw(`</form>`)
}
