package components

import (
	"github.com/a-h/templ"

	"github.com/spotterhq/spotter/cmd/web/components/types"
	"github.com/spotterhq/spotter/pkg/tweet"
)

// Accounts renders the curated account list with add, remove and bulk
// import forms.
func Accounts(data types.PageData) templ.Component {
	return page(data, func(h *hbuf) {
		h.raw(`<h2>Curated accounts</h2>`)

		h.raw(`<form method="post" action="/accounts/add" class="inline-form">`)
		h.raw(`<input type="text" name="handle" placeholder="@handle" required>`)
		h.raw(`<button type="submit">Add</button>`)
		h.raw(`</form>`)

		if len(data.Accounts) == 0 {
			h.raw(`<p class="hint">The list is empty. Searches run unscoped until accounts are added.</p>`)
		} else {
			h.raw(`<ul class="account-list">`)
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

				h.raw(`<li><img`)
				h.attr("src", avatar)
				h.attr("alt", handle)
				h.raw(` loading="lazy"><span>`)
				h.esc(name)
				h.raw(` <span class="handle">@`)
				h.esc(handle)
				h.raw(`</span></span>`)

				h.raw(`<form method="post" action="/accounts/remove">`)
				h.raw(`<input type="hidden" name="handle"`)
				h.attr("value", handle)
				h.raw(`><button type="submit" class="danger">Remove</button></form>`)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}

		h.raw(`<details><summary>Bulk import</summary>`)
		h.raw(`<form method="post" action="/accounts/bulk">`)
		h.raw(`<textarea name="handles" rows="6" placeholder="One handle per line, or comma separated"></textarea>`)
		h.raw(`<button type="submit">Import</button>`)
		h.raw(`</form></details>`)
	})
}
