// Package components builds the HTML pages on templ's runtime API. The
// page set is small enough that hand-assembled components with explicit
// escaping stay readable; everything user-controlled goes through
// templ.EscapeString, highlighted tweet text is pre-escaped upstream.
package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spotterhq/spotter/cmd/web/components/types"
)

var numPrinter = message.NewPrinter(language.English)

// formatCount renders an engagement counter with thousands separators.
func formatCount(n int) string {
	return numPrinter.Sprintf("%d", n)
}

// hbuf accumulates HTML and remembers the first write error so component
// bodies can stay free of per-write error checks.
type hbuf struct {
	w   io.Writer
	err error
}

func (h *hbuf) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *hbuf) esc(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *hbuf) f(format string, args ...interface{}) {
	h.raw(fmt.Sprintf(format, args...))
}

// attr writes a key="value" pair with the value escaped.
func (h *hbuf) attr(name, value string) {
	h.raw(" ")
	h.raw(name)
	h.raw(`="`)
	h.esc(value)
	h.raw(`"`)
}

// page wraps a body in the shared chrome: header, nav, flash banners and
// the version footer.
func page(data types.PageData, body func(h *hbuf)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &hbuf{w: w}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.esc(data.Title)
		h.raw(`</title>`)
		h.raw(`<link rel="stylesheet" href="/static/style.css">`)
		h.raw(`</head><body>`)

		h.raw(`<header><nav>`)
		h.raw(`<a href="/" class="brand">spotter</a>`)
		h.raw(`<a href="/accounts">Accounts</a>`)
		h.raw(`<a href="/history">History</a>`)
		h.raw(`</nav></header>`)

		h.raw(`<main>`)
		if data.Error != "" {
			h.raw(`<div class="banner error">`)
			h.esc(data.Error)
			h.raw(`</div>`)
		}
		if data.Success != "" {
			h.raw(`<div class="banner success">`)
			h.esc(data.Success)
			h.raw(`</div>`)
		}

		body(h)

		h.raw(`</main>`)
		h.raw(`<footer>spotter `)
		h.esc(data.Version)
		h.raw(`</footer>`)
		h.raw(`<script src="/static/app.js"></script>`)
		h.raw(`</body></html>`)

		return h.err
	})
}
