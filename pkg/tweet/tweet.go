// Package tweet holds the domain types for search results: the raw item
// shape returned by the content provider and the flattened row used for
// rendering and export.
package tweet

// Author is the provider's user sub-record embedded in (or joined onto)
// a tweet.
type Author struct {
	ID     string `json:"id"`
	Handle string `json:"userName"`
	Name   string `json:"name"`
	Avatar string `json:"profilePicture"`
}

// Tweet is a single item as returned by the provider's search endpoint.
// Any field may be absent; the zero value is meaningful everywhere.
type Tweet struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Text         string `json:"text"`
	CreatedAt    string `json:"createdAt"`
	LikeCount    int    `json:"likeCount"`
	RetweetCount int    `json:"retweetCount"`
	ReplyCount   int    `json:"replyCount"`
	QuoteCount   int    `json:"quoteCount"`
	ViewCount    int    `json:"viewCount"`
	Lang         string `json:"lang"`
	Author       Author `json:"author"`

	// AuthorID is the flat cross-reference some provider revisions send
	// instead of an embedded author. It is resolved against the page's
	// included-users index before flattening.
	AuthorID string `json:"author_id"`
}

// UserInfo is the resolved display metadata for a handle.
type UserInfo struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Row is the flattened, presentation-ready form of a Tweet. The field set
// is identical for every row so tabular serialization never varies columns
// mid-stream.
type Row struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Text         string `json:"text"`
	CreatedAt    string `json:"createdAt"`
	AuthorHandle string `json:"author_userName"`
	AuthorName   string `json:"author_name"`
	AuthorID     string `json:"author_id"`
	AuthorAvatar string `json:"author_avatar"`
	LikeCount    int    `json:"likeCount"`
	RetweetCount int    `json:"retweetCount"`
	ReplyCount   int    `json:"replyCount"`
	QuoteCount   int    `json:"quoteCount"`
	ViewCount    int    `json:"viewCount"`
	Lang         string `json:"lang"`
}

// Columns is the canonical ordered column list shared by the render and
// export paths. Exports use it verbatim even when there are zero rows.
var Columns = []string{
	"id",
	"url",
	"text",
	"createdAt",
	"author_userName",
	"author_name",
	"author_id",
	"author_avatar",
	"likeCount",
	"retweetCount",
	"replyCount",
	"quoteCount",
	"viewCount",
	"lang",
}

// Flatten converts a raw tweet into a Row. It is total: missing fields
// come through as empty strings or zero counts, never an error. The avatar
// fallback is applied here so rendering and export stay consistent.
func Flatten(t Tweet) Row {
	avatar := t.Author.Avatar
	if avatar == "" && t.Author.Handle != "" {
		avatar = AvatarURL(t.Author.Handle)
	}
	return Row{
		ID:           t.ID,
		URL:          t.URL,
		Text:         t.Text,
		CreatedAt:    t.CreatedAt,
		AuthorHandle: t.Author.Handle,
		AuthorName:   t.Author.Name,
		AuthorID:     t.Author.ID,
		AuthorAvatar: avatar,
		LikeCount:    t.LikeCount,
		RetweetCount: t.RetweetCount,
		ReplyCount:   t.ReplyCount,
		QuoteCount:   t.QuoteCount,
		ViewCount:    t.ViewCount,
		Lang:         t.Lang,
	}
}

// FlattenAll maps Flatten over a slice, preserving order.
func FlattenAll(tweets []Tweet) []Row {
	rows := make([]Row, len(tweets))
	for i, t := range tweets {
		rows[i] = Flatten(t)
	}
	return rows
}

// Strings returns the row's values in Columns order, counters formatted
// base-10.
func (r Row) Strings() []string {
	return []string{
		r.ID,
		r.URL,
		r.Text,
		r.CreatedAt,
		r.AuthorHandle,
		r.AuthorName,
		r.AuthorID,
		r.AuthorAvatar,
		itoa(r.LikeCount),
		itoa(r.RetweetCount),
		itoa(r.ReplyCount),
		itoa(r.QuoteCount),
		itoa(r.ViewCount),
		r.Lang,
	}
}
