package tweet

import (
	"testing"
)

func TestFlattenFullItem(t *testing.T) {
	raw := Tweet{
		ID:           "1750000000000000000",
		URL:          "https://x.com/nytimes/status/1750000000000000000",
		Text:         "Breaking news",
		CreatedAt:    "Tue Jan 23 10:00:00 +0000 2024",
		LikeCount:    10,
		RetweetCount: 4,
		ReplyCount:   2,
		QuoteCount:   1,
		ViewCount:    9000,
		Lang:         "en",
		Author: Author{
			ID:     "807095",
			Handle: "nytimes",
			Name:   "The New York Times",
			Avatar: "https://pbs.twimg.com/profile_images/nytimes.jpg",
		},
	}

	row := Flatten(raw)

	if row.ID != raw.ID || row.URL != raw.URL || row.Text != raw.Text {
		t.Errorf("identity fields not carried over: %+v", row)
	}
	if row.AuthorHandle != "nytimes" || row.AuthorName != "The New York Times" || row.AuthorID != "807095" {
		t.Errorf("author fields not carried over: %+v", row)
	}
	if row.AuthorAvatar != raw.Author.Avatar {
		t.Errorf("avatar = %q, want provider value", row.AuthorAvatar)
	}
	if row.LikeCount != 10 || row.ViewCount != 9000 {
		t.Errorf("counters not carried over: %+v", row)
	}
}

func TestFlattenEmptyItemIsTotal(t *testing.T) {
	row := Flatten(Tweet{})

	if row.ID != "" || row.AuthorName != "" || row.AuthorAvatar != "" {
		t.Errorf("expected empty fields for empty item, got %+v", row)
	}
	if row.LikeCount != 0 || row.ViewCount != 0 {
		t.Errorf("expected zero counters, got %+v", row)
	}
	if got, want := len(row.Strings()), len(Columns); got != want {
		t.Errorf("Strings() has %d values, want %d", got, want)
	}
}

func TestFlattenSynthesizesAvatar(t *testing.T) {
	row := Flatten(Tweet{Author: Author{Handle: "BBCWorld"}})
	want := "https://unavatar.io/twitter/BBCWorld"
	if row.AuthorAvatar != want {
		t.Errorf("avatar = %q, want %q", row.AuthorAvatar, want)
	}
}

func TestFlattenNoHandleNoAvatar(t *testing.T) {
	// Without a handle there is nothing to feed the proxy template.
	row := Flatten(Tweet{Text: "orphan"})
	if row.AuthorAvatar != "" {
		t.Errorf("avatar = %q, want empty", row.AuthorAvatar)
	}
}

func TestAvatarURLStripsAt(t *testing.T) {
	if got, want := AvatarURL("@nytimes"), "https://unavatar.io/twitter/nytimes"; got != want {
		t.Errorf("AvatarURL = %q, want %q", got, want)
	}
}

func TestRowStringsMatchesColumnOrder(t *testing.T) {
	row := Flatten(Tweet{ID: "1", URL: "u", Text: "t", Lang: "en", LikeCount: 7})
	vals := row.Strings()
	if vals[0] != "1" || vals[1] != "u" || vals[2] != "t" {
		t.Errorf("leading columns out of order: %v", vals)
	}
	if vals[8] != "7" {
		t.Errorf("likeCount column = %q, want \"7\"", vals[8])
	}
	if vals[len(vals)-1] != "en" {
		t.Errorf("lang must be the last column, got %v", vals)
	}
}

func TestHighlightWrapsMatches(t *testing.T) {
	got := Highlight("Climate change is real. CLIMATE CHANGE!", "climate change")
	want := "<mark>Climate change</mark> is real. <mark>CLIMATE CHANGE</mark>!"
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlightStripsPhraseQuotes(t *testing.T) {
	got := Highlight("an exact match here", `"exact match"`)
	want := "an <mark>exact match</mark> here"
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlightEmptyPhraseReturnsEscapedText(t *testing.T) {
	got := Highlight("a <b> & c", `""`)
	want := "a &lt;b&gt; &amp; c"
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlightEscapesOutsideMarks(t *testing.T) {
	got := Highlight("<i>spam</i> spam", "spam")
	want := "&lt;i&gt;<mark>spam</mark>&lt;/i&gt; <mark>spam</mark>"
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}
