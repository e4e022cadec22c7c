package provider

import (
	"testing"
)

func TestParseSearchPageTweetsShape(t *testing.T) {
	body := `{"tweets":[{"id":"1"},{"id":"2"}],"has_next_page":true,"next_cursor":"abc"}`
	pg, err := parseSearchPage([]byte(body))
	if err != nil {
		t.Fatalf("parseSearchPage: %v", err)
	}
	if len(pg.Items) != 2 || pg.NextCursor != "abc" || !pg.HasMore {
		t.Errorf("page = %+v", pg)
	}
}

func TestParseSearchPageCamelCaseShape(t *testing.T) {
	body := `{"items":[{"id":"1"}],"hasNextPage":true,"nextCursor":"abc"}`
	pg, err := parseSearchPage([]byte(body))
	if err != nil {
		t.Fatalf("parseSearchPage: %v", err)
	}
	if len(pg.Items) != 1 || pg.NextCursor != "abc" || !pg.HasMore {
		t.Errorf("page = %+v", pg)
	}
}

func TestParseSearchPageDataArrayShape(t *testing.T) {
	body := `{"data":[{"id":"1"},{"id":"2"},{"id":"3"}]}`
	pg, err := parseSearchPage([]byte(body))
	if err != nil {
		t.Fatalf("parseSearchPage: %v", err)
	}
	if len(pg.Items) != 3 {
		t.Errorf("got %d items, want 3", len(pg.Items))
	}
	if pg.HasMore {
		t.Error("no cursor present, HasMore must be false")
	}
}

func TestParseSearchPageDataObjectShape(t *testing.T) {
	body := `{"data":{"tweets":[{"id":"1"}]},"next_cursor":"zz"}`
	pg, err := parseSearchPage([]byte(body))
	if err != nil {
		t.Fatalf("parseSearchPage: %v", err)
	}
	if len(pg.Items) != 1 || !pg.HasMore {
		t.Errorf("page = %+v", pg)
	}
}

func TestParseSearchPageExplicitFalseFlagWins(t *testing.T) {
	// Some revisions keep sending a cursor alongside has_next_page=false.
	body := `{"tweets":[{"id":"1"}],"has_next_page":false,"next_cursor":"stale"}`
	pg, err := parseSearchPage([]byte(body))
	if err != nil {
		t.Fatalf("parseSearchPage: %v", err)
	}
	if pg.HasMore {
		t.Error("explicit false flag must end pagination")
	}
}

func TestParseSearchPageJoinsIncludedUsers(t *testing.T) {
	body := `{
		"tweets":[{"id":"1","author_id":"42"},{"id":"2","author_id":"404"}],
		"includes":{"users":[{"id":"42","userName":"nytimes","name":"The New York Times"}]}
	}`
	pg, err := parseSearchPage([]byte(body))
	if err != nil {
		t.Fatalf("parseSearchPage: %v", err)
	}
	if pg.Items[0].Author.Handle != "nytimes" || pg.Items[0].Author.Name != "The New York Times" {
		t.Errorf("join failed: %+v", pg.Items[0].Author)
	}
	if pg.Items[1].Author.Handle != "" {
		t.Errorf("missing index match must leave author empty, got %+v", pg.Items[1].Author)
	}
}

func TestParseSearchPageMalformed(t *testing.T) {
	if _, err := parseSearchPage([]byte("not json")); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestExtractUserInfoModernShape(t *testing.T) {
	body := `{"data":{"userName":"nytimes","name":"The New York Times","profilePicture":"https://img/p.jpg"}}`
	info, ok := extractUserInfo([]byte(body))
	if !ok || info.Name != "The New York Times" || info.Avatar != "https://img/p.jpg" {
		t.Errorf("info = %+v, ok = %v", info, ok)
	}
}

func TestExtractUserInfoBareShape(t *testing.T) {
	body := `{"name":"BBC News (World)","profile_image_url":"https://img/b.png"}`
	info, ok := extractUserInfo([]byte(body))
	if !ok || info.Name != "BBC News (World)" || info.Avatar != "https://img/b.png" {
		t.Errorf("info = %+v, ok = %v", info, ok)
	}
}

func TestExtractUserInfoLegacyShape(t *testing.T) {
	body := `{"data":{"user":{"result":{"legacy":{"name":"Reuters","profile_image_url_https":"https://img/r.jpg"}}}}}`
	info, ok := extractUserInfo([]byte(body))
	if !ok || info.Name != "Reuters" || info.Avatar != "https://img/r.jpg" {
		t.Errorf("info = %+v, ok = %v", info, ok)
	}
}

func TestExtractUserInfoUnknownShape(t *testing.T) {
	if _, ok := extractUserInfo([]byte(`{"status":"ok"}`)); ok {
		t.Error("unknown shape must not produce a hit")
	}
}

func TestExtractFirstUserTopLevelList(t *testing.T) {
	body := `{"users":[{"name":"First Hit","profilePicture":"https://img/1.jpg"},{"name":"Second"}]}`
	info, ok := extractFirstUser([]byte(body))
	if !ok || info.Name != "First Hit" {
		t.Errorf("info = %+v, ok = %v", info, ok)
	}
}

func TestExtractFirstUserNestedList(t *testing.T) {
	body := `{"data":{"users":[{"name":"Nested Hit"}]}}`
	info, ok := extractFirstUser([]byte(body))
	if !ok || info.Name != "Nested Hit" {
		t.Errorf("info = %+v, ok = %v", info, ok)
	}
}

func TestExtractFirstUserDataArray(t *testing.T) {
	body := `{"data":[{"name":"Array Hit"}]}`
	info, ok := extractFirstUser([]byte(body))
	if !ok || info.Name != "Array Hit" {
		t.Errorf("info = %+v, ok = %v", info, ok)
	}
}

func TestExtractFirstUserEmptyList(t *testing.T) {
	if _, ok := extractFirstUser([]byte(`{"users":[]}`)); ok {
		t.Error("empty candidate list must not produce a hit")
	}
}
