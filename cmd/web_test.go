package cmd

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/spotterhq/spotter/pkg/config"
)

// newFakeProvider serves twitterapi-shaped responses for the search and
// user-info endpoints.
func newFakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/twitter/tweet/advanced_search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"tweets": [
				{"id": "1", "url": "https://x.com/nasa/status/1", "text": "Climate change is accelerating",
				 "createdAt": "Mon Jan 06 10:00:00 +0000 2025", "likeCount": 12000,
				 "author": {"id": "u1", "userName": "nasa", "name": "NASA"}},
				{"id": "2", "url": "https://x.com/esa/status/2", "text": "New climate dataset released",
				 "createdAt": "Mon Jan 06 11:00:00 +0000 2025", "likeCount": 300,
				 "author": {"id": "u2", "userName": "esa", "name": "ESA"}}
			],
			"has_next_page": false
		}`))
	})
	mux.HandleFunc("/twitter/user/info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"userName": "nasa", "name": "NASA", "profilePicture": "https://pbs.example/nasa.jpg"}}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestWebServer(t *testing.T, providerURL string) *WebServer {
	t.Helper()
	cfg := &config.Config{
		DataDir: t.TempDir(),
		Provider: config.ProviderConfig{
			APIKey:      "test-key",
			BaseURL:     providerURL,
			PageBudget:  2,
			DefaultMode: "Latest",
		},
	}
	srv, err := newWebServer(cfg)
	if err != nil {
		t.Fatalf("new web server: %v", err)
	}
	return srv
}

func postForm(t *testing.T, handler http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebSearchFlow(t *testing.T) {
	provider := newFakeProvider(t)
	srv := newTestWebServer(t, provider.URL)
	handler := srv.Routes()

	rec := postForm(t, handler, "/search", url.Values{
		"phrase":   {"climate"},
		"mode":     {"Latest"},
		"unscoped": {"1"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<mark>Climate</mark>") {
		t.Error("expected highlighted phrase in results")
	}
	if !strings.Contains(body, "@nasa") || !strings.Contains(body, "@esa") {
		t.Error("expected author handles in results")
	}
	if !strings.Contains(body, `&#34;climate&#34;`) {
		t.Error("expected compiled query echoed on the page")
	}
	if !strings.Contains(body, "12,000") {
		t.Error("expected formatted like count")
	}
}

func TestWebSearchRequiresPhrase(t *testing.T) {
	provider := newFakeProvider(t)
	srv := newTestWebServer(t, provider.URL)

	rec := postForm(t, srv.Routes(), "/search", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with inline error, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "phrase is required") {
		t.Error("expected validation message on the page")
	}
}

func TestWebSearchProviderFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "payment required"}`, http.StatusPaymentRequired)
	}))
	defer failing.Close()

	srv := newTestWebServer(t, failing.URL)

	rec := postForm(t, srv.Routes(), "/search", url.Values{
		"phrase":   {"climate"},
		"unscoped": {"1"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with inline error, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "402") {
		t.Error("expected provider status in the error banner")
	}
	if !strings.Contains(body, `&#34;climate&#34;`) {
		t.Error("expected compiled query echoed even on failure")
	}
}

func TestWebExportCSV(t *testing.T) {
	provider := newFakeProvider(t)
	srv := newTestWebServer(t, provider.URL)

	rec := postForm(t, srv.Routes(), "/export", url.Values{
		"phrase":   {"climate"},
		"format":   {"csv"},
		"unscoped": {"1"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("expected text/csv content type, got %q", got)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, "spotter_climate.csv") {
		t.Errorf("unexpected disposition %q", disposition)
	}
	if !strings.HasPrefix(rec.Body.String(), "id,url,text,createdAt") {
		t.Errorf("unexpected CSV header: %q", rec.Body.String()[:60])
	}
}

func TestWebExportXLSX(t *testing.T) {
	provider := newFakeProvider(t)
	srv := newTestWebServer(t, provider.URL)

	rec := postForm(t, srv.Routes(), "/export", url.Values{
		"phrase":   {"climate"},
		"format":   {"xlsx"},
		"unscoped": {"1"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "spreadsheet") {
		t.Errorf("expected spreadsheet content type, got %q", got)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), ".xlsx") {
		t.Errorf("expected .xlsx filename, got %q", rec.Header().Get("Content-Disposition"))
	}
}

func TestWebExportRejectsUnknownFormat(t *testing.T) {
	provider := newFakeProvider(t)
	srv := newTestWebServer(t, provider.URL)

	rec := postForm(t, srv.Routes(), "/export", url.Values{
		"phrase": {"climate"},
		"format": {"pdf"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWebAuthGating(t *testing.T) {
	provider := newFakeProvider(t)
	srv := newTestWebServer(t, provider.URL)
	srv.apiServer.SetAuth(config.AuthConfig{
		Username:       "admin",
		Password:       "secret",
		ViewerUsername: "viewer",
		ViewerPassword: "lookonly",
	})
	handler := srv.Routes()

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.SetBasicAuth("viewer", "lookonly")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for viewer, got %d", rec.Code)
	}

	// Viewer cannot mutate the account list.
	form := url.Values{"handle": {"nasa"}}
	req = httptest.NewRequest("POST", "/accounts/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("viewer", "lookonly")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer mutation, got %d", rec.Code)
	}
}

func TestWebAccountManagement(t *testing.T) {
	provider := newFakeProvider(t)
	srv := newTestWebServer(t, provider.URL)
	handler := srv.Routes()

	rec := postForm(t, handler, "/accounts/add", url.Values{"handle": {"@NASA"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after add, got %d", rec.Code)
	}

	stored, err := srv.accounts.All()
	if err != nil {
		t.Fatalf("read accounts: %v", err)
	}
	if len(stored) != 1 || stored[0] != "NASA" {
		t.Fatalf("expected normalized NASA, got %v", stored)
	}

	// The accounts page shows the resolved display name.
	req := httptest.NewRequest("GET", "/accounts", nil)
	page := httptest.NewRecorder()
	handler.ServeHTTP(page, req)
	if page.Code != http.StatusOK {
		t.Fatalf("accounts page: expected 200, got %d", page.Code)
	}
	if !strings.Contains(page.Body.String(), "@NASA") {
		t.Error("expected handle on accounts page")
	}

	rec = postForm(t, handler, "/accounts/bulk", url.Values{"handles": {"esa\n@jaxa, nasa"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after bulk import, got %d", rec.Code)
	}
	stored, _ = srv.accounts.All()
	if len(stored) != 3 {
		t.Fatalf("expected 3 accounts after bulk import, got %v", stored)
	}

	rec = postForm(t, handler, "/accounts/remove", url.Values{"handle": {"nasa"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after remove, got %d", rec.Code)
	}
	stored, _ = srv.accounts.All()
	if len(stored) != 2 {
		t.Fatalf("expected 2 accounts after remove, got %v", stored)
	}
}

func TestWebHistoryPage(t *testing.T) {
	provider := newFakeProvider(t)
	srv := newTestWebServer(t, provider.URL)
	handler := srv.Routes()

	// A search populates the log.
	postForm(t, handler, "/search", url.Values{"phrase": {"climate"}, "unscoped": {"1"}})

	req := httptest.NewRequest("GET", "/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "climate") {
		t.Error("expected logged phrase on history page")
	}

	rec = postForm(t, handler, "/history/clear", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after clear, got %d", rec.Code)
	}

	entries, err := srv.history.All()
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history after clear, got %d entries", len(entries))
	}
}

func TestWebStaticAssets(t *testing.T) {
	provider := newFakeProvider(t)
	srv := newTestWebServer(t, provider.URL)
	handler := srv.Routes()

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/css" {
		t.Errorf("expected text/css, got %q", got)
	}
}
