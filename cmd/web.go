package cmd

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/spotterhq/spotter/cmd/web/components"
	"github.com/spotterhq/spotter/cmd/web/components/types"
	"github.com/spotterhq/spotter/pkg/api"
	"github.com/spotterhq/spotter/pkg/config"
	"github.com/spotterhq/spotter/pkg/export"
	"github.com/spotterhq/spotter/pkg/log"
	"github.com/spotterhq/spotter/pkg/provider"
	"github.com/spotterhq/spotter/pkg/query"
	"github.com/spotterhq/spotter/pkg/resolver"
	"github.com/spotterhq/spotter/pkg/search"
	"github.com/spotterhq/spotter/pkg/store"
	"github.com/spotterhq/spotter/pkg/tweet"
	"github.com/spotterhq/spotter/pkg/version"
)

//go:embed web/static/*
var staticFS embed.FS

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"))
		},
	}
}

// WebServer holds the server configuration and dependencies
type WebServer struct {
	client    *provider.Client
	service   *search.Service
	resolver  *resolver.Resolver
	accounts  store.AccountManager
	history   store.HistoryStore
	apiServer *api.Server
	logger    *log.Logger

	cfgMu sync.RWMutex
	cfg   *config.Config
}

// newWebServer wires the stores, provider client and services from the
// loaded configuration.
func newWebServer(cfg *config.Config) (*WebServer, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	accounts := store.NewFileAccountStore(cfg.AccountsPath())
	history := store.NewFileHistoryLog(cfg.HistoryPath())
	userCache := store.NewFileUserInfoCache(cfg.UserCachePath())

	client := provider.New(cfg.Provider.APIKey)
	client.SetBaseURL(cfg.Provider.BaseURL)
	if cfg.Provider.Timeout.Duration > 0 {
		client.SetHTTPClient(&http.Client{Timeout: cfg.Provider.Timeout.Duration})
	}

	service := search.NewService(client, accounts, history)

	apiServer := api.NewServer(service, accounts, history)
	apiServer.SetAuth(cfg.Auth)

	return &WebServer{
		client:    client,
		service:   service,
		resolver:  resolver.New(client, userCache),
		accounts:  accounts,
		history:   history,
		apiServer: apiServer,
		logger:    log.ForService("web"),
		cfg:       cfg,
	}, nil
}

// Routes returns the full handler: JSON API, HTML UI and static assets.
func (s *WebServer) Routes() http.Handler {
	mux := http.NewServeMux()

	// API routes
	s.apiServer.RegisterRoutes(mux)

	// Web UI routes
	mux.HandleFunc("/", s.apiServer.RequireViewer(s.handleHome))
	mux.HandleFunc("POST /search", s.apiServer.RequireViewer(s.handleSearch))
	mux.HandleFunc("POST /export", s.apiServer.RequireViewer(s.handleExport))
	mux.HandleFunc("GET /accounts", s.apiServer.RequireViewer(s.handleAccounts))
	mux.HandleFunc("POST /accounts/add", s.apiServer.RequireAdmin(s.handleAccountAdd))
	mux.HandleFunc("POST /accounts/remove", s.apiServer.RequireAdmin(s.handleAccountRemove))
	mux.HandleFunc("POST /accounts/bulk", s.apiServer.RequireAdmin(s.handleAccountBulk))
	mux.HandleFunc("GET /history", s.apiServer.RequireViewer(s.handleHistory))
	mux.HandleFunc("POST /history/clear", s.apiServer.RequireAdmin(s.handleHistoryClear))

	// Static assets
	mux.HandleFunc("/static/", s.handleStatic)

	return api.CorsMiddleware(mux)
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host, port string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != "" {
		cfg.Server.Port = port
	}

	webServer, err := newWebServer(cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: webServer.Routes(),
	}

	if !webServer.client.HasAPIKey() {
		webServer.logger.Warnf("No API key configured; searches will fail until one is set")
	}

	watcherCtx, stopWatcher := context.WithCancel(ctx)
	defer stopWatcher()
	go webServer.watchConfig(watcherCtx, configPath)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		webServer.logger.Infof("Starting web server on http://%s:%s", cfg.Server.Host, cfg.Server.Port)
		webServer.logger.Infof("Available endpoints:")
		webServer.logger.Infof("  Web UI:")
		webServer.logger.Infof("    GET  / - Search form and curated accounts")
		webServer.logger.Infof("    POST /search - Run a phrase search")
		webServer.logger.Infof("    POST /export - Download results (csv, csvgz, xlsx)")
		webServer.logger.Infof("    GET  /accounts - Manage the curated account list")
		webServer.logger.Infof("    GET  /history - Past searches")
		webServer.logger.Infof("  API:")
		webServer.logger.Infof("    GET  /api/search - Search, JSON results")
		webServer.logger.Infof("    GET  /api/accounts - Curated account list")
		webServer.logger.Infof("    GET  /api/history - Search history")
		webServer.logger.Infof("    GET  /ws/search - Websocket live search")
		webServer.logger.Infof("    GET  /health - Health check")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sigCh:
	case <-ctx.Done():
	}

	webServer.logger.Infof("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// watchConfig reloads provider credentials and auth settings when the
// config file changes. Editors often replace the file, so rename and
// remove events re-add the path to the watcher.
func (s *WebServer) watchConfig(ctx context.Context, configPath string) {
	if configPath == "" {
		var err error
		if configPath, err = config.GetDefaultConfigPath(); err != nil {
			s.logger.Warnf("Cannot determine config path, hot-reload disabled: %v", err)
			return
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Warnf("Failed to create config file watcher: %v", err)
		return
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			s.logger.Warnf("Failed to close config file watcher: %v", err)
		}
	}()

	if err := watcher.Add(configPath); err != nil {
		s.logger.Warnf("Failed to watch config file %s: %v", configPath, err)
		return
	}
	s.logger.Infof("Watching config file for changes: %s", configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			// Small delay so atomic replace writes settle before reading.
			time.Sleep(200 * time.Millisecond)

			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				if _, err := os.Stat(configPath); os.IsNotExist(err) {
					s.logger.Warnf("Config file removed and not replaced, skipping reload")
					continue
				}
				if err := watcher.Add(configPath); err != nil {
					s.logger.Warnf("Failed to re-add config file to watcher: %v", err)
				}
			}

			if err := s.reloadConfig(configPath); err != nil {
				s.logger.Warnf("Failed to reload config: %v", err)
			} else {
				s.logger.Infof("Configuration reloaded")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warnf("Config watcher error: %v", err)
		}
	}
}

func (s *WebServer) reloadConfig(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	s.client.SetAPIKey(cfg.Provider.APIKey)
	s.client.SetBaseURL(cfg.Provider.BaseURL)
	s.apiServer.SetAuth(cfg.Auth)

	s.cfgMu.Lock()
	// Listen address changes still need a restart, everything else
	// takes effect immediately.
	cfg.Server = s.cfg.Server
	s.cfg = cfg
	s.cfgMu.Unlock()
	return nil
}

func (s *WebServer) providerDefaults() config.ProviderConfig {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Provider
}

// Web UI Handlers

// handleHome serves the search form with the curated account chips.
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := s.basePageData(r.Context(), "Spotter - Phrase Search")
	s.renderPage(w, r, components.Index(data))
}

// searchForm is the parsed and validated state of the search form.
type searchForm struct {
	phrase   string
	mode     string
	pages    int
	since    string
	until    string
	unscoped bool
	request  search.Request
}

// parseSearchForm validates form fields and builds the search request.
// Scoped searches pass the stored account list explicitly so the compiled
// query can be echoed even when the provider call fails.
func (s *WebServer) parseSearchForm(r *http.Request, accounts []string) (searchForm, error) {
	defaults := s.providerDefaults()

	form := searchForm{
		phrase:   strings.TrimSpace(r.FormValue("phrase")),
		mode:     r.FormValue("mode"),
		since:    strings.TrimSpace(r.FormValue("since")),
		until:    strings.TrimSpace(r.FormValue("until")),
		unscoped: r.FormValue("unscoped") != "",
		pages:    defaults.PageBudget,
	}
	if form.phrase == "" {
		return form, fmt.Errorf("phrase is required")
	}
	if form.mode == "" {
		form.mode = defaults.DefaultMode
	}

	if pages := r.FormValue("pages"); pages != "" {
		n, err := strconv.Atoi(pages)
		if err != nil || n < 1 {
			return form, fmt.Errorf("invalid pages value %q", pages)
		}
		form.pages = n
	}

	req := search.Request{
		Phrase:     form.phrase,
		Mode:       form.mode,
		PageBudget: form.pages,
		Authors:    accounts,
	}
	if form.unscoped {
		req.Authors = []string{}
	}

	if form.since != "" {
		t, err := time.Parse(query.DateFormat, form.since)
		if err != nil {
			return form, fmt.Errorf("invalid from date %q", form.since)
		}
		req.Since = &t
	}
	if form.until != "" {
		t, err := time.Parse(query.DateFormat, form.until)
		if err != nil {
			return form, fmt.Errorf("invalid to date %q", form.until)
		}
		req.Until = &t
	}

	form.request = req
	return form, nil
}

// handleSearch runs the search and renders the result table.
func (s *WebServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	data := s.basePageData(r.Context(), "Search - Spotter")

	form, err := s.parseSearchForm(r, data.Accounts)
	data.Phrase = form.phrase
	data.Mode = form.mode
	data.Pages = form.pages
	data.Since = form.since
	data.Until = form.until
	data.Unscoped = form.unscoped
	if err != nil {
		data.Error = err.Error()
		s.renderPage(w, r, components.Index(data))
		return
	}

	result, err := s.service.Run(r.Context(), form.request)
	if err != nil {
		// Show the failure inline with the compiled query echoed so the
		// operator can see what was sent upstream.
		data.Error = fmt.Sprintf("Search failed: %v", err)
		data.Query = query.Build(query.Params{
			Phrase:  form.request.Phrase,
			Authors: form.request.Authors,
			Since:   form.request.Since,
			Until:   form.request.Until,
		})
		s.renderPage(w, r, components.Index(data))
		return
	}

	data.Query = result.Query
	data.Authors = result.Authors
	data.TotalCount = len(result.Rows)
	data.Rows = make([]types.TweetView, len(result.Rows))
	for i, row := range result.Rows {
		data.Rows[i] = types.TweetView{
			Row:             row,
			HighlightedHTML: tweet.Highlight(row.Text, form.phrase),
		}
	}

	s.renderPage(w, r, components.Index(data))
}

// handleExport re-runs the search and streams the rows as a download.
func (s *WebServer) handleExport(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.All()
	if err != nil {
		s.logger.Warnf("Loading accounts for export: %v", err)
		accounts = nil
	}

	form, err := s.parseSearchForm(r, accounts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	format, err := export.ParseFormat(r.FormValue("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.service.Run(r.Context(), form.request)
	if err != nil {
		http.Error(w, fmt.Sprintf("Search failed: %v", err), http.StatusBadGateway)
		return
	}

	filename := format.Filename("spotter_" + exportSlug(form.phrase))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.Write(w, format, result.Rows); err != nil {
		// Headers are gone at this point, all we can do is log.
		s.logger.Errorf("Writing export: %v", err)
	}
}

// exportSlug mangles a phrase into a filename-safe fragment.
func exportSlug(phrase string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ' || r == '-' || r == '_':
			return '_'
		default:
			return -1
		}
	}, strings.Trim(phrase, `"`))
	if len(slug) > 40 {
		slug = slug[:40]
	}
	if slug == "" {
		slug = "search"
	}
	return slug
}

// handleAccounts renders the account management page.
func (s *WebServer) handleAccounts(w http.ResponseWriter, r *http.Request) {
	data := s.basePageData(r.Context(), "Accounts - Spotter")
	data.Success = r.URL.Query().Get("ok")
	s.renderPage(w, r, components.Accounts(data))
}

func (s *WebServer) handleAccountAdd(w http.ResponseWriter, r *http.Request) {
	handle := strings.TrimSpace(r.FormValue("handle"))
	if handle == "" {
		http.Redirect(w, r, "/accounts", http.StatusSeeOther)
		return
	}
	if err := s.accounts.Add(handle); err != nil {
		s.logger.Errorf("Adding account %q: %v", handle, err)
		http.Error(w, fmt.Sprintf("Failed to add account: %v", err), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/accounts?ok=Account+added", http.StatusSeeOther)
}

func (s *WebServer) handleAccountRemove(w http.ResponseWriter, r *http.Request) {
	handle := strings.TrimSpace(r.FormValue("handle"))
	if handle == "" {
		http.Redirect(w, r, "/accounts", http.StatusSeeOther)
		return
	}
	if err := s.accounts.Remove(handle); err != nil {
		s.logger.Errorf("Removing account %q: %v", handle, err)
		http.Error(w, fmt.Sprintf("Failed to remove account: %v", err), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/accounts?ok=Account+removed", http.StatusSeeOther)
}

// handleAccountBulk merges a pasted list of handles into the stored set.
func (s *WebServer) handleAccountBulk(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("handles")
	incoming := splitBulkHandles(raw)
	if len(incoming) == 0 {
		http.Redirect(w, r, "/accounts", http.StatusSeeOther)
		return
	}

	existing, err := s.accounts.All()
	if err != nil {
		s.logger.Errorf("Loading accounts for bulk import: %v", err)
		http.Error(w, fmt.Sprintf("Failed to load accounts: %v", err), http.StatusInternalServerError)
		return
	}

	if err := s.accounts.Replace(append(existing, incoming...)); err != nil {
		s.logger.Errorf("Bulk importing accounts: %v", err)
		http.Error(w, fmt.Sprintf("Failed to import accounts: %v", err), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/accounts?ok=Accounts+imported", http.StatusSeeOther)
}

// splitBulkHandles accepts newline, comma or whitespace separated handles.
func splitBulkHandles(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ',' || r == ' ' || r == '\t'
	})
	handles := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			handles = append(handles, f)
		}
	}
	return handles
}

// handleHistory renders the search log.
func (s *WebServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	data := s.basePageData(r.Context(), "History - Spotter")

	entries, err := s.history.All()
	if err != nil {
		data.Error = fmt.Sprintf("Failed to load history: %v", err)
	}
	data.History = entries

	s.renderPage(w, r, components.History(data))
}

func (s *WebServer) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(); err != nil {
		s.logger.Errorf("Clearing history: %v", err)
		http.Error(w, fmt.Sprintf("Failed to clear history: %v", err), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// Remove /static/ prefix and add web/static/ prefix for embedded filesystem
	filePath := "web/static/" + strings.TrimPrefix(path, "/static/")

	content, err := staticFS.ReadFile(filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch {
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(path, ".ico"):
		w.Header().Set("Content-Type", "image/x-icon")
	case strings.HasSuffix(path, ".png"):
		w.Header().Set("Content-Type", "image/png")
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := w.Write(content); err != nil {
		s.logger.Debugf("Error writing static content: %v", err)
	}
}

// Helper methods

// basePageData loads the account list and its resolved display info, the
// state every page shares.
func (s *WebServer) basePageData(ctx context.Context, title string) types.PageData {
	defaults := s.providerDefaults()

	data := types.PageData{
		Title:   title,
		Version: version.APIVersion(),
		Mode:    defaults.DefaultMode,
		Pages:   defaults.PageBudget,
	}

	accounts, err := s.accounts.All()
	if err != nil {
		s.logger.Warnf("Loading accounts: %v", err)
		return data
	}
	data.Accounts = accounts
	data.AuthorInfo = s.resolver.Resolve(ctx, accounts)
	return data
}

func (s *WebServer) renderPage(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		s.logger.Errorf("Rendering page: %v", err)
	}
}
