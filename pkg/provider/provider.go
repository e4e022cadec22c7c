// Package provider is the client for the remote content-search API
// (twitterapi.io compatible). It covers the paginated advanced-search
// endpoint and the user lookup/search endpoints used by the author
// resolver.
//
// The provider's response schema has drifted across deployments, so
// parsing tolerates every shape we have seen in the wild; see shapes.go.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/spotterhq/spotter/pkg/log"
)

const (
	defaultBaseURL = "https://api.twitterapi.io"

	searchPath     = "/twitter/tweet/advanced_search"
	userInfoPath   = "/twitter/user/info"
	userSearchPath = "/twitter/user/search"
)

// Search modes accepted by the advanced-search endpoint.
const (
	ModeLatest = "Latest"
	ModeTop    = "Top"
)

// Client talks to the content provider. All calls carry the API key in the
// x-api-key header. The zero value is not usable; use New.
type Client struct {
	mu         sync.RWMutex
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// New creates a client for the given API key. The key may be empty;
// Search fails with ErrNoAPIKey before any network I/O in that case.
func New(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.ForService("provider"),
	}
}

// SetBaseURL points the client at a different deployment. Used by tests
// and self-hosted proxies. Empty restores the default.
func (c *Client) SetBaseURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u == "" {
		u = defaultBaseURL
	}
	c.baseURL = u
}

// SetAPIKey replaces the credential. Safe to call while requests are in
// flight; the web server uses this on config hot-reload.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = key
}

// SetHTTPClient replaces the underlying HTTP client, e.g. to change the
// per-call timeout.
func (c *Client) SetHTTPClient(h *http.Client) {
	if h == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpClient = h
}

// HasAPIKey reports whether a credential is configured.
func (c *Client) HasAPIKey() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey != ""
}

// get performs one authenticated GET and returns the response body.
// Non-2xx statuses yield a *ProviderError carrying status and body.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	c.mu.RLock()
	baseURL, apiKey, httpClient := c.baseURL, c.apiKey, c.httpClient
	c.mu.RUnlock()

	reqURL := baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", apiKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warnf("failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
