// Package resolver turns author handles into display names and avatar
// URLs. It layers a persistent cache over three remote strategies and a
// local fallback, so resolution always produces something to render.
package resolver

import (
	"context"
	"strings"

	"github.com/spotterhq/spotter/pkg/log"
	"github.com/spotterhq/spotter/pkg/provider"
	"github.com/spotterhq/spotter/pkg/store"
	"github.com/spotterhq/spotter/pkg/tweet"
)

// Provider is the subset of the content-provider client the resolver
// needs. *provider.Client satisfies it.
type Provider interface {
	LookupUser(ctx context.Context, handle string) (tweet.UserInfo, error)
	SearchUsers(ctx context.Context, term string) (tweet.UserInfo, error)
	Search(ctx context.Context, query, mode string, pageBudget int) ([]tweet.Tweet, error)
}

// Resolver resolves handle metadata through a tiered fallback chain:
//
//  1. cache (entries whose name merely echoes the handle are not trusted)
//  2. exact user lookup
//  3. fuzzy user search, top candidate
//  4. content search scoped to the handle, author of the newest post
//  5. the handle itself plus a synthesized avatar
//
// Remote failures are absorbed: a tier that errors simply yields to the
// next one, and Resolve never fails.
type Resolver struct {
	provider Provider
	cache    store.UserInfoCache
	logger   *log.Logger
}

// New creates a resolver over the given provider and cache.
func New(p Provider, cache store.UserInfoCache) *Resolver {
	return &Resolver{
		provider: p,
		cache:    cache,
		logger:   log.ForService("resolver"),
	}
}

// Resolve maps each handle to its best-effort user info. Handles are
// resolved sequentially; each handle's chain completes before its entry
// appears in the result. Freshly resolved entries are written back to the
// cache unconditionally, overwriting whatever was there.
func (r *Resolver) Resolve(ctx context.Context, handles []string) map[string]tweet.UserInfo {
	cached, err := r.cache.All()
	if err != nil {
		r.logger.Warnf("reading user cache: %v", err)
		cached = map[string]tweet.UserInfo{}
	}

	result := make(map[string]tweet.UserInfo, len(handles))
	dirty := false

	for _, handle := range handles {
		handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
		if handle == "" {
			continue
		}

		if info, ok := cacheHit(cached, handle); ok {
			result[handle] = info
			continue
		}

		info := r.resolveRemote(ctx, handle)
		result[handle] = info
		cached[strings.ToLower(handle)] = info
		dirty = true
	}

	if dirty {
		if err := r.cache.Replace(cached); err != nil {
			r.logger.Warnf("writing user cache: %v", err)
		}
	}

	return result
}

// cacheHit returns a trusted cache entry for handle. Entries whose name is
// just the handle restated mark earlier failed resolutions and are
// re-fetched instead.
func cacheHit(cached map[string]tweet.UserInfo, handle string) (tweet.UserInfo, bool) {
	info, ok := cached[strings.ToLower(handle)]
	if !ok {
		info, ok = cached[handle]
	}
	if !ok || !usableName(info.Name, handle) {
		return tweet.UserInfo{}, false
	}
	return withAvatarFallback(info, handle), true
}

// resolveRemote walks tiers 2-4 and falls back to the handle itself.
func (r *Resolver) resolveRemote(ctx context.Context, handle string) tweet.UserInfo {
	if info, ok := r.lookupTier(ctx, handle); ok {
		return info
	}
	if info, ok := r.searchTier(ctx, handle); ok {
		return info
	}
	if info, ok := r.contentTier(ctx, handle); ok {
		return info
	}
	r.logger.Debugf("all tiers missed for %q, using fallback", handle)
	return tweet.UserInfo{Name: handle, Avatar: tweet.AvatarURL(handle)}
}

func (r *Resolver) lookupTier(ctx context.Context, handle string) (tweet.UserInfo, bool) {
	info, err := r.provider.LookupUser(ctx, handle)
	if err != nil {
		r.logger.Debugf("user lookup tier failed for %q: %v", handle, err)
		return tweet.UserInfo{}, false
	}
	if !usableName(info.Name, handle) {
		return tweet.UserInfo{}, false
	}
	return withAvatarFallback(info, handle), true
}

func (r *Resolver) searchTier(ctx context.Context, handle string) (tweet.UserInfo, bool) {
	info, err := r.provider.SearchUsers(ctx, handle)
	if err != nil {
		r.logger.Debugf("user search tier failed for %q: %v", handle, err)
		return tweet.UserInfo{}, false
	}
	if !usableName(info.Name, handle) {
		return tweet.UserInfo{}, false
	}
	return withAvatarFallback(info, handle), true
}

// contentTier reads the author name off the handle's most recent post.
func (r *Resolver) contentTier(ctx context.Context, handle string) (tweet.UserInfo, bool) {
	items, err := r.provider.Search(ctx, "from:"+handle, provider.ModeLatest, 1)
	if err != nil {
		r.logger.Debugf("content tier failed for %q: %v", handle, err)
		return tweet.UserInfo{}, false
	}
	if len(items) == 0 {
		return tweet.UserInfo{}, false
	}
	author := items[0].Author
	if !usableName(author.Name, handle) {
		return tweet.UserInfo{}, false
	}
	return withAvatarFallback(tweet.UserInfo{Name: author.Name, Avatar: author.Avatar}, handle), true
}

// usableName reports whether name is meaningful for handle: non-empty and
// not just the handle restated.
func usableName(name, handle string) bool {
	return name != "" && !strings.EqualFold(name, handle)
}

func withAvatarFallback(info tweet.UserInfo, handle string) tweet.UserInfo {
	if info.Avatar == "" {
		info.Avatar = tweet.AvatarURL(handle)
	}
	return info
}
