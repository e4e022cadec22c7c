package provider

import (
	"context"
	"net/url"

	"github.com/spotterhq/spotter/pkg/tweet"
)

// LookupUser queries the exact-handle lookup endpoint. An empty Name in
// the returned info means the response carried no recognizable user object;
// a non-nil error means the call itself failed.
func (c *Client) LookupUser(ctx context.Context, handle string) (tweet.UserInfo, error) {
	if !c.HasAPIKey() {
		return tweet.UserInfo{}, ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("userName", handle)

	body, err := c.get(ctx, userInfoPath, params)
	if err != nil {
		return tweet.UserInfo{}, err
	}

	info, ok := extractUserInfo(body)
	if !ok {
		c.logger.Debugf("user lookup for %q: no recognizable shape", handle)
		return tweet.UserInfo{}, nil
	}
	return info, nil
}

// SearchUsers queries the fuzzy user-search endpoint with term and returns
// the top candidate's info. Same empty-Name convention as LookupUser.
func (c *Client) SearchUsers(ctx context.Context, term string) (tweet.UserInfo, error) {
	if !c.HasAPIKey() {
		return tweet.UserInfo{}, ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("query", term)

	body, err := c.get(ctx, userSearchPath, params)
	if err != nil {
		return tweet.UserInfo{}, err
	}

	info, ok := extractFirstUser(body)
	if !ok {
		c.logger.Debugf("user search for %q: no recognizable shape", term)
		return tweet.UserInfo{}, nil
	}
	return info, nil
}
