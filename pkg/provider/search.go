package provider

import (
	"context"
	"net/url"

	"github.com/spotterhq/spotter/pkg/tweet"
)

// Search runs a paginated advanced search and returns all fetched items in
// fetch order. See SearchPages for the pagination contract.
func (c *Client) Search(ctx context.Context, query, mode string, pageBudget int) ([]tweet.Tweet, error) {
	return c.SearchPages(ctx, query, mode, pageBudget, nil)
}

// SearchPages runs a paginated advanced search, calling emit (when non-nil)
// after each fetched page. At most pageBudget pages are fetched; the loop
// stops early when the provider reports no continuation, or a page comes
// back empty.
//
// A failure on the first page is fatal (ErrNoAPIKey before any I/O, or a
// *ProviderError / transport error from the call). A failure on any later
// page ends the loop and returns the partial results with a nil error;
// retrying mid-stream is not worth a broken cursor.
func (c *Client) SearchPages(ctx context.Context, query, mode string, pageBudget int, emit func(page int, items []tweet.Tweet)) ([]tweet.Tweet, error) {
	if !c.HasAPIKey() {
		return nil, ErrNoAPIKey
	}
	if mode == "" {
		mode = ModeLatest
	}
	if pageBudget < 1 {
		pageBudget = 1
	}

	var all []tweet.Tweet
	cursor := ""

	for page := 1; page <= pageBudget; page++ {
		params := url.Values{}
		params.Set("query", query)
		params.Set("queryType", mode)
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		body, err := c.get(ctx, searchPath, params)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			c.logger.Warnf("page %d fetch failed, keeping %d partial results: %v", page, len(all), err)
			break
		}

		pg, err := parseSearchPage(body)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			c.logger.Warnf("page %d parse failed, keeping %d partial results: %v", page, len(all), err)
			break
		}

		if len(pg.Items) == 0 {
			break
		}

		all = append(all, pg.Items...)
		if emit != nil {
			emit(page, pg.Items)
		}

		c.logger.Debugf("page %d: %d items, has_more=%v", page, len(pg.Items), pg.HasMore)

		if !pg.HasMore {
			break
		}
		cursor = pg.NextCursor
	}

	return all, nil
}
