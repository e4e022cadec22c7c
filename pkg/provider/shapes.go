package provider

import (
	"encoding/json"
	"fmt"

	"github.com/spotterhq/spotter/pkg/tweet"
)

// searchPage is one normalized page of advanced-search results.
type searchPage struct {
	Items      []tweet.Tweet
	NextCursor string
	HasMore    bool
}

// parseSearchPage decodes one advanced-search response. Deployments have
// shipped the item list as "tweets", "items" or "data" (the latter either
// an array or an object wrapping "tweets"/"items"), and the continuation
// fields in both snake and camel case. Items that carry only a flat
// author_id are joined against the optional includes.users index here.
func parseSearchPage(body []byte) (searchPage, error) {
	var raw struct {
		Tweets []tweet.Tweet   `json:"tweets"`
		Items  []tweet.Tweet   `json:"items"`
		Data   json.RawMessage `json:"data"`

		HasNextPage  *bool `json:"has_next_page"`
		HasNextPage2 *bool `json:"hasNextPage"`

		NextCursor  string `json:"next_cursor"`
		NextCursor2 string `json:"nextCursor"`

		Includes struct {
			Users []tweet.Author `json:"users"`
		} `json:"includes"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return searchPage{}, fmt.Errorf("unmarshaling search page: %w", err)
	}

	items := raw.Tweets
	if len(items) == 0 {
		items = raw.Items
	}
	if len(items) == 0 && len(raw.Data) > 0 {
		items = itemsFromData(raw.Data)
	}

	joinIncludedUsers(items, raw.Includes.Users)

	cursor := raw.NextCursor
	if cursor == "" {
		cursor = raw.NextCursor2
	}

	flag := raw.HasNextPage
	if flag == nil {
		flag = raw.HasNextPage2
	}

	// An explicit false flag ends pagination even if a cursor is present;
	// an absent flag defers to the cursor.
	hasMore := cursor != "" && (flag == nil || *flag)

	return searchPage{Items: items, NextCursor: cursor, HasMore: hasMore}, nil
}

// itemsFromData handles the "data" variants: a bare array, or an object
// wrapping "tweets"/"items". Unrecognized shapes yield no items.
func itemsFromData(data json.RawMessage) []tweet.Tweet {
	var arr []tweet.Tweet
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr
	}

	var obj struct {
		Tweets []tweet.Tweet `json:"tweets"`
		Items  []tweet.Tweet `json:"items"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if len(obj.Tweets) > 0 {
			return obj.Tweets
		}
		return obj.Items
	}
	return nil
}

// joinIncludedUsers fills in missing embedded authors from the page's
// included-users index. A missing match stays an empty author; never an
// error.
func joinIncludedUsers(items []tweet.Tweet, users []tweet.Author) {
	if len(users) == 0 {
		return
	}
	index := make(map[string]tweet.Author, len(users))
	for _, u := range users {
		if u.ID != "" {
			index[u.ID] = u
		}
	}
	for i := range items {
		if items[i].Author.Handle == "" && items[i].AuthorID != "" {
			if u, ok := index[items[i].AuthorID]; ok {
				items[i].Author = u
			}
		}
	}
}

// userExtractor attempts one known user-object schema and reports whether
// it produced a usable hit.
type userExtractor func(map[string]any) (tweet.UserInfo, bool)

// userObjectExtractors are tried in order against a single user object.
// First non-empty name wins.
var userObjectExtractors = []userExtractor{
	extractModernUser,
	extractLegacyUser,
}

// extractModernUser reads the current flat schema: name plus
// profilePicture/profile_image_url/avatar.
func extractModernUser(obj map[string]any) (tweet.UserInfo, bool) {
	name := stringAt(obj, "name")
	if name == "" {
		return tweet.UserInfo{}, false
	}
	avatar := firstNonEmpty(
		stringAt(obj, "profilePicture"),
		stringAt(obj, "profile_image_url"),
		stringAt(obj, "avatar"),
	)
	return tweet.UserInfo{Name: name, Avatar: avatar}, true
}

// extractLegacyUser reads the GraphQL-era nested schema:
// legacy.name / legacy.profile_image_url_https.
func extractLegacyUser(obj map[string]any) (tweet.UserInfo, bool) {
	legacy, ok := mapAt(obj, "legacy")
	if !ok {
		return tweet.UserInfo{}, false
	}
	name := stringAt(legacy, "name")
	if name == "" {
		return tweet.UserInfo{}, false
	}
	return tweet.UserInfo{
		Name:   name,
		Avatar: stringAt(legacy, "profile_image_url_https"),
	}, true
}

// unwrapUserObject strips the known response envelopes ("data", "user",
// "result") around a single user object.
func unwrapUserObject(doc map[string]any) map[string]any {
	for _, key := range []string{"data", "user", "result"} {
		if inner, ok := mapAt(doc, key); ok {
			return unwrapUserObject(inner)
		}
	}
	return doc
}

// extractUserInfo probes a user-lookup response body for name/avatar.
func extractUserInfo(body []byte) (tweet.UserInfo, bool) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return tweet.UserInfo{}, false
	}
	obj := unwrapUserObject(doc)
	for _, extract := range userObjectExtractors {
		if info, ok := extract(obj); ok {
			return info, true
		}
	}
	return tweet.UserInfo{}, false
}

// extractFirstUser probes a user-search response body and returns the top
// candidate's name/avatar. The list has appeared as "users", "data.users"
// and a bare "data" array across revisions.
func extractFirstUser(body []byte) (tweet.UserInfo, bool) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return tweet.UserInfo{}, false
	}

	first, ok := firstUserObject(doc)
	if !ok {
		return tweet.UserInfo{}, false
	}
	for _, extract := range userObjectExtractors {
		if info, ok := extract(first); ok {
			return info, true
		}
	}
	return tweet.UserInfo{}, false
}

func firstUserObject(doc map[string]any) (map[string]any, bool) {
	if list, ok := sliceAt(doc, "users"); ok {
		return firstMap(list)
	}
	if data, ok := mapAt(doc, "data"); ok {
		if list, ok := sliceAt(data, "users"); ok {
			return firstMap(list)
		}
	}
	if list, ok := doc["data"].([]any); ok {
		return firstMap(list)
	}
	return nil, false
}

func firstMap(list []any) (map[string]any, bool) {
	if len(list) == 0 {
		return nil, false
	}
	m, ok := list[0].(map[string]any)
	return m, ok
}

func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func mapAt(m map[string]any, key string) (map[string]any, bool) {
	inner, ok := m[key].(map[string]any)
	return inner, ok
}

func sliceAt(m map[string]any, key string) ([]any, bool) {
	list, ok := m[key].([]any)
	return list, ok
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
