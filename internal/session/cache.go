package session

import (
	"net/url"
	"slices"
	"strings"
	"sync"
)

// cacheEntry is the single retained summary. Points may be replaced in place
// by a translation pass; pageKey and title always stay in source form.
type cacheEntry struct {
	pageKey string
	title   string
	points  []string
}

// summaryCache holds at most one summarized page. A get for any other page
// key is a miss; a put replaces the slot unconditionally.
type summaryCache struct {
	mu    sync.Mutex
	entry *cacheEntry
}

func newSummaryCache() *summaryCache {
	return &summaryCache{}
}

func (c *summaryCache) get(pageKey string) (cacheEntry, bool) {
	if c == nil || pageKey == "" {
		return cacheEntry{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil || c.entry.pageKey != pageKey {
		return cacheEntry{}, false
	}

	return c.snapshotLocked(), true
}

func (c *summaryCache) current() (cacheEntry, bool) {
	if c == nil {
		return cacheEntry{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil {
		return cacheEntry{}, false
	}

	return c.snapshotLocked(), true
}

func (c *summaryCache) put(pageKey string, title string, points []string) {
	if c == nil || pageKey == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = &cacheEntry{
		pageKey: pageKey,
		title:   title,
		points:  slices.Clone(points),
	}
}

// replacePoints overwrites the stored points when pageKey still matches the
// slot. The title keeps its source-language value.
func (c *summaryCache) replacePoints(pageKey string, points []string) bool {
	if c == nil || pageKey == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil || c.entry.pageKey != pageKey {
		return false
	}

	c.entry.points = slices.Clone(points)

	return true
}

func (c *summaryCache) snapshotLocked() cacheEntry {
	return cacheEntry{
		pageKey: c.entry.pageKey,
		title:   c.entry.title,
		points:  slices.Clone(c.entry.points),
	}
}

// PageKey canonicalizes a page URL into the cache key: query and fragment
// are stripped so tracking parameters do not split cache identity.
func PageKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}

	u.RawQuery = ""
	u.Fragment = ""

	return u.String()
}
