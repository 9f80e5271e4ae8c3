package feed

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func TestParseFeedItemFiltersOldPosts(t *testing.T) {
	parser := NewParser(nil, gofeed.NewParser(), slog.Default())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24*time.Hour - parseFeedGracePeriod)

	old := now.Add(-30 * time.Hour)
	item := &gofeed.Item{
		Title:           "Old post",
		Link:            "https://example.com/old",
		PublishedParsed: &old,
	}

	if _, ok := parser.parseFeedItem(
		context.Background(), now, cutoff, "Feed", "https://example.com/feed", "Feed", 1, item,
	); ok {
		t.Fatalf("expected post older than the window to be filtered")
	}
}

func TestParseFeedItemKeepsFreshPosts(t *testing.T) {
	parser := NewParser(nil, gofeed.NewParser(), slog.Default())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24*time.Hour - parseFeedGracePeriod)

	fresh := now.Add(-2 * time.Hour)
	item := &gofeed.Item{
		Title:           "Fresh post",
		Link:            "https://example.com/fresh",
		PublishedParsed: &fresh,
	}

	post, ok := parser.parseFeedItem(
		context.Background(), now, cutoff, "Feed", "https://example.com/feed", "Feed", 1, item,
	)
	if !ok {
		t.Fatalf("expected fresh post to be kept")
	}

	if post.URL != "https://example.com/fresh" {
		t.Fatalf("post URL = %q", post.URL)
	}
	if post.FeedTitle != "Feed" {
		t.Fatalf("feed title = %q", post.FeedTitle)
	}
}

func TestParseFeedItemSkipsEmptyURL(t *testing.T) {
	parser := NewParser(nil, gofeed.NewParser(), slog.Default())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24*time.Hour - parseFeedGracePeriod)

	item := &gofeed.Item{Title: "No link"}

	if _, ok := parser.parseFeedItem(
		context.Background(), now, cutoff, "Feed", "https://example.com/feed", "Feed", 1, item,
	); ok {
		t.Fatalf("expected post with empty URL to be skipped")
	}
}

func TestParseFeedItemFallsBackToFeedURLTitle(t *testing.T) {
	parser := NewParser(nil, gofeed.NewParser(), slog.Default())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24*time.Hour - parseFeedGracePeriod)

	fresh := now.Add(-time.Hour)
	item := &gofeed.Item{
		Title:           "Post",
		Link:            "https://example.com/post",
		PublishedParsed: &fresh,
	}

	post, ok := parser.parseFeedItem(
		context.Background(), now, cutoff, "", "https://example.com/feed", "", 1, item,
	)
	if !ok {
		t.Fatalf("expected post to be kept")
	}

	if post.FeedTitle != "https://example.com/feed" {
		t.Fatalf("feed title = %q, want feed URL fallback", post.FeedTitle)
	}
}
