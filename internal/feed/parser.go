package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"pagebrief/internal/database"
	"pagebrief/internal/domain"
)

// parseFeedGracePeriod widens the 24h digest window so posts published while
// a digest run was in flight are not lost between runs.
const parseFeedGracePeriod = 10 * time.Minute

type Parser struct {
	db        *database.Database
	libParser *gofeed.Parser
	log       *slog.Logger
}

func NewParser(
	db *database.Database,
	libParser *gofeed.Parser,
	log *slog.Logger,
) *Parser {
	return &Parser{
		db:        db,
		libParser: libParser,
		log:       log,
	}
}

func (fp *Parser) ParseFeed(
	ctx context.Context,
	feed *domain.UserFeed,
) ([]domain.Post, error) {
	normalizedFeedURL := strings.TrimSpace(feed.URL)
	normalizedFeedTitle := strings.TrimSpace(feed.Title)

	parsed, err := fp.libParser.ParseURLWithContext(normalizedFeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed by URL %q: %w", normalizedFeedURL, err)
	}

	parsedTitle := strings.TrimSpace(parsed.Title)

	var updateTitleErr error
	if parsedTitle != "" && parsedTitle != normalizedFeedTitle {
		if err = fp.db.UpdateFeedTitle(ctx, feed.ID, parsedTitle); err != nil {
			updateTitleErr = fmt.Errorf("update feed title: %w", err)
		} else {
			normalizedFeedTitle = parsedTitle
		}
	}

	var newPosts []domain.Post
	now := time.Now().Round(time.Hour)
	cutoffTime := now.Add(-24*time.Hour - parseFeedGracePeriod)

	for _, item := range parsed.Items {
		post, ok := fp.parseFeedItem(
			ctx,
			now,
			cutoffTime,
			normalizedFeedTitle,
			normalizedFeedURL,
			parsedTitle,
			feed.ID,
			item,
		)
		if !ok {
			continue
		}

		newPosts = append(newPosts, post)
	}

	return newPosts, updateTitleErr
}

func (fp *Parser) parseFeedItem(
	ctx context.Context,
	now time.Time,
	cutoffTime time.Time,
	normalizedFeedTitle string,
	normalizedFeedURL string,
	parsedTitle string,
	feedID int64,
	item *gofeed.Item,
) (domain.Post, bool) {
	publishedTime := now

	if item.PublishedParsed != nil {
		publishedTime = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		publishedTime = *item.UpdatedParsed
	}

	if !publishedTime.After(cutoffTime) {
		return domain.Post{}, false
	}

	postTitle := strings.TrimSpace(item.Title)
	postURL := strings.TrimSpace(item.Link)
	feedTitle := normalizedFeedTitle
	if feedTitle == "" {
		feedTitle = parsedTitle
	}
	if feedTitle == "" {
		feedTitle = normalizedFeedURL
	}

	if postURL == "" {
		fp.log.WarnContext(ctx, "Skipping feed item with empty URL",
			"feedURL", normalizedFeedURL,
			"feedTitle", feedTitle,
			"itemTitle", postTitle)

		return domain.Post{}, false
	}

	return domain.Post{
		Title:     postTitle,
		URL:       postURL,
		FeedID:    feedID,
		FeedTitle: feedTitle,
		FeedURL:   normalizedFeedURL,
	}, true
}
