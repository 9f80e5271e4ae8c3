package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"runtime"
	"strings"
	"sync"

	"github.com/mmcdole/gofeed"
	"mvdan.cc/xurls/v2"

	"pagebrief/internal/database"
	"pagebrief/internal/domain"
)

const fetchFeedsMaxConcurrencyGrowthFactor = 10

// Fetcher validates feed subscriptions and collects fresh posts for digests.
type Fetcher struct {
	db        *database.Database
	parser    *Parser
	libParser *gofeed.Parser
	log       *slog.Logger
}

func NewFetcher(db *database.Database, log *slog.Logger) *Fetcher {
	libParser := gofeed.NewParser()

	return &Fetcher{
		db:        db,
		parser:    NewParser(db, libParser, log),
		libParser: libParser,
		log:       log,
	}
}

// FindValidFeeds extracts https URLs from free-form text and keeps the ones
// that parse as syndication feeds.
func (f *Fetcher) FindValidFeeds(
	ctx context.Context,
	text string,
) ([]domain.Feed, error) {
	httpsURLRe, err := xurls.StrictMatchingScheme("https://")
	if err != nil {
		return nil, fmt.Errorf("create regexp: %w", err)
	}

	urls := httpsURLRe.FindAllString(strings.TrimSpace(text), -1)

	feeds := make([]domain.Feed, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	var errs []error

	for _, u := range urls {
		feed, validateFeedErr := f.validateFeed(ctx, strings.TrimSpace(u))
		if validateFeedErr != nil {
			errs = append(errs, fmt.Errorf("validate feed: %w", validateFeedErr))
			continue
		}

		if _, ok := seen[feed.URL]; ok {
			continue
		}

		feeds = append(feeds, *feed)
		seen[feed.URL] = struct{}{}
	}

	return feeds, errors.Join(errs...)
}

func (f *Fetcher) FetchHourFeeds(
	ctx context.Context,
	hourUTC int64,
) (map[int64][]domain.Post, error) {
	feeds, err := f.db.GetHourFeeds(ctx, hourUTC)
	if err != nil {
		return nil, fmt.Errorf("get hour feeds: %w", err)
	}

	return f.fetchFeeds(ctx, feeds)
}

func (f *Fetcher) FetchUserFeeds(
	ctx context.Context,
	userID int64,
) (map[int64][]domain.Post, error) {
	feeds, err := f.db.GetUserFeeds(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user feeds: %w", err)
	}

	return f.fetchFeeds(ctx, feeds)
}

func (f *Fetcher) validateFeed(
	ctx context.Context,
	feedURL string,
) (*domain.Feed, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, errors.New("feed URL is empty")
	}

	if _, err := url.Parse(feedURL); err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	parsed, err := f.libParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed (URL = %s): %w", feedURL, err)
	}

	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		f.log.WarnContext(ctx, "Empty feed title",
			"feedURL", feedURL,
			"fallbackTitle", feedURL)

		title = feedURL
	}

	return &domain.Feed{URL: feedURL, Title: title}, nil
}

func (f *Fetcher) fetchFeeds(
	ctx context.Context,
	feeds []domain.UserFeed,
) (map[int64][]domain.Post, error) {
	var writeWg sync.WaitGroup

	concurrency := min(runtime.NumCPU()*fetchFeedsMaxConcurrencyGrowthFactor, len(feeds))
	semCh := make(chan struct{}, concurrency)

	userPostCh := make(chan domain.UserPosts, concurrency)

	// errCh is drained only after userPostCh closes, so it must hold one
	// error per feed or failing workers block and writeWg never finishes.
	errCh := make(chan error, len(feeds))

	for _, feed := range feeds {
		writeWg.Add(1)
		semCh <- struct{}{}

		go func(copiedFeed domain.UserFeed) {
			defer writeWg.Done()

			posts, err := f.parser.ParseFeed(ctx, &copiedFeed)
			if err != nil {
				errCh <- fmt.Errorf("parse feed: %w", err)
			}

			if len(posts) != 0 {
				userPostCh <- domain.UserPosts{UserID: copiedFeed.UserID, Posts: posts}
			}

			<-semCh
		}(feed)
	}

	go func() {
		writeWg.Wait()
		close(semCh)
		close(userPostCh)
		close(errCh)
	}()

	userPostsMap := make(map[int64][]domain.Post)
	for userPosts := range userPostCh {
		userPostsMap[userPosts.UserID] = append(userPostsMap[userPosts.UserID], userPosts.Posts...)
	}

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}

	return userPostsMap, errors.Join(errs...)
}
