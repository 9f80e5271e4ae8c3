package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"pagebrief/internal/domain"
)

func TestFetchFeedsReturnsWhenEveryFeedFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	// More feeds than the semaphore width, so every worker past the first
	// wave must be able to park its error without a drainer running.
	feedCount := runtime.NumCPU()*fetchFeedsMaxConcurrencyGrowthFactor + 50

	feeds := make([]domain.UserFeed, feedCount)
	for i := range feeds {
		feeds[i] = domain.UserFeed{
			ID:     int64(i + 1),
			UserID: 1,
			URL:    fmt.Sprintf("%s/feed-%d", server.URL, i),
			Title:  "Feed",
		}
	}

	fetcher := NewFetcher(nil, slog.Default())

	type result struct {
		posts map[int64][]domain.Post
		err   error
	}

	done := make(chan result, 1)
	go func() {
		posts, err := fetcher.fetchFeeds(context.Background(), feeds)
		done <- result{posts: posts, err: err}
	}()

	select {
	case res := <-done:
		if len(res.posts) != 0 {
			t.Fatalf("expected no posts, got %d users", len(res.posts))
		}
		if res.err == nil {
			t.Fatalf("expected joined parse errors, got nil")
		}
	case <-time.After(30 * time.Second):
		t.Fatalf("fetchFeeds did not return with %d failing feeds", feedCount)
	}
}
