package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"pagebrief/internal/domain"
	"pagebrief/internal/summarizer"
)

type stubSource struct {
	mu      sync.Mutex
	calls   int
	article *domain.Article
	err     error
}

func (s *stubSource) Extract(
	_ context.Context,
	pageURL string,
) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	art := *s.article
	art.URL = pageURL

	return &art, nil
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

type stubSummarizer struct {
	mu     sync.Mutex
	calls  int
	points []string
	err    error
	delay  time.Duration
}

func (s *stubSummarizer) Summarize(
	_ context.Context,
	_ summarizer.Request,
) ([]string, error) {
	s.mu.Lock()
	s.calls++
	delay := s.delay
	s.mu.Unlock()

	// Holding the call open lets concurrent callers overlap on it.
	time.Sleep(delay)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	return s.points, nil
}

func (s *stubSummarizer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

type stubTranslator struct {
	failOn map[string]bool
}

func (s *stubTranslator) TranslateBatch(
	_ context.Context,
	items []string,
	code string,
) ([]string, error) {
	out := make([]string, len(items))
	for i, item := range items {
		if s.failOn[item] {
			out[i] = item
			continue
		}
		out[i] = "[" + code + "] " + item
	}

	return out, nil
}

func newTestSession(
	source ArticleSource,
	s summarizer.Summarizer,
	translator Translator,
) *Session {
	return newSession(source, s, translator, slog.Default())
}

func TestSessionSummarizeCachesPerPage(t *testing.T) {
	source := &stubSource{article: &domain.Article{Title: "Title", Text: "Body"}}
	sum := &stubSummarizer{points: []string{"First point.", "Second point."}}

	sess := newTestSession(source, sum, &stubTranslator{})

	first, err := sess.Summarize(context.Background(), "https://example.com/a?ref=x")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	second, err := sess.Summarize(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if !slices.Equal(first.Points, second.Points) {
		t.Fatalf("cached points differ: %q vs %q", first.Points, second.Points)
	}
	if sum.callCount() != 1 {
		t.Fatalf("summarizer called %d times, want 1 (cache hit expected)", sum.callCount())
	}
	if source.callCount() != 1 {
		t.Fatalf("extractor called %d times, want 1", source.callCount())
	}
}

func TestSessionSummarizeSharesInFlightRequest(t *testing.T) {
	source := &stubSource{article: &domain.Article{Title: "Title", Text: "Body"}}
	sum := &stubSummarizer{points: []string{"First point.", "Second point."}, delay: 200 * time.Millisecond}

	sess := newTestSession(source, sum, &stubTranslator{})

	const callers = 5

	results := make([]*domain.Summary, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Go(func() {
			results[i], errs[i] = sess.Summarize(context.Background(), "https://example.com/a")
		})
	}
	wg.Wait()

	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("Summarize() error = %v (caller %d)", errs[i], i)
		}
		if !slices.Equal(results[i].Points, results[0].Points) {
			t.Fatalf("caller %d got %q, want shared result %q", i, results[i].Points, results[0].Points)
		}
	}

	if sum.callCount() != 1 {
		t.Fatalf("summarizer called %d times, want 1 (concurrent callers share one request)", sum.callCount())
	}
	if source.callCount() != 1 {
		t.Fatalf("extractor called %d times, want 1", source.callCount())
	}
}

func TestSessionSummarizeNewPageEvictsOldEntry(t *testing.T) {
	source := &stubSource{article: &domain.Article{Title: "Title", Text: "Body"}}
	sum := &stubSummarizer{points: []string{"Point."}}

	sess := newTestSession(source, sum, &stubTranslator{})

	if _, err := sess.Summarize(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if _, err := sess.Summarize(context.Background(), "https://example.com/b"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if _, err := sess.Summarize(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if sum.callCount() != 3 {
		t.Fatalf("summarizer called %d times, want 3 (single-slot cache)", sum.callCount())
	}
}

func TestSessionSummarizePropagatesProviderError(t *testing.T) {
	source := &stubSource{article: &domain.Article{Title: "Title", Text: "Body"}}
	provErr := &summarizer.ProviderHTTPError{Provider: "gemini", Status: 403, Body: "forbidden"}

	sess := newTestSession(source, &stubSummarizer{err: provErr}, &stubTranslator{})

	_, err := sess.Summarize(context.Background(), "https://example.com/a")

	var httpErr *summarizer.ProviderHTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Summarize() error = %v, want provider error surfaced verbatim", err)
	}
}

func TestSessionTranslateOverwritesCachedPoints(t *testing.T) {
	source := &stubSource{article: &domain.Article{Title: "Title", Text: "Body"}}
	sum := &stubSummarizer{points: []string{"First point.", "Second point."}}

	sess := newTestSession(source, sum, &stubTranslator{})

	if _, err := sess.Summarize(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	translated, err := sess.Translate(context.Background(), "spanish")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	if translated.Title != "[es] Title" {
		t.Fatalf("translated title = %q", translated.Title)
	}
	if translated.Points[0] != "[es] First point." {
		t.Fatalf("translated point = %q", translated.Points[0])
	}

	// The cache slot now holds translated points but the original title.
	cached, err := sess.Summarize(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if cached.Title != "Title" {
		t.Fatalf("cached title = %q, want source-language title", cached.Title)
	}
	if !strings.HasPrefix(cached.Points[0], "[es] ") {
		t.Fatalf("cached points = %q, want translated points to persist", cached.Points)
	}
	if sum.callCount() != 1 {
		t.Fatalf("summarizer called %d times, want 1", sum.callCount())
	}
}

func TestSessionTranslateWithoutSummary(t *testing.T) {
	sess := newTestSession(&stubSource{}, &stubSummarizer{}, &stubTranslator{})

	_, err := sess.Translate(context.Background(), "spanish")
	if !errors.Is(err, ErrNoSummary) {
		t.Fatalf("Translate() error = %v, want ErrNoSummary", err)
	}
}

func TestManagerSessionsAreIsolatedPerChat(t *testing.T) {
	source := &stubSource{article: &domain.Article{Title: "Title", Text: "Body"}}
	sum := &stubSummarizer{points: []string{"Point."}}

	manager := NewManager(source, sum, &stubTranslator{}, slog.Default())

	if manager.Session(1) != manager.Session(1) {
		t.Fatalf("expected the same session for the same chat")
	}
	if manager.Session(1) == manager.Session(2) {
		t.Fatalf("expected distinct sessions for distinct chats")
	}

	if _, err := manager.Session(1).Summarize(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	manager.Reset(1)

	if _, err := manager.Session(1).Summarize(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if sum.callCount() != 2 {
		t.Fatalf("summarizer called %d times, want 2 (reset drops the cache)", sum.callCount())
	}
}
