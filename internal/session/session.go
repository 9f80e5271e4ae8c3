package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"pagebrief/internal/domain"
	"pagebrief/internal/summarizer"
	"pagebrief/internal/translate"
)

// ErrNoSummary means a translation was requested before any page was
// summarized in this session.
var ErrNoSummary = errors.New("no summary in this session yet")

// ArticleSource supplies extracted article content for a page URL.
type ArticleSource interface {
	Extract(ctx context.Context, pageURL string) (*domain.Article, error)
}

// Translator translates an ordered batch of strings, preserving order and
// length and falling back to the original text per item.
type Translator interface {
	TranslateBatch(ctx context.Context, items []string, code string) ([]string, error)
}

// Session is the per-chat viewing session: it owns the single-slot summary
// cache and funnels all summarize/translate work through it. Construction
// happens on first use; Manager.Reset is the teardown point.
type Session struct {
	extractor  ArticleSource
	summarizer summarizer.Summarizer
	translator Translator
	cache      *summaryCache
	group      singleflight.Group
	log        *slog.Logger
}

func newSession(
	extractor ArticleSource,
	s summarizer.Summarizer,
	translator Translator,
	log *slog.Logger,
) *Session {
	return &Session{
		extractor:  extractor,
		summarizer: s,
		translator: translator,
		cache:      newSummaryCache(),
		log:        log,
	}
}

// Summarize returns the bullet-point summary for pageURL, reusing the cached
// result when the session is still on the same page. Concurrent calls for
// the same page share one in-flight request.
func (s *Session) Summarize(
	ctx context.Context,
	pageURL string,
) (*domain.Summary, error) {
	pageKey := PageKey(pageURL)
	if pageKey == "" {
		return nil, errors.New("page URL is empty")
	}

	if entry, ok := s.cache.get(pageKey); ok {
		s.log.DebugContext(ctx, "Summary cache hit",
			"pageKey", pageKey)

		return entrySummary(entry), nil
	}

	v, err, shared := s.group.Do(pageKey, func() (any, error) {
		if entry, ok := s.cache.get(pageKey); ok {
			return entrySummary(entry), nil
		}

		art, err := s.extractor.Extract(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("extract article: %w", err)
		}

		points, err := s.summarizer.Summarize(ctx, summarizer.Request{
			Title: art.Title,
			Text:  art.Text,
		})
		if err != nil {
			return nil, err
		}

		s.cache.put(pageKey, art.Title, points)

		return &domain.Summary{
			PageKey: pageKey,
			Title:   art.Title,
			Points:  points,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.log.DebugContext(ctx, "Joined in-flight summarization",
			"pageKey", pageKey)
	}

	return v.(*domain.Summary), nil
}

// Translate renders the current summary in the target language. The
// translated points overwrite the cached source-language points for the rest
// of the session; the returned title is translated for display only, while
// the cached title keeps its source-language value.
func (s *Session) Translate(
	ctx context.Context,
	languageName string,
) (*domain.Summary, error) {
	entry, ok := s.cache.current()
	if !ok {
		return nil, ErrNoSummary
	}

	code := translate.LanguageCode(languageName)

	batch := make([]string, 0, len(entry.points)+1)
	batch = append(batch, entry.title)
	batch = append(batch, entry.points...)

	translated, err := s.translator.TranslateBatch(ctx, batch, code)
	if err != nil {
		return nil, fmt.Errorf("translate batch: %w", err)
	}

	points := translated[1:]
	if !s.cache.replacePoints(entry.pageKey, points) {
		s.log.WarnContext(ctx, "Session moved on during translation",
			"pageKey", entry.pageKey)
	}

	return &domain.Summary{
		PageKey: entry.pageKey,
		Title:   translated[0],
		Points:  points,
	}, nil
}

func entrySummary(entry cacheEntry) *domain.Summary {
	return &domain.Summary{
		PageKey: entry.pageKey,
		Title:   entry.title,
		Points:  entry.points,
	}
}
