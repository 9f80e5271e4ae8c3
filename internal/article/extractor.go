package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"pagebrief/internal/domain"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	fetchTimeout = 20 * time.Second

	// minArticleChars separates long-form articles from navigation pages,
	// search results, and stubs.
	minArticleChars = 600
)

// ErrNoArticle means the page holds no sufficiently long readable content.
var ErrNoArticle = errors.New("no readable article found")

var boilerplateSelector = strings.Join([]string{
	"script", "style", "noscript", "nav", "header", "footer",
	"aside", "form", "iframe", "button",
}, ",")

// contentSelectors are tried in priority order: semantic landmarks first,
// then class/id conventions common across publishing platforms.
var contentSelectors = []string{
	"article",
	"main",
	`[role="main"]`,
	"#content",
	".post-content",
	".article-body",
	".entry-content",
	".story-body",
	".post-body",
}

var multiBlankRe = regexp.MustCompile(`\n{3,}`)

// Extractor fetches a page and pulls out its readable article content.
type Extractor struct {
	httpClient *http.Client
	log        *slog.Logger
}

func NewExtractor(log *slog.Logger) *Extractor {
	return &Extractor{
		httpClient: &http.Client{Timeout: fetchTimeout},
		log:        log,
	}
}

func (e *Extractor) Extract(
	ctx context.Context,
	pageURL string,
) (*domain.Article, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, errors.New("page URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d (URL = %s)", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	return e.fromDocument(ctx, doc, pageURL)
}

func (e *Extractor) fromDocument(
	ctx context.Context,
	doc *goquery.Document,
	pageURL string,
) (*domain.Article, error) {
	title := pageTitle(doc)

	doc.Find(boilerplateSelector).Remove()

	node := findContentNode(doc)
	if node == nil {
		return nil, ErrNoArticle
	}

	text := e.nodeText(ctx, node, pageURL)
	if len(text) < minArticleChars {
		return nil, ErrNoArticle
	}

	return &domain.Article{
		URL:   pageURL,
		Title: title,
		Text:  text,
	}, nil
}

// findContentNode returns the best candidate for the article body, or nil.
func findContentNode(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		var best *goquery.Selection
		bestLen := 0

		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if l := len(normalizeText(s.Text())); l > bestLen {
				best = s
				bestLen = l
			}
		})

		if best != nil && bestLen >= minArticleChars {
			return best
		}
	}

	// Paragraph fallback for pages without any recognizable container.
	paragraphs := doc.Find("body p")
	if len(normalizeText(paragraphs.Text())) >= minArticleChars {
		return paragraphs
	}

	return nil
}

// nodeText renders the candidate node as markdown-flavored plain text, which
// keeps headings and list structure visible to the model. Raw text extraction
// is the fallback when conversion fails.
func (e *Extractor) nodeText(
	ctx context.Context,
	node *goquery.Selection,
	pageURL string,
) string {
	var htmlParts []string
	node.Each(func(_ int, s *goquery.Selection) {
		if h, err := goquery.OuterHtml(s); err == nil {
			htmlParts = append(htmlParts, h)
		}
	})

	md, err := htmltomarkdown.ConvertString(strings.Join(htmlParts, "\n"))
	if err != nil {
		e.log.WarnContext(ctx, "Markdown conversion failed, using raw text",
			"error", err,
			"pageURL", pageURL)

		return normalizeText(node.Text())
	}

	return normalizeText(md)
}

func pageTitle(doc *goquery.Document) string {
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}

	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}

	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}

	s = strings.Join(lines, "\n")
	s = multiBlankRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
