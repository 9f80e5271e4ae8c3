package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func articlePage(title string, body string) string {
	return fmt.Sprintf(`<!doctype html>
<html>
<head>
<title>%s</title>
<meta property="og:title" content="%s">
</head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article>
<h1>%s</h1>
%s
</article>
<footer>Copyright</footer>
</body>
</html>`, title, title, title, body)
}

func longParagraphs(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b,
			"<p>Paragraph %d carries a substantial amount of running text so the page clears the long-form length gate used by the extractor without any padding tricks.</p>\n",
			i,
		)
	}
	return b.String()
}

func serve(t *testing.T, html string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, html)
	}))
	t.Cleanup(server.Close)

	return server
}

func TestExtractFindsArticleElement(t *testing.T) {
	t.Parallel()

	server := serve(t, articlePage("The Headline", longParagraphs(8)))

	extractor := NewExtractor(slog.Default())

	art, err := extractor.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if art.Title != "The Headline" {
		t.Fatalf("title = %q, want og:title value", art.Title)
	}
	if !strings.Contains(art.Text, "Paragraph 3") {
		t.Fatalf("article text is missing body paragraphs: %q", art.Text[:120])
	}
	if strings.Contains(art.Text, "About") {
		t.Fatalf("navigation boilerplate leaked into article text")
	}
}

func TestExtractParagraphFallback(t *testing.T) {
	t.Parallel()

	html := "<html><head><title>Plain</title></head><body>" +
		"<div>" + longParagraphs(8) + "</div>" +
		"</body></html>"
	server := serve(t, html)

	extractor := NewExtractor(slog.Default())

	art, err := extractor.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(art.Text) < minArticleChars {
		t.Fatalf("extracted text too short: %d chars", len(art.Text))
	}
}

func TestExtractRejectsShortPages(t *testing.T) {
	t.Parallel()

	server := serve(t, articlePage("Stub", "<p>Too short.</p>"))

	extractor := NewExtractor(slog.Default())

	_, err := extractor.Extract(context.Background(), server.URL)
	if !errors.Is(err, ErrNoArticle) {
		t.Fatalf("Extract() error = %v, want ErrNoArticle", err)
	}
}

func TestExtractRejectsNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	extractor := NewExtractor(slog.Default())

	if _, err := extractor.Extract(context.Background(), server.URL); err == nil {
		t.Fatalf("Extract() error = nil, want status error")
	}
}
