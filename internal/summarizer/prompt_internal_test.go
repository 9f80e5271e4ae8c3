package summarizer

import (
	"strings"
	"testing"
)

func TestTruncateArticleKeepsShortText(t *testing.T) {
	text := "A short article body."
	if got := truncateArticle(text); got != text {
		t.Fatalf("truncateArticle() = %q, want unchanged input", got)
	}
}

func TestTruncateArticleAppendsEllipsisMarker(t *testing.T) {
	text := strings.Repeat("a", maxArticleChars+100)

	got := truncateArticle(text)

	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis marker, got tail %q", got[len(got)-10:])
	}
	if len([]rune(got)) != maxArticleChars+3 {
		t.Fatalf("truncated length = %d runes, want %d", len([]rune(got)), maxArticleChars+3)
	}
}

func TestBuildPromptContainsTitleAndBody(t *testing.T) {
	prompt := buildPrompt(Request{Title: "The Headline", Text: "The body."})

	if !strings.Contains(prompt, "The Headline") {
		t.Fatalf("prompt is missing the title: %q", prompt)
	}
	if !strings.Contains(prompt, "The body.") {
		t.Fatalf("prompt is missing the article body: %q", prompt)
	}
	if !strings.Contains(prompt, "5-6 dense bullet points") {
		t.Fatalf("prompt is missing the instruction header: %q", prompt)
	}
}
