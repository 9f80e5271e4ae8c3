package summarizer

import (
	"fmt"
	"strings"
)

const (
	// maxArticleChars is shared by all providers to keep behavior comparable.
	maxArticleChars = 25000

	temperature     = 0.8
	topP            = 0.95
	maxOutputTokens = 2500
)

const promptTemplate = `Summarize the article below as 5-6 dense bullet points.

Rules:
- Each point is 40-60 words and a complete sentence.
- Cover the thesis, the key examples, and concrete names, numbers, and implications.
- Follow the order of the article.
- Output plain sentences, one per line, without bullet symbols or numbering.

Title: %s

Article:
%s`

func buildPrompt(req Request) string {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "(untitled)"
	}

	return fmt.Sprintf(promptTemplate, title, truncateArticle(req.Text))
}

func truncateArticle(text string) string {
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= maxArticleChars {
		return text
	}

	return strings.TrimSpace(string(runes[:maxArticleChars])) + "..."
}
