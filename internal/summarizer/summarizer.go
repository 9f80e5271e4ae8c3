package summarizer

import (
	"context"
)

// Request describes the payload for a summary request.
type Request struct {
	// Title is the article headline, included in the prompt for context.
	Title string
	// Text contains the article body to summarize.
	Text string
}

// Summarizer produces an ordered list of bullet points for a given article.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) ([]string, error)
}
