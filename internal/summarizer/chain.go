package summarizer

import (
	"context"
	"log/slog"
)

// Chain tries its clients in priority order. Only the last attempted
// client's error reaches the caller.
type Chain struct {
	clients []Summarizer
	log     *slog.Logger
}

func NewChain(log *slog.Logger, clients ...Summarizer) *Chain {
	return &Chain{
		clients: clients,
		log:     log,
	}
}

// Configured reports whether at least one backend is available.
func (c *Chain) Configured() bool {
	return len(c.clients) > 0
}

func (c *Chain) Summarize(
	ctx context.Context,
	req Request,
) ([]string, error) {
	if len(c.clients) == 0 {
		return nil, ErrNoProvider
	}

	var lastErr error
	for i, client := range c.clients {
		points, err := client.Summarize(ctx, req)
		if err == nil {
			return points, nil
		}

		lastErr = err

		if i < len(c.clients)-1 {
			c.log.WarnContext(ctx, "Provider failed, falling back",
				"error", err,
				"attempt", i+1,
				"remaining", len(c.clients)-i-1)
		}
	}

	return nil, lastErr
}
