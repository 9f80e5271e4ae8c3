package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultEndpoint        = "https://translate.googleapis.com/translate_a/single"
	translateClientTimeout = 15 * time.Second
)

// BatchError is a failure of the batch dispatch itself. Per-item fallbacks
// make it effectively unreachable in normal operation.
type BatchError struct {
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("translation batch: %v", e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Client translates ordered batches of independent text fragments through
// the public Google Translate endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(log *slog.Logger) *Client {
	return &Client{
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: translateClientTimeout},
		log:        log,
	}
}

// TranslateBatch translates every item to the target language code. All
// items are dispatched concurrently; the output preserves input order and
// length. An item that fails for any reason falls back to its original
// text instead of failing the batch.
func (c *Client) TranslateBatch(
	ctx context.Context,
	items []string,
	code string,
) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &BatchError{Err: err}
	}

	results := make([]string, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Go(func() {
			translated, err := c.translateOne(ctx, item, code)
			if err != nil {
				c.log.WarnContext(ctx, "Translation failed, keeping original",
					"error", err,
					"index", i,
					"targetCode", code)

				results[i] = item

				return
			}

			results[i] = translated
		})
	}
	wg.Wait()

	return results, nil
}

func (c *Client) translateOne(
	ctx context.Context,
	text string,
	code string,
) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", code)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.endpoint+"?"+params.Encode(),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	translated, err := parseResponse(body)
	if err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	return translated, nil
}

// parseResponse reconstructs the translated text from the endpoint's nested
// array payload: the first element holds [translatedSegment, ...] tuples and
// the full text is the in-order concatenation of each tuple's first element.
func parseResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "", errors.New("empty payload")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", errors.New("malformed segment list")
	}

	var b strings.Builder
	for _, seg := range segments {
		tuple, ok := seg.([]any)
		if !ok || len(tuple) == 0 {
			continue
		}

		text, ok := tuple[0].(string)
		if !ok {
			continue
		}

		b.WriteString(text)
	}

	if b.Len() == 0 {
		return "", errors.New("no translated segments")
	}

	return b.String(), nil
}
