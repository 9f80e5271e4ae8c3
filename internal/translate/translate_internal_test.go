package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"
)

func newTestClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 2 * time.Second},
		log:        slog.Default(),
	}
}

func TestTranslateBatchPreservesOrderWithPerItemFallback(t *testing.T) {
	t.Parallel()

	translations := map[string]string{
		"Title":   "T",
		"Point A": "A",
		"Point B": "B",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")

		translated, ok := translations[q]
		if !ok {
			// "Subtitle" has no mapping and must fail alone.
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `[[["%s","%s",null,null,3]],null,"en"]`, translated, q)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(server.URL)

	got, err := client.TranslateBatch(
		context.Background(),
		[]string{"Title", "Subtitle", "Point A", "Point B"},
		"es",
	)
	if err != nil {
		t.Fatalf("TranslateBatch() error = %v", err)
	}

	want := []string{"T", "Subtitle", "A", "B"}
	if !slices.Equal(got, want) {
		t.Fatalf("TranslateBatch() = %q, want %q", got, want)
	}
}

func TestTranslateBatchConcatenatesSegments(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[[["Hola ","Hello ",null,null,3],["mundo.","world.",null,null,3]],null,"en"]`)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(server.URL)

	got, err := client.TranslateBatch(context.Background(), []string{"Hello world."}, "es")
	if err != nil {
		t.Fatalf("TranslateBatch() error = %v", err)
	}

	if got[0] != "Hola mundo." {
		t.Fatalf("TranslateBatch() = %q, want %q", got[0], "Hola mundo.")
	}
}

func TestTranslateBatchMalformedResponseFallsBack(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"unexpected":"shape"}`)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(server.URL)

	got, err := client.TranslateBatch(context.Background(), []string{"Original text."}, "fr")
	if err != nil {
		t.Fatalf("TranslateBatch() error = %v", err)
	}

	if got[0] != "Original text." {
		t.Fatalf("TranslateBatch() = %q, want original text preserved", got[0])
	}
}

func TestTranslateBatchCancelledContextIsBatchError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient("http://127.0.0.1:1")

	_, err := client.TranslateBatch(ctx, []string{"x"}, "es")

	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("TranslateBatch() error = %v, want BatchError", err)
	}
}

func TestLanguageCodeLookup(t *testing.T) {
	t.Parallel()

	if code := LanguageCode(" Spanish "); code != "es" {
		t.Fatalf("LanguageCode(Spanish) = %q, want es", code)
	}
	if code := LanguageCode("chinese"); code != "zh-CN" {
		t.Fatalf("LanguageCode(chinese) = %q, want zh-CN", code)
	}
	if code := LanguageCode("klingon"); code != FallbackLanguageCode {
		t.Fatalf("LanguageCode(klingon) = %q, want fallback %q", code, FallbackLanguageCode)
	}
}
