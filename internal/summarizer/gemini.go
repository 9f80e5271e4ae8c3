package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiClientTimeout  = 60 * time.Second
	geminiTopK           = 40

	// maxErrBody keeps backend error bodies loggable.
	maxErrBody = 2048
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// GeminiClient calls Google's generateContent API to produce summaries.
// It is the secondary backend of the fallback chain.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewGeminiClient(apiKey string, model string, log *slog.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiDefaultBaseURL,
		httpClient: &http.Client{Timeout: geminiClientTimeout},
		log:        log,
	}
}

func (c *GeminiClient) Summarize(
	ctx context.Context,
	req Request,
) ([]string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("article text is empty")
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(req)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			TopK:            geminiTopK,
			TopP:            topP,
			MaxOutputTokens: maxOutputTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf(
		"%s/%s:generateContent?key=%s",
		c.baseURL,
		c.model,
		url.QueryEscape(c.apiKey),
	)

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderHTTPError{
			Provider: "gemini",
			Status:   resp.StatusCode,
			Body:     truncateErrBody(respBody),
		}
	}

	var parsed geminiResponse
	if err = json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(parsed.Candidates) == 0 ||
		len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	// The tail of the output may be cut off; the sanitization pass drops
	// the incomplete last sentence either way.
	if parsed.Candidates[0].FinishReason == "MAX_TOKENS" {
		c.log.WarnContext(ctx, "Gemini output hit the token cap",
			"model", c.model,
			"outputLen", len(text))
	}

	return sanitizePoints(text), nil
}

func truncateErrBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrBody {
		s = s[:maxErrBody]
	}
	return s
}
