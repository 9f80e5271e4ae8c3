package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls OpenAI's chat-completion API to produce summaries.
// It is the primary backend of the fallback chain.
type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(apiKey string, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *OpenAIClient) Summarize(
	ctx context.Context,
	req Request,
) ([]string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("article text is empty")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(req)),
		},
		Temperature: openai.Float(temperature),
		TopP:        openai.Float(topP),
		MaxTokens:   openai.Int(maxOutputTokens),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &ProviderHTTPError{
				Provider: "openai",
				Status:   apiErr.StatusCode,
				Body:     apiErr.Message,
			}
		}

		return nil, fmt.Errorf("do request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	return sanitizePoints(content), nil
}
