package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pagebrief/internal/article"
	"pagebrief/internal/domain"
	"pagebrief/internal/markdown"
	"pagebrief/internal/summarizer"
)

const telegramMessageMaxLength = 4096

const noProviderText = `✖️ No AI provider is configured\.

Set OPENAI\_API\_KEY or GEMINI\_API\_KEY and restart the bot to enable summaries\.`

const noArticleText = `✖️ Couldn't find a readable article on that page\.

Pagebrief works best on long\-form article pages\.`

const emptySummaryText = `✖️ The model returned nothing usable for this page\. Try again\.`

// handleSummarizeURL runs the whole pipeline for one page and renders the
// summary panel.
func (b *Bot) handleSummarizeURL(
	ctx context.Context,
	chatID int64,
	pageURL string,
) error {
	sess := b.sessions.Session(chatID)

	summary, err := sess.Summarize(ctx, pageURL)
	if err != nil {
		return b.sendSummaryError(chatID, err)
	}

	if len(summary.Points) == 0 {
		return b.sendMessageWithKeyboard(chatID, emptySummaryText, b.returnKeyboard)
	}

	return b.sendMessageWithKeyboard(
		chatID,
		b.formatSummaryMessage(ctx, summary),
		b.summaryKeyboard,
	)
}

// sendSummaryError shows a human-readable failure in the chat instead of
// crashing the update loop. The final provider error is displayed verbatim.
func (b *Bot) sendSummaryError(chatID int64, err error) error {
	var text string

	switch {
	case errors.Is(err, summarizer.ErrNoProvider):
		text = noProviderText
	case errors.Is(err, article.ErrNoArticle):
		text = noArticleText
	default:
		text = fmt.Sprintf("❌ Summarization failed: %s", markdown.EscapeV2(err.Error()))
	}

	if sendErr := b.sendMessageWithKeyboard(chatID, text, b.returnKeyboard); sendErr != nil {
		return errors.Join(err, fmt.Errorf("send message with keyboard: %w", sendErr))
	}

	return err
}

func (b *Bot) formatSummaryMessage(ctx context.Context, summary *domain.Summary) string {
	var message strings.Builder

	title := strings.TrimSpace(summary.Title)
	if title == "" {
		title = summary.PageKey
	}

	message.WriteString(fmt.Sprintf("📝 *[%s](%s)*\n\n", markdown.EscapeV2(title), summary.PageKey))

	for i, point := range summary.Points {
		bulletPoint := fmt.Sprintf("– %s\n\n", markdown.EscapeV2(point))

		if message.Len()+len(bulletPoint) > telegramMessageMaxLength {
			b.log.WarnContext(ctx, "Summary overflows one message, dropping tail points",
				"pageKey", summary.PageKey,
				"droppedPoints", len(summary.Points)-i)

			break
		}

		message.WriteString(bulletPoint)
	}

	return strings.TrimRight(message.String(), "\n")
}
