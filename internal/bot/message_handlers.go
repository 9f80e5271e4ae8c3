package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"mvdan.cc/xurls/v2"
)

const noURLText = `✖️ Send me a link to an article and I'll summarize it\.

Use /follow with a feed URL to subscribe to a feed instead\.`

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	return b.withTyping(ctx, message.Chat.ID, func() error {
		text := strings.TrimSpace(message.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			return b.handleStartCommand(ctx, text, message.Chat.ID, message.From.ID)
		case strings.HasPrefix(text, "/menu"):
			return b.handleMenuCommand(message.Chat.ID)
		case strings.HasPrefix(text, "/list"):
			return b.handleListCommand(ctx, message.Chat.ID, message.From.ID)
		case strings.HasPrefix(text, "/digest"):
			return b.handleDigestCommand(ctx, message.Chat.ID, message.From.ID)
		case strings.HasPrefix(text, "/follow"):
			return b.handleFollowCommand(ctx, strings.TrimPrefix(text, "/follow"), message.Chat.ID, message.From.ID)
		case strings.HasPrefix(text, "/settings"):
			return b.handleSettingsCommand(ctx, message.Chat.ID, message.From.ID)
		default:
			return b.handleRandomText(ctx, text, message.Chat.ID)
		}
	})
}

// handleRandomText treats any message carrying an https URL as a request to
// summarize that page.
func (b *Bot) handleRandomText(
	ctx context.Context,
	text string,
	chatID int64,
) error {
	httpsURLRe, err := xurls.StrictMatchingScheme("https://")
	if err != nil {
		return fmt.Errorf("create regexp: %w", err)
	}

	urls := httpsURLRe.FindAllString(text, -1)
	if len(urls) == 0 {
		return b.sendMessageWithKeyboard(chatID, noURLText, b.menuKeyboard)
	}

	if len(urls) > 1 {
		b.log.DebugContext(ctx, "Multiple URLs in message, summarizing the first",
			"chatID", chatID,
			"urlCount", len(urls))
	}

	return b.handleSummarizeURL(ctx, chatID, strings.TrimSpace(urls[0]))
}

func (b *Bot) handleFollowCommand(
	ctx context.Context,
	text string,
	chatID int64,
	userID int64,
) error {
	feeds, err := b.fetcher.FindValidFeeds(ctx, text)

	if len(feeds) == 0 {
		var errs []error
		if err != nil {
			errs = append(errs, fmt.Errorf("find valid feeds: %w", err))
		}

		sendErr := b.sendMessageWithKeyboard(
			chatID,
			"✖️ Valid feed URLs are not found or there is a bug\\.",
			b.returnKeyboard,
		)
		if sendErr != nil {
			errs = append(errs, fmt.Errorf("send message with keyboard: %w", sendErr))
		}

		return errors.Join(errs...)
	}

	var errs []error
	if err != nil {
		errs = append(errs, fmt.Errorf("find valid feeds: %w", err))
	}

	added := 0
	for _, feed := range feeds {
		if addErr := b.db.AddFeed(ctx, userID, feed.URL, feed.Title); addErr != nil {
			errs = append(errs, fmt.Errorf("add feed: %w", addErr))
			continue
		}

		added++
	}

	if added == 0 {
		sendErr := b.sendMessageWithKeyboard(chatID, "❌ Failed\\.", b.returnKeyboard)
		if sendErr != nil {
			errs = append(errs, fmt.Errorf("send message with keyboard: %w", sendErr))
		}

		return errors.Join(errs...)
	}

	sendErr := b.sendMessageWithKeyboard(
		chatID,
		fmt.Sprintf("✅ Followed %d feeds\\.", added),
		b.returnKeyboard,
	)
	if sendErr != nil {
		errs = append(errs, fmt.Errorf("send message with keyboard: %w", sendErr))
	}

	return errors.Join(errs...)
}
