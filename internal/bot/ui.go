package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram clears the typing indicator after about five seconds, while a
// summarize round trip (fetch, extract, provider call) routinely takes
// longer. Refreshing under that window keeps the indicator on for the
// whole operation.
const typingRefreshInterval = 3 * time.Second

func (b *Bot) sendTyping(ctx context.Context, chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.rateLimiter.Request(action); err != nil {
		b.log.ErrorContext(ctx, "Failed to send chat action",
			"error", err,
			"chatID", chatID)
	}
}

// withTyping keeps the chat's typing indicator alive while fn runs.
func (b *Bot) withTyping(ctx context.Context, chatID int64, fn func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		t := time.NewTicker(typingRefreshInterval)
		defer t.Stop()

		for {
			b.sendTyping(ctx, chatID)

			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()

	return fn()
}
