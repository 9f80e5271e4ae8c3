package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pagebrief/internal/session"
	"pagebrief/internal/translate"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	return b.withTyping(ctx, callback.Message.Chat.ID, func() error {
		data := strings.TrimSpace(callback.Data)

		switch data {
		case "menu":
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleMenuCommand(callback.Message.Chat.ID)
			})
		case "menu_list":
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleListCommand(ctx, callback.Message.Chat.ID, callback.From.ID)
			})
		case "menu_digest":
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleDigestCommand(ctx, callback.Message.Chat.ID, callback.From.ID)
			})
		case "menu_settings":
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleSettingsCommand(ctx, callback.Message.Chat.ID, callback.From.ID)
			})
		case translateCallbackData:
			return b.handleTranslateQuery(ctx, callback)
		}

		if hourUTCStr, ok := strings.CutPrefix(data, settingsHourCallbackPrefix); ok {
			return b.handleSettingsAutoDigestHourUTCQuery(ctx, hourUTCStr, callback)
		}

		if language, ok := strings.CutPrefix(data, settingsLanguageCallbackPrefix); ok {
			return b.handleSettingsLanguageQuery(ctx, language, callback)
		}

		return nil
	})
}

// handleTranslateQuery rewrites the summary panel the callback came from in
// the user's configured language.
func (b *Bot) handleTranslateQuery(
	ctx context.Context,
	callback *tgbotapi.CallbackQuery,
) error {
	chatID := callback.Message.Chat.ID

	settings, err := b.db.GetUserSettingsWithDefault(ctx, callback.From.ID)
	if err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("get user settings with default: %w", err))
	}

	summary, err := b.sessions.Session(chatID).Translate(ctx, settings.Language)
	if err != nil {
		if errors.Is(err, session.ErrNoSummary) {
			return b.errorCallbackAnswer(callback, err)
		}

		return b.errorCallbackAnswer(callback, fmt.Errorf("translate summary: %w", err))
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID,
		callback.Message.MessageID,
		b.formatSummaryMessage(ctx, summary),
		tgbotapi.NewInlineKeyboardMarkup(b.summaryKeyboard...),
	)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.DisableWebPagePreview = true

	if _, err = b.rateLimiter.Send(edit); err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("edit summary message: %w", err))
	}

	if _, err = b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "✅ Translated.")); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	return nil
}

func (b *Bot) handleSettingsAutoDigestHourUTCQuery(
	ctx context.Context,
	hourUTCStr string,
	callback *tgbotapi.CallbackQuery,
) error {
	hourUTCStr = strings.TrimSpace(hourUTCStr)

	hourUTC, err := strconv.ParseInt(hourUTCStr, 10, 64)
	if err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("parse hourUTC: %w", err))
	}

	if err = b.db.SetUserAutoDigestHourUTC(ctx, callback.From.ID, hourUTC); err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("set user auto digest hour: %w", err))
	}

	if _, err = b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "✅ Settings are updated.")); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	return b.handleSettingsCommand(ctx, callback.Message.Chat.ID, callback.From.ID)
}

func (b *Bot) handleSettingsLanguageQuery(
	ctx context.Context,
	language string,
	callback *tgbotapi.CallbackQuery,
) error {
	language = strings.TrimSpace(language)

	if !translate.IsSupportedLanguage(language) {
		return b.errorCallbackAnswer(callback, fmt.Errorf("unknown language %q", language))
	}

	if err := b.db.SetUserLanguage(ctx, callback.From.ID, language); err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("set user language: %w", err))
	}

	if _, err := b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "✅ Settings are updated.")); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	return b.handleSettingsCommand(ctx, callback.Message.Chat.ID, callback.From.ID)
}

func (b *Bot) withEmptyCallbackAnswer(
	callback *tgbotapi.CallbackQuery,
	fn func() error,
) error {
	var errs []error

	if _, err := b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		errs = append(errs, b.errorCallbackAnswer(callback, fmt.Errorf("send request: %w", err)))
	}

	err := fn()
	if err != nil {
		errs = append(errs, fmt.Errorf("call fn: %w", err))
	}

	return errors.Join(errs...)
}

func (b *Bot) errorCallbackAnswer(
	callback *tgbotapi.CallbackQuery,
	err error,
) error {
	if _, sendErr := b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "❌ Failed.")); sendErr != nil {
		return errors.Join(err, fmt.Errorf("send request: %w", sendErr))
	}
	return err
}
