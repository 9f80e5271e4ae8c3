package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pagebrief/internal/translate"
)

const (
	hoursPerDay                 = 24
	settingsHourKeyboardRowSize = 5
	settingsHourCallbackPrefix  = "settings_auto_digest_hour_utc_"

	settingsLanguageKeyboardRowSize = 3
	settingsLanguageCallbackPrefix  = "settings_language_"

	translateCallbackData = "translate"
)

func (b *Bot) sendMessageWithKeyboard(
	chatID int64,
	text string,
	keyboard [][]tgbotapi.InlineKeyboardButton,
) error {
	normalizedText := strings.ToValidUTF8(text, "?")
	if normalizedText != text {
		b.log.Warn("Message text had invalid UTF-8 and was normalized",
			"chatID", chatID,
			"originalLen", len(text),
			"normalizedLen", len(normalizedText))
	}

	message := tgbotapi.NewMessage(chatID, normalizedText)

	// See https://core.telegram.org/bots/api#markdownv2-style.
	message.ParseMode = tgbotapi.ModeMarkdownV2

	message.DisableWebPagePreview = true
	message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)

	_, err := b.rateLimiter.Send(message)
	return err
}

func getReturnKeyboard() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("⬅️ Return to menu", "menu")},
	}
}

func getMenuKeyboard() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("📄 Feed list", "menu_list"),
			tgbotapi.NewInlineKeyboardButtonData("📰 24h digest", "menu_digest"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", "menu_settings"),
		},
	}
}

// getSummaryKeyboard is attached to every summary panel message.
func getSummaryKeyboard() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("🌐 Translate", translateCallbackData)},
	}
}

func getSettingsKeyboard() [][]tgbotapi.InlineKeyboardButton {
	keyboard := getSettingsHourRows()

	return append(keyboard, getSettingsLanguageRows()...)
}

func getSettingsHourRows() [][]tgbotapi.InlineKeyboardButton {
	var keyboard [][]tgbotapi.InlineKeyboardButton

	for i := 0; i < hoursPerDay; i += settingsHourKeyboardRowSize {
		var row []tgbotapi.InlineKeyboardButton

		for j := i; j < i+settingsHourKeyboardRowSize && j < hoursPerDay; j++ {
			hour := fmt.Sprintf("%02d", j)
			row = append(
				row,
				tgbotapi.NewInlineKeyboardButtonData(hour, settingsHourCallbackPrefix+hour),
			)
		}

		keyboard = append(keyboard, row)
	}

	return keyboard
}

func getSettingsLanguageRows() [][]tgbotapi.InlineKeyboardButton {
	var keyboard [][]tgbotapi.InlineKeyboardButton

	names := translate.LanguageNames()
	for i := 0; i < len(names); i += settingsLanguageKeyboardRowSize {
		var row []tgbotapi.InlineKeyboardButton

		for j := i; j < i+settingsLanguageKeyboardRowSize && j < len(names); j++ {
			row = append(
				row,
				tgbotapi.NewInlineKeyboardButtonData(names[j], settingsLanguageCallbackPrefix+names[j]),
			)
		}

		keyboard = append(keyboard, row)
	}

	return keyboard
}
