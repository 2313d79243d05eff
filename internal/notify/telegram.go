// internal/notify/telegram.go
package notify

import (
	"fmt"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxTelegramMessage = 4096

// truncate caps text at limit bytes without splitting a multi-byte rune.
// The logs are German text, so a naive byte cut can leave an invalid tail.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// NewTelegram returns a Handler that posts the call log to a Telegram chat.
func NewTelegram(token string, chatID int64) (Handler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return func(subject, body string) error {
		text := truncate(subject+"\n\n"+body, maxTelegramMessage)
		if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
		return nil
	}, nil
}
