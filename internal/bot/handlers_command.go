package bot

import (
	"log"

	"jobboard-bot/internal/localization"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *TelegramBot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStartCommand(message)
	case "cancel":
		b.handleCancelCommand(message)
	case "help":
		lang := b.langFor(message.From.ID)
		msg := tgbotapi.NewMessage(message.Chat.ID, b.localizer.GetMessage(lang, "no_session_hint"))
		if _, err := b.api.Send(msg); err != nil {
			log.Printf("Failed to send help response: %v", err)
		}
	}
}

// /start drops any in-flight form and restarts from language selection.
func (b *TelegramBot) handleStartCommand(message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		return
	}
	key := chatKey(message.Chat.ID)
	b.resumeSessions.Clear(key)
	b.vacancySessions.Clear(key)

	if err := b.storage.UpsertUser(message.From.ID, message.From.FirstName, message.From.UserName); err != nil {
		log.Printf("Failed to upsert user %d: %v", message.From.ID, err)
	}

	lang := b.langFor(message.From.ID)
	msg := tgbotapi.NewMessage(message.Chat.ID, b.localizer.GetMessage(lang, "welcome_message"))
	msg.ReplyMarkup = replyMarkup(b.localizer.Keyboard(lang, localization.KeyboardLanguagePick), true)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send welcome message: %v", err)
	}
}

func (b *TelegramBot) handleCancelCommand(message *tgbotapi.Message) {
	key := chatKey(message.Chat.ID)
	hadSession := b.resumeSessions.Has(key) || b.vacancySessions.Has(key)
	b.resumeSessions.Clear(key)
	b.vacancySessions.Clear(key)
	if !hadSession {
		return
	}
	lang := b.langFor(message.From.ID)
	msg := tgbotapi.NewMessage(message.Chat.ID, b.localizer.GetMessage(lang, "cancelled"))
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send cancel confirmation: %v", err)
	}
}
