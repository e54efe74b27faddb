package bot

import (
	"log"

	"jobboard-bot/internal/forms"
	"jobboard-bot/internal/localization"
	"jobboard-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// normalizeMessage collapses the transport update into the engine's tagged
// union. Exactly one variant survives.
func normalizeMessage(message *tgbotapi.Message) forms.Message {
	if message.Document != nil {
		return forms.Message{Document: &forms.Document{
			FileID:   message.Document.FileID,
			FileName: message.Document.FileName,
			MimeType: message.Document.MimeType,
		}}
	}
	if message.Contact != nil {
		return forms.Message{Contact: &forms.Contact{PhoneNumber: message.Contact.PhoneNumber}}
	}
	return forms.Message{Text: message.Text}
}

func (b *TelegramBot) handlePrivateMessage(message *tgbotapi.Message) {
	key := chatKey(message.Chat.ID)
	incoming := normalizeMessage(message)

	var res forms.Result
	if b.resumeSessions.Update(key, func(s *forms.Session) { res = b.resumeEngine.Advance(s, incoming) }) {
		b.handleFormResult(message, b.resumeSessions, res)
		return
	}
	if b.vacancySessions.Update(key, func(s *forms.Session) { res = b.vacancyEngine.Advance(s, incoming) }) {
		b.handleFormResult(message, b.vacancySessions, res)
		return
	}

	// No active session: the message can only be a language pick, a main
	// menu button, or noise.
	if code, ok := b.languageFromLabel(message.Text); ok {
		if err := b.storage.SetUserLanguage(message.From.ID, code); err != nil {
			log.Printf("Failed to store language for user %d: %v", message.From.ID, err)
		}
		b.sendMainMenu(message.Chat.ID, code)
		return
	}

	lang := b.langFor(message.From.ID)
	switch message.Text {
	case b.localizer.GetMessage(lang, "btn_submit_resume"):
		b.startFlow(message, b.resumeSessions, b.resumeEngine, lang)
	case b.localizer.GetMessage(lang, "btn_submit_vacancy"):
		b.startFlow(message, b.vacancySessions, b.vacancyEngine, lang)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, b.localizer.GetMessage(lang, "no_session_hint"))
		if _, err := b.api.Send(msg); err != nil {
			log.Printf("Failed to send hint: %v", err)
		}
	}
}

func (b *TelegramBot) languageFromLabel(text string) (string, bool) {
	for _, code := range b.localizer.Languages() {
		if text == b.localizer.GetMessage(b.cfg.DefaultLanguage, "btn_lang_"+code) {
			return code, true
		}
	}
	return "", false
}

func (b *TelegramBot) sendMainMenu(chatID int64, lang string) {
	msg := tgbotapi.NewMessage(chatID, b.localizer.GetMessage(lang, "main_menu_prompt"))
	msg.ReplyMarkup = replyMarkup(b.localizer.Keyboard(lang, localization.KeyboardMainMenu), false)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send main menu: %v", err)
	}
}

func (b *TelegramBot) startFlow(message *tgbotapi.Message, store *forms.SessionStore, engine *forms.Engine, lang string) {
	key := chatKey(message.Chat.ID)
	store.Start(key, lang)
	var res forms.Result
	store.Update(key, func(s *forms.Session) { res = engine.PromptFor(s, 0) })
	if err := b.sendPrompt(message.Chat.ID, lang, res); err != nil {
		log.Printf("Failed to send first prompt to chat %d: %v", message.Chat.ID, err)
	}
}

func (b *TelegramBot) handleFormResult(message *tgbotapi.Message, store *forms.SessionStore, res forms.Result) {
	lang := b.langFor(message.From.ID)
	switch res.Kind {
	case forms.ResultUnchanged:
		// Uninterpretable input is dropped without a visible side effect.
	case forms.ResultPrompt:
		if err := b.sendPrompt(message.Chat.ID, lang, res); err != nil {
			log.Printf("Failed to send prompt to chat %d: %v", message.Chat.ID, err)
		}
	case forms.ResultCompletion:
		b.handleCompletion(message, store, res.Completion)
	}
}

func (b *TelegramBot) handleCompletion(message *tgbotapi.Message, store *forms.SessionStore, collected *forms.Collected) {
	key := chatKey(message.Chat.ID)
	lang := collected.Language

	post := &storage.Post{
		PublicID: uuid.NewString(),
		Type:     collected.Type,
		UserID:   message.From.ID,
		Fields:   collected.Fields,
	}

	imagePath, err := b.renderer.Render(post, lang)
	if err != nil {
		// Put the session back in confirming mode so the user can retry
		// confirm without re-entering everything.
		log.Printf("Failed to render post for chat %d: %v", message.Chat.ID, err)
		store.Update(key, func(s *forms.Session) { s.Mode = forms.ModeConfirming })
		b.sendNotice(message.Chat.ID, lang, "err_render_failed", localization.KeyboardConfirm)
		return
	}
	post.ImagePath = imagePath

	if err := b.coordinator.Submit(post); err != nil {
		log.Printf("CRITICAL: submission failed for chat %d: %v", message.Chat.ID, err)
		store.Clear(key)
		b.sendNotice(message.Chat.ID, lang, "err_submit_failed", localization.KeyboardMainMenu)
		return
	}

	store.Clear(key)
	msg := tgbotapi.NewMessage(message.Chat.ID, b.localizer.GetMessage(lang, "submission_received"))
	msg.ReplyMarkup = replyMarkup(b.localizer.Keyboard(lang, localization.KeyboardMainMenu), false)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send submission confirmation: %v", err)
	}
}

func (b *TelegramBot) sendNotice(chatID int64, lang, key, keyboard string) {
	msg := tgbotapi.NewMessage(chatID, b.localizer.GetMessage(lang, key))
	if keyboard != "" {
		msg.ReplyMarkup = replyMarkup(b.localizer.Keyboard(lang, keyboard), false)
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send notice: %v", err)
	}
}
