package bot

import (
	"jobboard-bot/internal/forms"
	"jobboard-bot/internal/localization"
	"jobboard-bot/internal/moderation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SendText implements moderation.Transport.
func (b *TelegramBot) SendText(chatID int64, text string, keyboard moderation.InlineKeyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		markup := inlineMarkup(keyboard)
		msg.ReplyMarkup = &markup
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// SendPhoto implements moderation.Transport.
func (b *TelegramBot) SendPhoto(chatID int64, imagePath, caption string, keyboard moderation.InlineKeyboard) (int, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(imagePath))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		markup := inlineMarkup(keyboard)
		photo.ReplyMarkup = &markup
	}
	sent, err := b.api.Send(photo)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// ClearKeyboard implements moderation.Transport.
func (b *TelegramBot) ClearKeyboard(chatID int64, messageID int) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	_, err := b.api.Request(edit)
	return err
}

func inlineMarkup(keyboard moderation.InlineKeyboard) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range keyboard {
		var buttons []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			if btn.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
			}
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// sendPrompt translates a form engine result into an outgoing message with
// the right reply keyboard.
func (b *TelegramBot) sendPrompt(chatID int64, lang string, res forms.Result) error {
	msg := tgbotapi.NewMessage(chatID, res.Text)
	msg.ParseMode = tgbotapi.ModeHTML

	switch {
	case res.Rows != nil:
		msg.ReplyMarkup = replyMarkup(res.Rows, false)
	case res.Keyboard == localization.KeyboardPhone:
		label := b.localizer.GetMessage(lang, "btn_share_contact")
		markup := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(label)),
		)
		markup.ResizeKeyboard = true
		msg.ReplyMarkup = markup
	case res.Keyboard != "":
		msg.ReplyMarkup = replyMarkup(b.localizer.Keyboard(lang, res.Keyboard), false)
	case res.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}

	_, err := b.api.Send(msg)
	return err
}

func replyMarkup(rows [][]string, oneTime bool) tgbotapi.ReplyKeyboardMarkup {
	var keyboardRows [][]tgbotapi.KeyboardButton
	for _, row := range rows {
		var buttons []tgbotapi.KeyboardButton
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		keyboardRows = append(keyboardRows, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(keyboardRows...)
	markup.ResizeKeyboard = true
	markup.OneTimeKeyboard = oneTime
	return markup
}
