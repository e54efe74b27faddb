package bot

import (
	"errors"
	"log"
	"strings"

	"jobboard-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *TelegramBot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	userID := callback.From.ID
	lang := b.langFor(userID)

	callbackData := strings.SplitN(callback.Data, ":", 2)
	action := callbackData[0]
	var data string
	if len(callbackData) > 1 {
		data = callbackData[1]
	}

	switch action {
	case "approve_post":
		b.handleApproveCallback(callback, lang)
	case "reject_post":
		b.handleRejectCallback(callback, data, lang)
	default:
		b.answerCallback(callback.ID, "")
	}
}

func (b *TelegramBot) handleApproveCallback(callback *tgbotapi.CallbackQuery, lang string) {
	if !b.isAdmin(callback.From.ID) {
		b.answerCallback(callback.ID, b.localizer.GetMessage(lang, "err_not_admin"))
		return
	}

	_, err := b.coordinator.Approve(callback.Message.MessageID)
	switch {
	case err == nil:
		b.answerCallback(callback.ID, b.localizer.GetMessage(lang, "approve_done"))
	case errors.Is(err, storage.ErrConflict), errors.Is(err, storage.ErrNotFound):
		// Another moderator got there first or the post is gone.
		b.answerCallback(callback.ID, b.localizer.GetMessage(lang, "moderation_gone"))
	default:
		log.Printf("Failed to approve post at review message %d: %v", callback.Message.MessageID, err)
		b.answerCallback(callback.ID, b.localizer.GetMessage(lang, "err_generic"))
	}
}

func (b *TelegramBot) handleRejectCallback(callback *tgbotapi.CallbackQuery, postID, lang string) {
	if !b.isAdmin(callback.From.ID) {
		b.answerCallback(callback.ID, b.localizer.GetMessage(lang, "err_not_admin"))
		return
	}

	b.adminMutex.Lock()
	b.adminStates[callback.From.ID] = &adminState{
		PendingPostID:   postID,
		ChatID:          callback.Message.Chat.ID,
		ReviewMessageID: callback.Message.MessageID,
	}
	b.adminMutex.Unlock()

	b.answerCallback(callback.ID, "")
	msg := tgbotapi.NewMessage(callback.Message.Chat.ID, b.localizer.GetMessage(lang, "ask_reject_reason"))
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to ask for rejection reason: %v", err)
	}
}

// handleRejectReason consumes the moderator's next message as the
// rejection reason for the post picked in handleRejectCallback.
func (b *TelegramBot) handleRejectReason(message *tgbotapi.Message, state *adminState) {
	b.adminMutex.Lock()
	delete(b.adminStates, message.From.ID)
	b.adminMutex.Unlock()

	lang := b.langFor(message.From.ID)
	reason := strings.TrimSpace(message.Text)

	_, err := b.coordinator.Reject(state.PendingPostID, reason)
	switch {
	case err == nil:
		b.sendNotice(message.Chat.ID, lang, "reject_done", "")
	case errors.Is(err, storage.ErrConflict), errors.Is(err, storage.ErrNotFound):
		b.sendNotice(message.Chat.ID, lang, "moderation_gone", "")
	default:
		log.Printf("Failed to reject post %s: %v", state.PendingPostID, err)
		b.sendNotice(message.Chat.ID, lang, "err_generic", "")
	}
}

func (b *TelegramBot) answerCallback(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("Failed to answer callback query: %v", err)
	}
}
