package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeMessage(t *testing.T) {
	doc := normalizeMessage(&tgbotapi.Message{
		Text:     "ignored when a document is attached",
		Document: &tgbotapi.Document{FileID: "f1", FileName: "cv.pdf", MimeType: "application/pdf"},
	})
	assert.NotNil(t, doc.Document)
	assert.Equal(t, "cv.pdf", doc.Document.FileName)
	assert.Empty(t, doc.Text)

	contact := normalizeMessage(&tgbotapi.Message{
		Contact: &tgbotapi.Contact{PhoneNumber: "+998901234567"},
	})
	assert.NotNil(t, contact.Contact)
	assert.Equal(t, "+998901234567", contact.Contact.PhoneNumber)

	text := normalizeMessage(&tgbotapi.Message{Text: "hello"})
	assert.Equal(t, "hello", text.Text)
	assert.Nil(t, text.Document)
	assert.Nil(t, text.Contact)
}

func TestChatKey(t *testing.T) {
	assert.Equal(t, "-1001234", chatKey(-1001234))
	assert.NotEqual(t, chatKey(1), chatKey(-1))
}
