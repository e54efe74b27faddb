package localization

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func newTestLocalizer() *Localizer {
	return NewLocalizer(fstest.MapFS{
		"locales/uz.json": {Data: []byte(`{
			"greeting": "Salom",
			"btn_confirm": "Tasdiqlash",
			"btn_edit": "Tahrirlash",
			"only_uz": "Faqat uzbekcha"
		}`)},
		"locales/ru.json": {Data: []byte(`{
			"greeting": "Привет",
			"btn_confirm": "Подтвердить",
			"btn_edit": "Изменить"
		}`)},
	})
}

func TestGetMessageFallbackChain(t *testing.T) {
	l := newTestLocalizer()

	assert.Equal(t, "Привет", l.GetMessage("ru", "greeting"))
	// Missing in ru falls back to uz.
	assert.Equal(t, "Faqat uzbekcha", l.GetMessage("ru", "only_uz"))
	// Missing everywhere falls back to the key itself.
	assert.Equal(t, "no_such_key", l.GetMessage("ru", "no_such_key"))
	// An unknown language still resolves through the uz fallback.
	assert.Equal(t, "Salom", l.GetMessage("de", "greeting"))
}

func TestKeyboardResolvesLabels(t *testing.T) {
	l := newTestLocalizer()

	rows := l.Keyboard("ru", KeyboardConfirm)
	assert.Equal(t, [][]string{{"Подтвердить", "Изменить"}}, rows)

	assert.Nil(t, l.Keyboard("ru", "no_such_kind"))
}

func TestVocabularyFlattensKeyboard(t *testing.T) {
	l := newTestLocalizer()

	vocab := l.Vocabulary("uz", KeyboardConfirm)
	assert.Equal(t, []string{"Tasdiqlash", "Tahrirlash"}, vocab)
}

func TestLanguagesListsLoadedLocales(t *testing.T) {
	l := newTestLocalizer()
	assert.ElementsMatch(t, []string{"uz", "ru"}, l.Languages())
}
