package forms

import (
	"testing"

	"jobboard-bot/internal/localization"
	"jobboard-bot/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog resolves every message key to itself so tests can speak in
// keys. Vocabulary mirrors the shape of the real keyboards.
type fakeCatalog struct{}

func (fakeCatalog) GetMessage(lang, key string) string { return key }

func (fakeCatalog) Format(lang, key string, args ...interface{}) string { return key }

func (fakeCatalog) Vocabulary(lang, kind string) []string {
	switch kind {
	case localization.KeyboardExperience:
		return []string{"btn_exp_none", "btn_exp_junior", "btn_exp_middle", "btn_exp_senior"}
	case localization.KeyboardGender:
		return []string{"btn_gender_male", "btn_gender_female"}
	case localization.KeyboardRegion:
		return []string{"btn_region_tashkent", "btn_region_other"}
	case localization.KeyboardEmployment:
		return []string{"btn_emp_full", "btn_emp_remote"}
	case localization.KeyboardLanguages:
		return []string{"Uzbek", "Russian", "English", "btn_lang_other", "btn_lang_done"}
	}
	return nil
}

type fakeCategories struct{}

func (fakeCategories) CategoryNames(lang string) ([]string, error) {
	return []string{"Dasturlash", "Dizayn"}, nil
}

func (fakeCategories) SubcategoryNames(lang, category string) ([]string, error) {
	if category == "Dasturlash" {
		return []string{"Backend", "Frontend"}, nil
	}
	return []string{"UI"}, nil
}

func newResumeEngine() *Engine {
	return NewEngine(ResumeFlow(), fakeCatalog{}, fakeCategories{})
}

func newVacancyEngine() *Engine {
	return NewEngine(VacancyFlow(), fakeCatalog{}, fakeCategories{})
}

func newSession() *Session {
	return &Session{Language: "uz", Mode: ModeCollecting, Answers: make(map[int]Answer)}
}

func text(s string) Message { return Message{Text: s} }

func pdf(fileID, name string) Message {
	return Message{Document: &Document{FileID: fileID, FileName: name, MimeType: "application/pdf"}}
}

// driveResume walks a session through every résumé step up to the preview.
func driveResume(t *testing.T, e *Engine, sess *Session) {
	t.Helper()
	inputs := []Message{
		text("Dasturlash"),
		text("Backend"),
		pdf("file-123", "cv.pdf"),
		text("btn_exp_junior"),
		text("5000000"),
		text("Ali Valiyev"),
		text("25"),
		text("btn_gender_male"),
		text("btn_region_tashkent"),
		text("Uzbek"),
		text("btn_lang_done"),
		text("btn_skip"),
		text("Go, SQL"),
		{Contact: &Contact{PhoneNumber: "+998 90 123-45-67"}},
		text("@alivaliyev"),
	}
	for i, msg := range inputs {
		res := e.Advance(sess, msg)
		require.NotEqual(t, ResultUnchanged, res.Kind, "input %d was dropped", i)
	}
	require.Equal(t, ModeConfirming, sess.Mode)
}

func TestResumeFlowHappyPath(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	driveResume(t, e, sess)

	res := e.Advance(sess, text("btn_confirm"))
	require.Equal(t, ResultCompletion, res.Kind)
	require.NotNil(t, res.Completion)

	fields := res.Completion.Fields
	assert.Equal(t, storage.PostTypeResume, res.Completion.Type)
	assert.Equal(t, "Dasturlash", fields.Category)
	assert.Equal(t, "Backend", fields.Profession)
	assert.Equal(t, "file-123", fields.ResumeFile)
	assert.Equal(t, "btn_exp_junior", fields.Experience)
	assert.Equal(t, "5000000", fields.Salary)
	assert.Equal(t, "Ali Valiyev", fields.Name)
	assert.Equal(t, "25", fields.Age)
	assert.Equal(t, []string{"Uzbek"}, fields.Languages)
	assert.Equal(t, "", fields.Portfolio)
	assert.Equal(t, "+998901234567", fields.Phone)
	assert.Equal(t, "@alivaliyev", fields.Username)
}

func TestInvalidInputDoesNotAdvanceStep(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()

	// Reach the salary step.
	e.Advance(sess, text("Dasturlash"))
	e.Advance(sess, text("Backend"))
	e.Advance(sess, pdf("f", "cv.pdf"))
	e.Advance(sess, text("btn_exp_junior"))
	require.Equal(t, 3, sess.Step)

	res := e.Advance(sess, text("not a number"))
	assert.Equal(t, ResultPrompt, res.Kind)
	assert.Equal(t, "err_invalid_salary", res.Text)
	assert.Equal(t, 3, sess.Step, "invalid input must not advance the step")

	res = e.Advance(sess, text("-100"))
	assert.Equal(t, "err_invalid_salary", res.Text)
	assert.Equal(t, 3, sess.Step)
}

func TestCategoryDrillDownRequiresExactMatch(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()

	// A near-miss re-shows the same level instead of advancing.
	res := e.Advance(sess, text("dastur"))
	assert.Equal(t, ResultPrompt, res.Kind)
	assert.False(t, sess.InCategory)
	assert.Contains(t, res.Rows[0], "Dasturlash")

	// A subcategory name is not valid at the top level.
	res = e.Advance(sess, text("Backend"))
	assert.False(t, sess.InCategory)

	res = e.Advance(sess, text("Dasturlash"))
	assert.True(t, sess.InCategory)
	assert.Equal(t, "ask_subcategory", res.Text)

	// Back returns to level one and forgets the pick.
	res = e.Advance(sess, text("btn_back"))
	assert.False(t, sess.InCategory)
	assert.Empty(t, sess.Category)
	assert.Equal(t, 0, sess.Step)

	e.Advance(sess, text("Dizayn"))
	res = e.Advance(sess, text("UI"))
	assert.Equal(t, 1, sess.Step)
	assert.Equal(t, "Dizayn", sess.Category)
	assert.Equal(t, "UI", sess.Answers[0].Value)
}

func TestDocumentStepRejectsNonPDF(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	e.Advance(sess, text("Dasturlash"))
	e.Advance(sess, text("Backend"))

	res := e.Advance(sess, Message{Document: &Document{FileID: "f", FileName: "photo.jpg", MimeType: "image/jpeg"}})
	assert.Equal(t, "err_invalid_document", res.Text)
	assert.Equal(t, 1, sess.Step)

	// Plain text is not a document either.
	res = e.Advance(sess, text("here is my resume"))
	assert.Equal(t, "err_invalid_document", res.Text)

	res = e.Advance(sess, pdf("f2", "cv.pdf"))
	assert.Equal(t, 2, sess.Step)
	assert.Equal(t, "cv.pdf", sess.Answers[1].Display)
}

func TestLanguagesDuplicateIsRejected(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	sess.Step = 8

	e.Advance(sess, text("Uzbek"))
	res := e.Advance(sess, text("Uzbek"))
	assert.Equal(t, "err_language_duplicate", res.Text)
	assert.Equal(t, []string{"Uzbek"}, sess.Answers[8].List)

	// Free-text additions go through the same duplicate check.
	e.Advance(sess, text("btn_lang_other"))
	res = e.Advance(sess, text("Uzbek"))
	assert.Equal(t, "err_language_duplicate", res.Text)
	assert.Equal(t, []string{"Uzbek"}, sess.Answers[8].List)

	e.Advance(sess, text("btn_lang_other"))
	e.Advance(sess, text("Tajik"))
	e.Advance(sess, text("btn_lang_done"))
	assert.Equal(t, 9, sess.Step)
	assert.Equal(t, []string{"Uzbek", "Tajik"}, sess.Answers[8].List)
}

func TestLanguagesDoneRequiresNonEmpty(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	sess.Step = 8

	res := e.Advance(sess, text("btn_lang_done"))
	assert.Equal(t, "err_languages_empty", res.Text)
	assert.Equal(t, 8, sess.Step)
}

func TestEditRoundTrip(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	driveResume(t, e, sess)

	res := e.Advance(sess, text("btn_edit"))
	require.Equal(t, ModeEditing, sess.Mode)
	assert.Contains(t, res.Text, "field_age")

	// Display position 2 is the age step.
	res = e.Advance(sess, text("2"))
	require.Equal(t, ModeEditingField, sess.Mode)
	assert.Equal(t, 5, sess.EditStep)
	assert.Equal(t, "ask_age", res.Text)

	res = e.Advance(sess, text("seventeen"))
	assert.Equal(t, "err_invalid_age", res.Text)
	require.Equal(t, ModeEditingField, sess.Mode)

	res = e.Advance(sess, text("30"))
	require.Equal(t, ModeEditing, sess.Mode)
	assert.Contains(t, res.Text, "field_updated")
	assert.Equal(t, "30", sess.Answers[5].Value)

	res = e.Advance(sess, text("btn_confirm"))
	require.Equal(t, ResultCompletion, res.Kind)
	assert.Equal(t, "30", res.Completion.Fields.Age)
	assert.Equal(t, "Ali Valiyev", res.Completion.Fields.Name)
}

func TestEditMultiSelectStartsOver(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	driveResume(t, e, sess)

	e.Advance(sess, text("btn_edit"))
	// Display position 9 is the languages step.
	e.Advance(sess, text("9"))
	require.Equal(t, 8, sess.EditStep)
	_, had := sess.Answers[8]
	assert.False(t, had, "re-editing a multi-select must drop the old set")

	e.Advance(sess, text("Russian"))
	e.Advance(sess, text("English"))
	e.Advance(sess, text("btn_lang_done"))
	require.Equal(t, ModeEditing, sess.Mode)

	res := e.Advance(sess, text("btn_confirm"))
	require.Equal(t, ResultCompletion, res.Kind)
	assert.Equal(t, []string{"Russian", "English"}, res.Completion.Fields.Languages)
}

func TestEditMenuRejectsBadPositions(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	driveResume(t, e, sess)
	e.Advance(sess, text("btn_edit"))

	for _, input := range []string{"0", "14", "banana"} {
		res := e.Advance(sess, text(input))
		assert.Contains(t, res.Text, "edit_pick_invalid", "input %q", input)
		assert.Equal(t, ModeEditing, sess.Mode)
	}
}

func TestVacancyFlowHappyPath(t *testing.T) {
	e := newVacancyEngine()
	sess := newSession()

	inputs := []Message{
		text("Dasturlash"),
		text("Backend"),
		text("Acme LLC"),
		text("btn_exp_middle"),
		text("8000000"),
		text("btn_emp_remote"),
		text("btn_region_tashkent"),
		text("English"),
		text("btn_lang_done"),
		text("Go, Docker"),
		text("998901234567"),
		text("@acmehr"),
	}
	for i, msg := range inputs {
		res := e.Advance(sess, msg)
		require.NotEqual(t, ResultUnchanged, res.Kind, "input %d was dropped", i)
	}
	require.Equal(t, ModeConfirming, sess.Mode)

	res := e.Advance(sess, text("btn_confirm"))
	require.Equal(t, ResultCompletion, res.Kind)

	fields := res.Completion.Fields
	assert.Equal(t, storage.PostTypeVacancy, res.Completion.Type)
	assert.Equal(t, "Acme LLC", fields.Company)
	assert.Equal(t, "btn_emp_remote", fields.Employment)
	assert.Equal(t, "+998901234567", fields.Phone)
}

func TestDoubleConfirmCompletesOnce(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	driveResume(t, e, sess)

	res := e.Advance(sess, text("btn_confirm"))
	require.Equal(t, ResultCompletion, res.Kind)
	require.Equal(t, ModeSubmitting, sess.Mode)

	// The same confirm arriving again must not produce a second post.
	res = e.Advance(sess, text("btn_confirm"))
	assert.Equal(t, ResultUnchanged, res.Kind)
	res = e.Advance(sess, text("anything else"))
	assert.Equal(t, ResultUnchanged, res.Kind)

	// The dispatcher reverts to confirming when rendering fails; only then
	// does confirm work again.
	sess.Mode = ModeConfirming
	res = e.Advance(sess, text("btn_confirm"))
	assert.Equal(t, ResultCompletion, res.Kind)
}

func TestConfirmFromEditMenuCompletesOnce(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	driveResume(t, e, sess)

	e.Advance(sess, text("btn_edit"))
	res := e.Advance(sess, text("btn_confirm"))
	require.Equal(t, ResultCompletion, res.Kind)
	require.Equal(t, ModeSubmitting, sess.Mode)

	res = e.Advance(sess, text("btn_confirm"))
	assert.Equal(t, ResultUnchanged, res.Kind)
}

func TestConfirmRepromptsOnUnknownInput(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	driveResume(t, e, sess)

	res := e.Advance(sess, text("what now?"))
	assert.Equal(t, ResultPrompt, res.Kind)
	assert.Equal(t, localization.KeyboardConfirm, res.Keyboard)
	assert.Equal(t, ModeConfirming, sess.Mode)
}

func TestPDFStepRemovesKeyboard(t *testing.T) {
	e := newResumeEngine()
	sess := newSession()
	sess.Step = 1

	res := e.PromptFor(sess, 1)
	assert.True(t, res.RemoveKeyboard)
	assert.Empty(t, res.Keyboard)
}
