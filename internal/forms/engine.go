package forms

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"jobboard-bot/internal/localization"
	"jobboard-bot/internal/storage"
)

// Catalog is the slice of the localizer the engine depends on.
type Catalog interface {
	GetMessage(lang, key string) string
	Format(lang, key string, args ...interface{}) string
	Vocabulary(lang, kind string) []string
}

// CategorySource lists the two-level drill-down tree in a given language.
type CategorySource interface {
	CategoryNames(lang string) ([]string, error)
	SubcategoryNames(lang, category string) ([]string, error)
}

// Message is the normalized inbound payload. Exactly one variant is set;
// an all-empty Message is uninterpretable at every step.
type Message struct {
	Text     string
	Document *Document
	Contact  *Contact
}

type Document struct {
	FileID   string
	FileName string
	MimeType string
}

type Contact struct {
	PhoneNumber string
}

type ResultKind int

const (
	ResultUnchanged ResultKind = iota
	ResultPrompt
	ResultCompletion
)

// Result is what one Advance call asks the caller to do. Prompts carry
// either a keyboard kind to resolve against the localizer or literal Rows
// (the drill-down levels are data-driven); RemoveKeyboard clears any reply
// keyboard left from a previous step.
type Result struct {
	Kind           ResultKind
	Text           string
	Keyboard       string
	Rows           [][]string
	RemoveKeyboard bool
	Completion     *Collected
}

// Collected is the named record a finished form produces.
type Collected struct {
	Type     string
	Language string
	Fields   storage.PostFields
}

type Engine struct {
	flow       *Flow
	catalog    Catalog
	categories CategorySource
}

func NewEngine(flow *Flow, catalog Catalog, categories CategorySource) *Engine {
	return &Engine{flow: flow, catalog: catalog, categories: categories}
}

func (e *Engine) Flow() *Flow {
	return e.flow
}

// Advance consumes one inbound message against the session and returns the
// next prompt, a completion, or nothing. It mutates only the session; the
// caller owns all transport and persistence side effects.
func (e *Engine) Advance(sess *Session, msg Message) Result {
	sess.Touched = time.Now()

	switch sess.Mode {
	case ModeSubmitting:
		return Result{Kind: ResultUnchanged}
	case ModeConfirming:
		return e.advanceConfirming(sess, msg)
	case ModeEditing:
		return e.advanceEditing(sess, msg)
	case ModeEditingField:
		res, advanced := e.collectStep(sess, sess.EditStep, msg)
		if !advanced {
			return res
		}
		sess.Mode = ModeEditing
		menu := e.editMenu(sess)
		menu.Text = e.catalog.GetMessage(sess.Language, "field_updated") + "\n\n" + menu.Text
		return menu
	default:
		res, advanced := e.collectStep(sess, sess.Step, msg)
		if !advanced {
			return res
		}
		sess.Step++
		if sess.Step >= len(e.flow.Steps) {
			sess.Mode = ModeConfirming
			return e.preview(sess)
		}
		return e.PromptFor(sess, sess.Step)
	}
}

// PromptFor renders the prompt for one step without consuming input.
// Resending it for the same state is always safe.
func (e *Engine) PromptFor(sess *Session, idx int) Result {
	step := e.flow.Steps[idx]
	lang := sess.Language

	if step.Kind == KindCategory {
		if sess.InCategory {
			return e.subcategoryPrompt(sess)
		}
		return e.categoryPrompt(sess)
	}

	res := Result{Kind: ResultPrompt, Text: e.catalog.GetMessage(lang, step.PromptKey)}
	if step.Keyboard != "" {
		res.Keyboard = step.Keyboard
	} else {
		res.RemoveKeyboard = true
	}
	return res
}

func (e *Engine) categoryPrompt(sess *Session) Result {
	names, err := e.categories.CategoryNames(sess.Language)
	if err != nil {
		log.Printf("Failed to list categories for lang %s: %v", sess.Language, err)
	}
	return Result{
		Kind: ResultPrompt,
		Text: e.catalog.GetMessage(sess.Language, "ask_category"),
		Rows: chunkRows(names, 2),
	}
}

func (e *Engine) subcategoryPrompt(sess *Session) Result {
	names, err := e.categories.SubcategoryNames(sess.Language, sess.Category)
	if err != nil {
		log.Printf("Failed to list subcategories of %q for lang %s: %v", sess.Category, sess.Language, err)
	}
	rows := chunkRows(names, 2)
	rows = append(rows, []string{e.catalog.GetMessage(sess.Language, "btn_back")})
	return Result{
		Kind: ResultPrompt,
		Text: e.catalog.Format(sess.Language, "ask_subcategory", sess.Category),
		Rows: rows,
	}
}

// collectStep applies one message to one step. It reports whether the step's
// answer is now stored; when it is not, the Result is the re-prompt (or
// Unchanged for uninterpretable input).
func (e *Engine) collectStep(sess *Session, idx int, msg Message) (Result, bool) {
	step := e.flow.Steps[idx]
	lang := sess.Language

	switch step.Kind {
	case KindCategory:
		return e.collectCategory(sess, idx, msg)
	case KindChoice:
		if msg.Text == "" {
			return Result{Kind: ResultUnchanged}, false
		}
		if !contains(e.catalog.Vocabulary(lang, step.Keyboard), msg.Text) {
			return Result{
				Kind:     ResultPrompt,
				Text:     e.catalog.GetMessage(lang, "err_invalid_option"),
				Keyboard: step.Keyboard,
			}, false
		}
		sess.Answers[idx] = Answer{Value: msg.Text}
		return Result{}, true
	case KindText:
		return e.collectText(sess, idx, step, msg)
	case KindDocument:
		return e.collectDocument(sess, idx, step, msg)
	case KindPhone:
		return e.collectPhone(sess, idx, step, msg)
	case KindMultiSelect:
		return e.collectMultiSelect(sess, idx, step, msg)
	}
	return Result{Kind: ResultUnchanged}, false
}

func (e *Engine) collectCategory(sess *Session, idx int, msg Message) (Result, bool) {
	if msg.Text == "" {
		return Result{Kind: ResultUnchanged}, false
	}
	lang := sess.Language

	if !sess.InCategory {
		names, err := e.categories.CategoryNames(lang)
		if err != nil {
			log.Printf("Failed to list categories for lang %s: %v", lang, err)
		}
		if contains(names, msg.Text) {
			sess.Category = msg.Text
			sess.InCategory = true
			return e.subcategoryPrompt(sess), false
		}
		return e.categoryPrompt(sess), false
	}

	if msg.Text == e.catalog.GetMessage(lang, "btn_back") {
		sess.InCategory = false
		sess.Category = ""
		return e.categoryPrompt(sess), false
	}
	names, err := e.categories.SubcategoryNames(lang, sess.Category)
	if err != nil {
		log.Printf("Failed to list subcategories of %q for lang %s: %v", sess.Category, lang, err)
	}
	if contains(names, msg.Text) {
		sess.Answers[idx] = Answer{Value: msg.Text}
		sess.InCategory = false
		return Result{}, true
	}
	return e.subcategoryPrompt(sess), false
}

func (e *Engine) collectText(sess *Session, idx int, step Step, msg Message) (Result, bool) {
	if msg.Text == "" {
		return Result{Kind: ResultUnchanged}, false
	}
	lang := sess.Language
	if step.Optional && msg.Text == e.catalog.GetMessage(lang, "btn_skip") {
		sess.Answers[idx] = Answer{Value: ""}
		return Result{}, true
	}
	if step.Validate != nil && !step.Validate(msg.Text) {
		res := Result{Kind: ResultPrompt, Text: e.catalog.GetMessage(lang, step.ErrorKey)}
		if step.Keyboard != "" {
			res.Keyboard = step.Keyboard
		}
		return res, false
	}
	sess.Answers[idx] = Answer{Value: strings.TrimSpace(msg.Text)}
	return Result{}, true
}

func (e *Engine) collectDocument(sess *Session, idx int, step Step, msg Message) (Result, bool) {
	lang := sess.Language
	if msg.Document != nil {
		doc := msg.Document
		if doc.MimeType == "application/pdf" || strings.HasSuffix(strings.ToLower(doc.FileName), ".pdf") {
			sess.Answers[idx] = Answer{Value: doc.FileID, Display: doc.FileName}
			return Result{}, true
		}
		return Result{Kind: ResultPrompt, Text: e.catalog.GetMessage(lang, step.ErrorKey)}, false
	}
	if msg.Text != "" {
		return Result{Kind: ResultPrompt, Text: e.catalog.GetMessage(lang, step.ErrorKey)}, false
	}
	return Result{Kind: ResultUnchanged}, false
}

func (e *Engine) collectPhone(sess *Session, idx int, step Step, msg Message) (Result, bool) {
	lang := sess.Language
	raw := msg.Text
	if msg.Contact != nil {
		raw = msg.Contact.PhoneNumber
	}
	if raw == "" {
		return Result{Kind: ResultUnchanged}, false
	}
	phone, ok := NormalizePhone(raw)
	if !ok {
		return Result{
			Kind:     ResultPrompt,
			Text:     e.catalog.GetMessage(lang, step.ErrorKey),
			Keyboard: step.Keyboard,
		}, false
	}
	sess.Answers[idx] = Answer{Value: phone}
	return Result{}, true
}

func (e *Engine) collectMultiSelect(sess *Session, idx int, step Step, msg Message) (Result, bool) {
	lang := sess.Language
	if msg.Text == "" {
		return Result{Kind: ResultUnchanged}, false
	}

	answer := sess.Answers[idx]
	reprompt := func(key string) Result {
		return Result{Kind: ResultPrompt, Text: e.catalog.GetMessage(lang, key), Keyboard: step.Keyboard}
	}

	if sess.AwaitingFreeText {
		sess.AwaitingFreeText = false
		if contains(answer.List, msg.Text) {
			return reprompt("err_language_duplicate"), false
		}
		answer.List = append(answer.List, strings.TrimSpace(msg.Text))
		sess.Answers[idx] = answer
		return reprompt("ask_languages"), false
	}

	other := e.catalog.GetMessage(lang, "btn_lang_other")
	done := e.catalog.GetMessage(lang, "btn_lang_done")

	switch msg.Text {
	case other:
		sess.AwaitingFreeText = true
		return Result{
			Kind:           ResultPrompt,
			Text:           e.catalog.GetMessage(lang, "ask_language_other"),
			RemoveKeyboard: true,
		}, false
	case done:
		if len(answer.List) == 0 {
			return reprompt("err_languages_empty"), false
		}
		return Result{}, true
	}

	if !contains(e.catalog.Vocabulary(lang, step.Keyboard), msg.Text) {
		return reprompt("err_invalid_option"), false
	}
	if contains(answer.List, msg.Text) {
		// Re-selecting is an error, not a toggle-off.
		return reprompt("err_language_duplicate"), false
	}
	answer.List = append(answer.List, msg.Text)
	sess.Answers[idx] = answer
	return reprompt("ask_languages"), false
}

func (e *Engine) advanceConfirming(sess *Session, msg Message) Result {
	lang := sess.Language
	switch msg.Text {
	case e.catalog.GetMessage(lang, "btn_confirm"):
		sess.Mode = ModeSubmitting
		return Result{Kind: ResultCompletion, Completion: e.collect(sess)}
	case e.catalog.GetMessage(lang, "btn_edit"):
		sess.Mode = ModeEditing
		return e.editMenu(sess)
	}
	return e.preview(sess)
}

func (e *Engine) advanceEditing(sess *Session, msg Message) Result {
	lang := sess.Language
	if msg.Text == e.catalog.GetMessage(lang, "btn_confirm") {
		sess.Mode = ModeSubmitting
		return Result{Kind: ResultCompletion, Completion: e.collect(sess)}
	}
	pos, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil || pos < 1 || pos > len(e.flow.EditOrder) {
		menu := e.editMenu(sess)
		menu.Text = e.catalog.GetMessage(lang, "edit_pick_invalid") + "\n\n" + menu.Text
		return menu
	}
	stepIdx := e.flow.EditOrder[pos-1]
	sess.Mode = ModeEditingField
	sess.EditStep = stepIdx
	sess.InCategory = false
	sess.AwaitingFreeText = false
	if e.flow.Steps[stepIdx].Kind == KindMultiSelect {
		// Re-collect the set from scratch; extending the old one would make
		// removal impossible.
		delete(sess.Answers, stepIdx)
	}
	return e.PromptFor(sess, stepIdx)
}

// preview renders every collected answer in display order plus the
// confirm/edit choice.
func (e *Engine) preview(sess *Session) Result {
	lang := sess.Language
	var b strings.Builder
	b.WriteString(e.catalog.GetMessage(lang, "confirm_preview_header"))
	b.WriteString("\n\n")
	if sess.Category != "" {
		b.WriteString(fmt.Sprintf("%s: %s\n", e.catalog.GetMessage(lang, "field_category"), sess.Category))
	}
	for _, stepIdx := range e.flow.EditOrder {
		step := e.flow.Steps[stepIdx]
		b.WriteString(fmt.Sprintf("%s: %s\n",
			e.catalog.GetMessage(lang, "field_"+step.Field),
			e.displayAnswer(sess, stepIdx)))
	}
	b.WriteString("\n")
	b.WriteString(e.catalog.GetMessage(lang, "confirm_prompt"))
	return Result{Kind: ResultPrompt, Text: b.String(), Keyboard: localization.KeyboardConfirm}
}

// editMenu lists fields by display position so the operator can pick one
// by number.
func (e *Engine) editMenu(sess *Session) Result {
	lang := sess.Language
	var b strings.Builder
	b.WriteString(e.catalog.GetMessage(lang, "edit_menu_prompt"))
	b.WriteString("\n\n")
	for pos, stepIdx := range e.flow.EditOrder {
		step := e.flow.Steps[stepIdx]
		b.WriteString(fmt.Sprintf("%d. %s: %s\n", pos+1,
			e.catalog.GetMessage(lang, "field_"+step.Field),
			e.displayAnswer(sess, stepIdx)))
	}
	return Result{Kind: ResultPrompt, Text: b.String(), Keyboard: localization.KeyboardConfirm}
}

func (e *Engine) displayAnswer(sess *Session, stepIdx int) string {
	answer, ok := sess.Answers[stepIdx]
	if !ok {
		return "—"
	}
	if len(answer.List) > 0 {
		return strings.Join(answer.List, ", ")
	}
	if answer.Display != "" {
		return answer.Display
	}
	if answer.Value == "" {
		return "—"
	}
	return answer.Value
}

// collect maps the positional answers onto the named record.
func (e *Engine) collect(sess *Session) *Collected {
	c := &Collected{Type: e.flow.Type, Language: sess.Language}
	c.Fields.Category = sess.Category
	for idx, step := range e.flow.Steps {
		answer := sess.Answers[idx]
		switch step.Field {
		case FieldProfession:
			c.Fields.Profession = answer.Value
		case FieldResume:
			c.Fields.ResumeFile = answer.Value
		case FieldCompany:
			c.Fields.Company = answer.Value
		case FieldExperience:
			c.Fields.Experience = answer.Value
		case FieldSalary:
			c.Fields.Salary = answer.Value
		case FieldName:
			c.Fields.Name = answer.Value
		case FieldAge:
			c.Fields.Age = answer.Value
		case FieldGender:
			c.Fields.Gender = answer.Value
		case FieldRegion:
			c.Fields.Region = answer.Value
		case FieldEmployment:
			c.Fields.Employment = answer.Value
		case FieldLanguages:
			c.Fields.Languages = answer.List
		case FieldPortfolio:
			c.Fields.Portfolio = answer.Value
		case FieldSkills:
			c.Fields.Skills = answer.Value
		case FieldPhone:
			c.Fields.Phone = answer.Value
		case FieldUsername:
			c.Fields.Username = answer.Value
		}
	}
	return c
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func chunkRows(names []string, perRow int) [][]string {
	var rows [][]string
	for len(names) > 0 {
		n := perRow
		if len(names) < n {
			n = len(names)
		}
		rows = append(rows, names[:n])
		names = names[n:]
	}
	return rows
}
