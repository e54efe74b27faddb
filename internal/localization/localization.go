package localization

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
)

const (
	KeyboardLanguagePick = "language_pick"
	KeyboardMainMenu     = "main_menu"
	KeyboardBack         = "back"
	KeyboardSkip         = "skip"
	KeyboardExperience   = "experience"
	KeyboardGender       = "gender"
	KeyboardEmployment   = "employment"
	KeyboardRegion       = "region"
	KeyboardLanguages    = "languages"
	KeyboardPhone        = "phone"
	KeyboardConfirm      = "confirm"
)

// Keyboard layouts are shared across languages; each cell is a message key
// resolved against the requested language at build time. The resolved button
// labels double as the valid-value vocabulary for exact-match steps.
var keyboardLayouts = map[string][][]string{
	KeyboardLanguagePick: {{"btn_lang_uz", "btn_lang_ru"}, {"btn_lang_en"}},
	KeyboardMainMenu:     {{"btn_submit_resume", "btn_submit_vacancy"}},
	KeyboardBack:         {{"btn_back"}},
	KeyboardSkip:         {{"btn_skip"}},
	KeyboardExperience:   {{"btn_exp_none", "btn_exp_junior"}, {"btn_exp_middle", "btn_exp_senior"}},
	KeyboardGender:       {{"btn_gender_male", "btn_gender_female"}},
	KeyboardEmployment:   {{"btn_emp_full", "btn_emp_part"}, {"btn_emp_remote", "btn_emp_project"}},
	KeyboardRegion: {
		{"btn_region_tashkent", "btn_region_samarkand"},
		{"btn_region_bukhara", "btn_region_fergana"},
		{"btn_region_andijan", "btn_region_namangan"},
		{"btn_region_khorezm", "btn_region_other"},
	},
	KeyboardLanguages: {
		{"btn_language_uzbek", "btn_language_russian"},
		{"btn_language_english", "btn_lang_other"},
		{"btn_lang_done"},
	},
	KeyboardPhone:   {{"btn_share_contact"}},
	KeyboardConfirm: {{"btn_confirm", "btn_edit"}},
}

type Localizer struct {
	messages map[string]map[string]string
}

func NewLocalizer(dir fs.FS) *Localizer {
	messages := make(map[string]map[string]string)

	files, err := fs.ReadDir(dir, "locales")
	if err != nil {
		log.Fatalf("Failed to read locales directory: %v", err)
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) == ".json" {
			lang := file.Name()[:len(file.Name())-len(".json")]
			content, err := fs.ReadFile(dir, filepath.Join("locales", file.Name()))
			if err != nil {
				log.Printf("Failed to read locale file %s: %v", file.Name(), err)
				continue
			}

			var langMessages map[string]string
			if err := json.Unmarshal(content, &langMessages); err != nil {
				log.Printf("Failed to parse locale file %s: %v", file.Name(), err)
				continue
			}
			messages[lang] = langMessages
			log.Printf("Loaded language: %s", lang)
		}
	}

	return &Localizer{messages: messages}
}

func (l *Localizer) GetMessage(lang, key string) string {
	if langMessages, ok := l.messages[lang]; ok {
		if message, ok := langMessages[key]; ok {
			return message
		}
	}

	if defaultMessages, ok := l.messages["uz"]; ok {
		if message, ok := defaultMessages[key]; ok {
			return message
		}
	}

	return key
}

// Format looks up a message template and applies Sprintf substitutions.
func (l *Localizer) Format(lang, key string, args ...interface{}) string {
	return fmt.Sprintf(l.GetMessage(lang, key), args...)
}

// Keyboard resolves a keyboard kind into rows of button labels for lang.
// An unknown kind yields nil, which callers treat as "no keyboard".
func (l *Localizer) Keyboard(lang, kind string) [][]string {
	layout, ok := keyboardLayouts[kind]
	if !ok {
		return nil
	}
	rows := make([][]string, 0, len(layout))
	for _, row := range layout {
		labels := make([]string, 0, len(row))
		for _, key := range row {
			labels = append(labels, l.GetMessage(lang, key))
		}
		rows = append(rows, labels)
	}
	return rows
}

// Vocabulary flattens a keyboard into the set of labels a step accepts.
func (l *Localizer) Vocabulary(lang, kind string) []string {
	var labels []string
	for _, row := range l.Keyboard(lang, kind) {
		labels = append(labels, row...)
	}
	return labels
}

// Languages lists the locale codes that were actually loaded.
func (l *Localizer) Languages() []string {
	langs := make([]string, 0, len(l.messages))
	for lang := range l.messages {
		langs = append(langs, lang)
	}
	return langs
}
