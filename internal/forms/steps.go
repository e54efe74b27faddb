package forms

import (
	"jobboard-bot/internal/localization"
	"jobboard-bot/internal/storage"
)

type InputKind int

const (
	KindCategory InputKind = iota
	KindChoice
	KindText
	KindDocument
	KindPhone
	KindMultiSelect
)

const (
	FieldProfession = "profession"
	FieldResume     = "resume"
	FieldCompany    = "company"
	FieldExperience = "experience"
	FieldSalary     = "salary"
	FieldName       = "name"
	FieldAge        = "age"
	FieldGender     = "gender"
	FieldRegion     = "region"
	FieldEmployment = "employment"
	FieldLanguages  = "languages"
	FieldPortfolio  = "portfolio"
	FieldSkills     = "skills"
	FieldPhone      = "phone"
	FieldUsername   = "username"
)

type Step struct {
	Field     string
	Kind      InputKind
	PromptKey string
	// Keyboard is the localization keyboard kind shown with the prompt;
	// empty means the reply keyboard is removed for this step.
	Keyboard string
	// Optional steps accept the localized skip token and store "".
	Optional bool
	Validate func(string) bool
	ErrorKey string
}

type Flow struct {
	Type  string
	Steps []Step
	// EditOrder maps the 1-based display position shown in the edit menu
	// to the underlying step index. Display order and step order diverge
	// on purpose; the indirection must go through this table.
	EditOrder []int
}

func ResumeFlow() *Flow {
	return &Flow{
		Type: storage.PostTypeResume,
		Steps: []Step{
			{Field: FieldProfession, Kind: KindCategory, PromptKey: "ask_category"},
			{Field: FieldResume, Kind: KindDocument, PromptKey: "ask_resume_pdf", ErrorKey: "err_invalid_document"},
			{Field: FieldExperience, Kind: KindChoice, PromptKey: "ask_experience", Keyboard: localization.KeyboardExperience},
			{Field: FieldSalary, Kind: KindText, PromptKey: "ask_salary", Validate: ValidSalary, ErrorKey: "err_invalid_salary"},
			{Field: FieldName, Kind: KindText, PromptKey: "ask_name", Validate: nonEmpty, ErrorKey: "err_invalid_option"},
			{Field: FieldAge, Kind: KindText, PromptKey: "ask_age", Validate: ValidAge, ErrorKey: "err_invalid_age"},
			{Field: FieldGender, Kind: KindChoice, PromptKey: "ask_gender", Keyboard: localization.KeyboardGender},
			{Field: FieldRegion, Kind: KindChoice, PromptKey: "ask_region", Keyboard: localization.KeyboardRegion},
			{Field: FieldLanguages, Kind: KindMultiSelect, PromptKey: "ask_languages", Keyboard: localization.KeyboardLanguages},
			{Field: FieldPortfolio, Kind: KindText, PromptKey: "ask_portfolio", Keyboard: localization.KeyboardSkip, Optional: true, Validate: nonEmpty, ErrorKey: "err_invalid_option"},
			{Field: FieldSkills, Kind: KindText, PromptKey: "ask_skills", Validate: nonEmpty, ErrorKey: "err_invalid_option"},
			{Field: FieldPhone, Kind: KindPhone, PromptKey: "ask_phone", Keyboard: localization.KeyboardPhone, ErrorKey: "err_invalid_phone"},
			{Field: FieldUsername, Kind: KindText, PromptKey: "ask_username", Validate: ValidUsername, ErrorKey: "err_invalid_username"},
		},
		// Candidates read top-down: identity first, then profession.
		EditOrder: []int{4, 5, 6, 0, 1, 2, 3, 7, 8, 9, 10, 11, 12},
	}
}

func VacancyFlow() *Flow {
	return &Flow{
		Type: storage.PostTypeVacancy,
		Steps: []Step{
			{Field: FieldProfession, Kind: KindCategory, PromptKey: "ask_category"},
			{Field: FieldCompany, Kind: KindText, PromptKey: "ask_company", Validate: nonEmpty, ErrorKey: "err_invalid_option"},
			{Field: FieldExperience, Kind: KindChoice, PromptKey: "ask_experience", Keyboard: localization.KeyboardExperience},
			{Field: FieldSalary, Kind: KindText, PromptKey: "ask_salary", Validate: ValidSalary, ErrorKey: "err_invalid_salary"},
			{Field: FieldEmployment, Kind: KindChoice, PromptKey: "ask_employment", Keyboard: localization.KeyboardEmployment},
			{Field: FieldRegion, Kind: KindChoice, PromptKey: "ask_region", Keyboard: localization.KeyboardRegion},
			{Field: FieldLanguages, Kind: KindMultiSelect, PromptKey: "ask_languages", Keyboard: localization.KeyboardLanguages},
			{Field: FieldSkills, Kind: KindText, PromptKey: "ask_skills", Validate: nonEmpty, ErrorKey: "err_invalid_option"},
			{Field: FieldPhone, Kind: KindPhone, PromptKey: "ask_phone", Keyboard: localization.KeyboardPhone, ErrorKey: "err_invalid_phone"},
			{Field: FieldUsername, Kind: KindText, PromptKey: "ask_username", Validate: ValidUsername, ErrorKey: "err_invalid_username"},
		},
		EditOrder: []int{1, 0, 2, 3, 4, 5, 6, 7, 8, 9},
	}
}
