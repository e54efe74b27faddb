package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobboard-bot/internal/localization"
	"jobboard-bot/internal/storage"
)

// Rasterizer turns a template asset plus field values into PNG bytes.
// The production implementation drives a headless browser; tests plug in
// a fake.
type Rasterizer interface {
	RenderTemplate(templateAsset string, fields map[string]string) ([]byte, error)
}

type Renderer struct {
	rast         Rasterizer
	localizer    *localization.Localizer
	artifactsDir string
	baseURL      string
}

func NewRenderer(rast Rasterizer, localizer *localization.Localizer, artifactsDir, baseURL string) *Renderer {
	return &Renderer{
		rast:         rast,
		localizer:    localizer,
		artifactsDir: artifactsDir,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

// Render produces the post's image artifact and returns its path. Each call
// writes a new timestamp-named file; nothing is deduplicated or cleaned up
// here.
func (r *Renderer) Render(post *storage.Post, lang string) (string, error) {
	bytes, err := r.rast.RenderTemplate(r.templateAsset(post, lang), r.templateFields(post, lang))
	if err != nil {
		return "", fmt.Errorf("could not rasterize post %s: %w", post.PublicID, err)
	}
	if err := os.MkdirAll(r.artifactsDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create artifacts dir: %w", err)
	}
	path := filepath.Join(r.artifactsDir, fmt.Sprintf("%s-%d.png", post.Type, time.Now().UnixNano()))
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return "", fmt.Errorf("could not write artifact: %w", err)
	}
	return path, nil
}

// templateAsset picks the template by post type; résumés additionally
// split on the gender answer.
func (r *Renderer) templateAsset(post *storage.Post, lang string) string {
	if post.Type == storage.PostTypeVacancy {
		return "vacancy.html"
	}
	if post.Fields.Gender == r.localizer.GetMessage(lang, "btn_gender_female") {
		return "resume_female.html"
	}
	return "resume_male.html"
}

func (r *Renderer) templateFields(post *storage.Post, lang string) map[string]string {
	f := post.Fields
	return map[string]string{
		"Profession": f.Profession,
		"Category":   f.Category,
		"Company":    f.Company,
		"Experience": f.Experience,
		"Salary":     f.Salary,
		"Name":       f.Name,
		"Age":        f.Age,
		"Region":     f.Region,
		"Employment": f.Employment,
		"Languages":  strings.Join(f.Languages, ", "),
		"Skills":     f.Skills,
	}
}

// ReviewCaption shows the moderators everything, internal fields included.
func (r *Renderer) ReviewCaption(post *storage.Post, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", r.localizer.Format(lang, "review_header", post.Type))
	r.writeFieldLines(&b, post, lang, true)
	return b.String()
}

// ChannelCaption is the shorter audience-facing variant: contact details
// stay behind the redirect buttons, never in the text.
func (r *Renderer) ChannelCaption(post *storage.Post, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n\n", HTMLEscape(post.Fields.Profession))
	r.writeFieldLines(&b, post, lang, false)
	return b.String()
}

func (r *Renderer) writeFieldLines(b *strings.Builder, post *storage.Post, lang string, internal bool) {
	f := post.Fields
	line := func(key, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(b, "<b>%s:</b> %s\n", r.localizer.GetMessage(lang, key), HTMLEscape(value))
	}
	line("field_category", f.Category)
	if internal {
		line("field_profession", f.Profession)
		line("field_name", f.Name)
		line("field_age", f.Age)
		line("field_gender", f.Gender)
	}
	line("field_company", f.Company)
	line("field_experience", f.Experience)
	line("field_salary", f.Salary)
	line("field_region", f.Region)
	line("field_employment", f.Employment)
	line("field_languages", strings.Join(f.Languages, ", "))
	line("field_skills", f.Skills)
	if internal {
		line("field_portfolio", f.Portfolio)
		line("field_phone", f.Phone)
		line("field_username", f.Username)
	}
}

// RedirectURL builds the public deep link for a channel button.
func (r *Renderer) RedirectURL(publicID, target string) string {
	return fmt.Sprintf("%s/job-posts/redirect/%s?target=%s", r.baseURL, publicID, target)
}

// HTMLEscape makes a user-supplied value safe for an HTML-parse-mode
// Telegram message.
func HTMLEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
