package render

import (
	"os"
	"testing"
	"testing/fstest"

	"jobboard-bot/internal/localization"
	"jobboard-bot/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRasterizer records what it was asked to draw and returns fixed bytes.
type fakeRasterizer struct {
	asset  string
	fields map[string]string
	err    error
}

func (f *fakeRasterizer) RenderTemplate(asset string, fields map[string]string) ([]byte, error) {
	f.asset = asset
	f.fields = fields
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png-bytes"), nil
}

// The empty locale makes GetMessage return keys verbatim, so assertions can
// speak in keys.
func testLocalizer() *localization.Localizer {
	return localization.NewLocalizer(fstest.MapFS{
		"locales/en.json": {Data: []byte(`{}`)},
	})
}

func testPost() *storage.Post {
	return &storage.Post{
		PublicID: "abc-123",
		Type:     storage.PostTypeResume,
		Fields: storage.PostFields{
			Profession: "Backend",
			Category:   "Dasturlash",
			Experience: "Junior",
			Salary:     "5000000",
			Name:       "Ali Valiyev",
			Age:        "25",
			Gender:     "Male",
			Region:     "Tashkent",
			Languages:  []string{"Uzbek", "English"},
			Portfolio:  "https://example.com/ali",
			Skills:     "Go & SQL",
			Phone:      "+998901234567",
			Username:   "@ali",
		},
	}
}

func TestRenderWritesArtifact(t *testing.T) {
	rast := &fakeRasterizer{}
	r := NewRenderer(rast, testLocalizer(), t.TempDir(), "https://jobs.example.com")

	path, err := r.Render(testPost(), "en")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "resume_male.html", rast.asset)
	assert.Equal(t, "Ali Valiyev", rast.fields["Name"])
}

func TestTemplateAssetSelection(t *testing.T) {
	rast := &fakeRasterizer{}
	r := NewRenderer(rast, testLocalizer(), t.TempDir(), "https://jobs.example.com")

	post := testPost()
	post.Fields.Gender = "btn_gender_female"
	_, err := r.Render(post, "en")
	require.NoError(t, err)
	assert.Equal(t, "resume_female.html", rast.asset)

	post.Type = storage.PostTypeVacancy
	_, err = r.Render(post, "en")
	require.NoError(t, err)
	assert.Equal(t, "vacancy.html", rast.asset)
}

func TestReviewCaptionShowsEverything(t *testing.T) {
	r := NewRenderer(&fakeRasterizer{}, testLocalizer(), t.TempDir(), "https://jobs.example.com")

	caption := r.ReviewCaption(testPost(), "en")
	assert.Contains(t, caption, "field_name")
	assert.Contains(t, caption, "field_age")
	assert.Contains(t, caption, "field_phone")
	assert.Contains(t, caption, "+998901234567")
	assert.Contains(t, caption, "@ali")
	assert.Contains(t, caption, "field_portfolio")
}

func TestChannelCaptionHidesContactDetails(t *testing.T) {
	r := NewRenderer(&fakeRasterizer{}, testLocalizer(), t.TempDir(), "https://jobs.example.com")

	post := testPost()
	caption := r.ChannelCaption(post, "en")
	assert.NotContains(t, caption, "Ali Valiyev")
	assert.NotContains(t, caption, "+998901234567")
	assert.NotContains(t, caption, "@ali")
	assert.NotContains(t, caption, post.Fields.Portfolio)
	assert.NotContains(t, caption, "field_age")

	assert.Contains(t, caption, "Backend")
	assert.Contains(t, caption, "Dasturlash")
	assert.Contains(t, caption, "Uzbek, English")
	// Field values are HTML-escaped for the caption.
	assert.Contains(t, caption, "Go &amp; SQL")
}

func TestRedirectURL(t *testing.T) {
	r := NewRenderer(&fakeRasterizer{}, testLocalizer(), t.TempDir(), "https://jobs.example.com/")

	assert.Equal(t,
		"https://jobs.example.com/job-posts/redirect/abc-123?target=contact",
		r.RedirectURL("abc-123", "contact"))
}
