package widgetscript

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"now-hiring/internal/models"
	embedsession "now-hiring/internal/widget/embed-session"
	widgetcontroller "now-hiring/internal/widget/widget-controller"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{
		Widget: &widgetcontroller.Config{
			Origin:        "https://jobs.example.com",
			AutoOpenDelay: 5 * time.Second,
			RootPath:      "/",
			MarkerKey:     "hiring-widget-dismissed",
		},
		Positions:          []string{"Cashier", "Line Cook"},
		MaxAttachmentBytes: 5 << 20,
	}
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(createTestConfig())
	require.NoError(t, err)
	return r
}

func renderPage(t *testing.T, r *Renderer, opts embedsession.Options) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.EmbedPage(&buf, opts))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

// ==========================
// Script Tests
// ==========================

func TestScript_ProtocolConstants(t *testing.T) {
	script := string(newRenderer(t).Script())

	assert.Contains(t, script, `var SIGNAL = "close-widget";`)
	assert.Contains(t, script, `var MARKER_KEY = "hiring-widget-dismissed";`)
	assert.Contains(t, script, `var MARKER_VALUE = "true";`)
	assert.Contains(t, script, `var AUTO_OPEN_DELAY = 5000;`)
	assert.Contains(t, script, `var ROOT_PATH = "/";`)
	assert.Contains(t, script, `var EMBED_PATH = "/embed";`)
	assert.Contains(t, script, `new URL(script.src).origin : "https://jobs.example.com"`)
	assert.Contains(t, script, `footer ? "docked" : "floating"`)
}

func TestScript_EscapesConfiguredStrings(t *testing.T) {
	cfg := createTestConfig()
	cfg.Widget.MarkerKey = `seen";alert(1);"`
	r, err := New(cfg)
	require.NoError(t, err)

	assert.Contains(t, string(r.Script()), `var MARKER_KEY = "seen\";alert(1);\"";`)
}

// ==========================
// Embed Page Tests
// ==========================

func TestEmbedPage_Embedded(t *testing.T) {
	doc := renderPage(t, newRenderer(t), embedsession.Options{Embedded: true, Source: "https://shop.example.org/?a=1"})

	assert.Equal(t, 1, doc.Find("section#landing").Length())
	assert.Equal(t, 1, doc.Find("button#close").Length())
	_, hidden := doc.Find("form#application").Attr("hidden")
	assert.True(t, hidden, "form starts behind the landing screen")

	src, ok := doc.Find(`input[name="source"]`).Attr("value")
	require.True(t, ok)
	assert.Equal(t, "https://shop.example.org/?a=1", src)

	script := doc.Find("script").Text()
	assert.Contains(t, script, `"close-widget"`)
}

func TestEmbedPage_Direct(t *testing.T) {
	doc := renderPage(t, newRenderer(t), embedsession.Options{})

	assert.Equal(t, 0, doc.Find("section#landing").Length())
	assert.Equal(t, 0, doc.Find("button#close").Length())
	_, hidden := doc.Find("form#application").Attr("hidden")
	assert.False(t, hidden)
	assert.True(t, doc.Find("body").HasClass("direct"))
}

func TestEmbedPage_Form(t *testing.T) {
	doc := renderPage(t, newRenderer(t), embedsession.Options{Embedded: true})
	form := doc.Find("form#application")

	action, _ := form.Attr("action")
	assert.Equal(t, "/api/apply", action)
	enctype, _ := form.Attr("enctype")
	assert.Equal(t, "multipart/form-data", enctype)

	for _, name := range []string{"firstName", "lastName", "email", "phone", "position"} {
		field := form.Find(`[name="` + name + `"]`)
		require.Equal(t, 1, field.Length(), name)
		_, required := field.Attr("required")
		assert.True(t, required, name)
	}

	emailType, _ := form.Find(`input[name="email"]`).Attr("type")
	assert.Equal(t, "email", emailType)

	var options []string
	form.Find(`select[name="position"] option`).Each(func(_ int, s *goquery.Selection) {
		options = append(options, s.Text())
	})
	assert.Equal(t, []string{"Select...", "Cashier", "Line Cook"}, options)

	certify := form.Find(`input[name="certifyTrue"]`)
	kind, _ := certify.Attr("type")
	assert.Equal(t, "checkbox", kind)
	_, required := certify.Attr("required")
	assert.True(t, required)
	_, required = form.Find(`input[name="hasFelony"]`).Attr("required")
	assert.False(t, required)

	assert.Equal(t, 8, form.Find("[data-day]").Length(), "seven days plus no preference")
	assert.Equal(t, 1, form.Find(`input[type="file"][name="photo"]`).Length())
	assert.Equal(t, 1, form.Find(`input[type="file"][name="resume"]`).Length())
	assert.Contains(t, form.Find("p.hint").Text(), "5 MB")
}

func TestEmbedPage_StructuredSections(t *testing.T) {
	doc := renderPage(t, newRenderer(t), embedsession.Options{})
	form := doc.Find("form#application")

	entryKeys := func(section string) []string {
		var keys []string
		form.Find(`fieldset[data-section="` + section + `"] fieldset[data-entry]`).Each(func(_ int, s *goquery.Selection) {
			key, _ := s.Attr("data-entry")
			keys = append(keys, key)
		})
		return keys
	}

	assert.Equal(t, []string{"highSchool", "college", "trade", "professional"}, entryKeys("education"))
	assert.Equal(t, []string{"0", "1"}, entryKeys("employmentHistory"))
	assert.Equal(t, []string{"0", "1", "2"}, entryKeys("references"))

	college := form.Find(`fieldset[data-entry="college"]`)
	assert.Equal(t, "College", college.Find("legend").First().Text())
	assert.Equal(t, 6, college.Find("[data-attr]").Length())
	kind, _ := college.Find(`[data-attr="graduated"]`).Attr("type")
	assert.Equal(t, "checkbox", kind)

	employer := form.Find(`fieldset[data-section="employmentHistory"] fieldset[data-entry="1"]`)
	assert.Equal(t, "Employer 2", employer.Find("legend").First().Text())
	assert.Equal(t, 1, employer.Find(`textarea[data-attr="duties"]`).Length())
	kind, _ = employer.Find(`[data-attr="canContact"]`).Attr("type")
	assert.Equal(t, "checkbox", kind)

	assert.Equal(t, 1, form.Find(`button[data-add="employmentHistory"]`).Length())
	assert.Equal(t, 1, form.Find(`button[data-add="references"]`).Length())
	assert.Equal(t, 0, form.Find(`button[data-add="education"]`).Length())

	assert.Equal(t, 0, form.Find("[data-attr][name]").Length(), "section inputs travel as JSON, not as flat fields")

	script := doc.Find("script").Text()
	assert.Contains(t, script, `var EDUCATION = "education";`)
	assert.Contains(t, script, `var LISTS = ["employmentHistory","references"];`)
	assert.Contains(t, script, "data.set(EDUCATION, JSON.stringify(education));")
}

// Every input's data-attr must be a json key the decoder understands.
func TestEmbedPage_SectionAttrsMatchWireFormat(t *testing.T) {
	doc := renderPage(t, newRenderer(t), embedsession.Options{})

	entry := func(selector string) map[string]interface{} {
		out := map[string]interface{}{}
		doc.Find(selector).First().Find("[data-attr]").Each(func(_ int, s *goquery.Selection) {
			attr, _ := s.Attr("data-attr")
			if kind, _ := s.Attr("type"); kind == "checkbox" {
				out[attr] = true
				return
			}
			out[attr] = "x"
		})
		return out
	}

	raw, err := json.Marshal(map[string]interface{}{"college": entry(`fieldset[data-entry="college"]`)})
	require.NoError(t, err)
	var education models.EducationRecord
	require.NoError(t, json.Unmarshal(raw, &education))
	assert.Equal(t, models.EducationEntry{Name: "x", Location: "x", From: "x", To: "x", Degree: "x", Graduated: true}, education.College)

	raw, err = json.Marshal([]interface{}{entry(`fieldset[data-section="employmentHistory"] fieldset[data-entry]`)})
	require.NoError(t, err)
	var employment []models.EmploymentEntry
	require.NoError(t, json.Unmarshal(raw, &employment))
	require.Len(t, employment, 1)
	assert.Equal(t, models.EmploymentEntry{
		Employer: "x", Address: "x", Phone: "x", Position: "x", Supervisor: "x",
		Dates: "x", PayRate: "x", Duties: "x", Reason: "x", CanContact: true,
	}, employment[0])

	raw, err = json.Marshal([]interface{}{entry(`fieldset[data-section="references"] fieldset[data-entry]`)})
	require.NoError(t, err)
	var references []models.ReferenceEntry
	require.NoError(t, json.Unmarshal(raw, &references))
	require.Len(t, references, 1)
	assert.Equal(t, models.ReferenceEntry{Name: "x", Title: "x", Company: "x", Phone: "x"}, references[0])
}

func TestEmbedPage_EscapesSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).EmbedPage(&buf, embedsession.Options{Embedded: true, Source: `"><script>alert(1)</script>`}))

	assert.False(t, strings.Contains(buf.String(), "<script>alert(1)</script>"))
}

func TestEmbedPage_FreeTextPosition(t *testing.T) {
	cfg := createTestConfig()
	cfg.Positions = nil
	r, err := New(cfg)
	require.NoError(t, err)

	doc := renderPage(t, r, embedsession.Options{})
	kind, _ := doc.Find(`input[name="position"]`).Attr("type")
	assert.Equal(t, "text", kind)
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"firstName":    "First Name",
		"isUSCitizen":  "Is US Citizen",
		"ageIfUnder18": "Age If Under 18",
		"dob":          "Date of Birth",
		"zip":          "Zip",
	}
	for in, want := range tests {
		assert.Equal(t, want, label(in), in)
	}
}
