package widgetscript

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"reflect"
	"strconv"
	"strings"
	texttemplate "text/template"
	"unicode"

	submissioncodec "now-hiring/internal/application/submission-codec"
	"now-hiring/internal/models"
	embedsession "now-hiring/internal/widget/embed-session"
	widgetcontroller "now-hiring/internal/widget/widget-controller"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	scriptTemplate = "widget.js.tmpl"
	pageTemplate   = "embed.html.tmpl"
)

// Renderer produces the host-page script and the embed page from the same
// protocol constants the widget controller uses.
type Renderer struct {
	config *Config
	script []byte
	page   *htmltemplate.Template
	fields   []fieldView
	sections []sectionView
}

func New(config *Config) (*Renderer, error) {
	script, err := texttemplate.New(scriptTemplate).
		Funcs(texttemplate.FuncMap{"json": jsonLiteral}).
		ParseFS(templateFS, "templates/"+scriptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse widget script: %w", err)
	}

	w := config.Widget
	var buf bytes.Buffer
	err = script.Execute(&buf, scriptData{
		Origin:              w.Origin,
		Signal:              widgetcontroller.CloseSignal,
		MarkerKey:           w.MarkerKey,
		MarkerValue:         widgetcontroller.MarkerValue,
		AutoOpenDelayMillis: w.AutoOpenDelay.Milliseconds(),
		RootPath:            w.RootPath,
		EmbedPath:           widgetcontroller.EmbedPath,
		Docked:              string(widgetcontroller.Docked),
		Floating:            string(widgetcontroller.Floating),
	})
	if err != nil {
		return nil, fmt.Errorf("render widget script: %w", err)
	}

	page, err := htmltemplate.ParseFS(templateFS, "templates/"+pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse embed page: %w", err)
	}

	return &Renderer{
		config: config,
		script: buf.Bytes(),
		page:   page,
		fields:   formFields(config.Positions),
		sections: formSections(),
	}, nil
}

// Script returns the rendered host-page script.
func (r *Renderer) Script() []byte {
	return r.script
}

// EmbedPage writes the form page for one visit.
func (r *Renderer) EmbedPage(w io.Writer, opts embedsession.Options) error {
	fields := make([]fieldView, len(r.fields))
	copy(fields, r.fields)
	for i := range fields {
		if fields[i].Name == "source" {
			fields[i].Value = opts.Source
		}
	}

	data := pageData{
		Embedded:         opts.Embedded,
		Signal:           widgetcontroller.CloseSignal,
		SubmitPath:       submissioncodec.SubmitPath,
		Fields:           fields,
		Days:             weekdays(),
		Sections:         r.sections,
		EducationSection: models.SectionEducation,
		ListSections:     []string{models.SectionEmployment, models.SectionReferences},
		MaxAttachmentMB:  float64(r.config.MaxAttachmentBytes) / (1 << 20),
	}
	if err := r.page.ExecuteTemplate(w, pageTemplate, data); err != nil {
		return fmt.Errorf("render embed page: %w", err)
	}
	return nil
}

func jsonLiteral(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

var labels = map[string]string{
	"dob":                    "Date of Birth",
	"ssn":                    "Social Security Number",
	"address":                "Street Address",
	"aptSuite":               "Apt / Suite",
	"addressHowLong":         "How long at this address",
	"message":                "Additional Comments",
	"certifyTrue":            "I certify that the information provided is true",
	"authorizeInvestigation": "I authorize investigation of all statements",
	"understandFalseInfo":    "I understand false information may result in dismissal",
	"canContact":             "May we contact this employer",
	"reason":                 "Reason for leaving",
	"from":                   "From",
	"to":                     "To",
}

func formFields(positions []string) []fieldView {
	var out []fieldView
	for _, f := range models.ScalarFields() {
		v := fieldView{Name: f.Name, Label: label(f.Name), Required: f.Required}
		switch {
		case f.Kind == models.KindFlag:
			v.Type = inputCheckbox
			v.Required = f.Name == "certifyTrue"
		case f.Name == "source":
			v.Type = inputHidden
		case f.Name == "email":
			v.Type = inputEmail
		case f.Name == "phone" || f.Name == "cellPhone":
			v.Type = inputTel
		case f.Name == "dob":
			v.Type = inputDate
		case f.Name == "message" || f.Name == "felonyExplanation":
			v.Type = inputTextarea
		case f.Name == "position" && len(positions) > 0:
			v.Type = inputSelect
			v.Options = positions
		case f.Name == "payType":
			v.Type = inputSelect
			v.Options = []string{models.PayHourly, models.PaySalary}
		case f.Name == "employmentDesired":
			v.Type = inputSelect
			v.Options = []string{
				models.EmploymentFullTime, models.EmploymentPartTime,
				models.EmploymentSeasonal, models.EmploymentTemporary,
			}
		default:
			v.Type = inputText
		}
		out = append(out, v)
	}
	return out
}

// formSections lays out education by category and the pre-populated
// employment and reference entries.
func formSections() []sectionView {
	education := sectionView{Name: models.SectionEducation, Legend: "Education"}
	for _, c := range models.EducationCategories {
		education.Entries = append(education.Entries, entryView{
			Key:    string(c),
			Legend: c.Label(),
			Inputs: entryInputs(reflect.TypeOf(models.EducationEntry{})),
		})
	}

	employment := listSection(models.SectionEmployment, "Employment History", "Employer",
		models.DefaultEmploymentEntries, entryInputs(reflect.TypeOf(models.EmploymentEntry{})))
	references := listSection(models.SectionReferences, "References", "Reference",
		models.DefaultReferenceEntries, entryInputs(reflect.TypeOf(models.ReferenceEntry{})))

	return []sectionView{education, employment, references}
}

func listSection(name, legend, entry string, n int, inputs []entryInput) sectionView {
	s := sectionView{Name: name, Legend: legend, AddLabel: entry}
	for i := 0; i < n; i++ {
		s.Entries = append(s.Entries, entryView{
			Key:    strconv.Itoa(i),
			Legend: fmt.Sprintf("%s %d", entry, i+1),
			Inputs: inputs,
		})
	}
	return s
}

// entryInputs reads the wire attribute names from the entry's json tags, so
// the form and the decoder cannot drift apart.
func entryInputs(t reflect.Type) []entryInput {
	out := make([]entryInput, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		attr, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if attr == "" || attr == "-" {
			continue
		}
		in := entryInput{Attr: attr, Label: label(attr), Type: inputText}
		switch {
		case f.Type.Kind() == reflect.Bool:
			in.Type = inputCheckbox
		case attr == "duties":
			in.Type = inputTextarea
		}
		out = append(out, in)
	}
	return out
}

func weekdays() []dayView {
	out := make([]dayView, len(models.Weekdays))
	for i, d := range models.Weekdays {
		out[i] = dayView{Key: string(d), Label: strings.ToUpper(string(d))}
	}
	return out
}

// label turns a camelCase transport name into words: isUSCitizen -> Is US Citizen.
func label(name string) string {
	if l, ok := labels[name]; ok {
		return l
	}
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && breaksBefore(runes, i) {
			b.WriteByte(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func breaksBefore(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsDigit(cur):
		return !unicode.IsDigit(prev)
	case unicode.IsUpper(cur) && unicode.IsLower(prev):
		return true
	case unicode.IsUpper(cur) && unicode.IsUpper(prev):
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	default:
		return false
	}
}
