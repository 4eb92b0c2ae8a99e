package rendernotification

import (
	"strings"
	"testing"

	"now-hiring/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRecord() *models.ApplicationRecord {
	r := models.NewApplicationRecord()
	r.PersonalInfo.FirstName = "Jane"
	r.PersonalInfo.LastName = "Doe"
	r.PersonalInfo.Email = "jane@x.com"
	r.PersonalInfo.Phone = "555-0100"
	r.Job.Position = "Cashier"
	return &r
}

func render(t *testing.T, r *models.ApplicationRecord) (*Document, *goquery.Document) {
	t.Helper()
	doc, err := Render(r)
	require.NoError(t, err)
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	require.NoError(t, err)
	return doc, parsed
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func TestRender_Subject(t *testing.T) {
	doc, _ := render(t, createTestRecord())
	assert.Equal(t, "New Job Application: Cashier - Jane Doe", doc.Subject)
}

func TestRender_AbsentScalarsAreNA(t *testing.T) {
	r := createTestRecord()
	r.Eligibility.VeteranStatus = nil

	_, doc := render(t, r)

	personal := texts(doc.Find("div.personal p"))
	assert.Contains(t, personal, "Date of Birth: N/A")
	assert.Contains(t, personal, "Phone (Cell): N/A")
	assert.Contains(t, personal, "Phone (Home): 555-0100")

	eligibility := texts(doc.Find("div.eligibility p"))
	assert.Contains(t, eligibility, "U.S. Citizen? No")
	assert.Contains(t, eligibility, "Veteran? N/A")

	assert.Equal(t, "N/A", strings.TrimSpace(doc.Find("p.message").Text()))
	assert.Equal(t, "Direct", doc.Find("span.source").Text())
	assert.Contains(t, texts(doc.Find("div.address p")), "Permanent Address: Same as current")
	assert.Contains(t, texts(doc.Find("div.address p")), "Current Address: N/A")
}

func TestRender_PersonalDetails(t *testing.T) {
	r := createTestRecord()
	r.PersonalInfo.MiddleName = "Q"
	r.PersonalInfo.MaidenName = "Smith"
	r.Address.Street = "1 Main St"
	r.Address.AptSuite = "Apt 2"
	r.Address.City = "Springfield"
	r.Address.State = "IL"
	r.Address.Zip = "62701"
	r.Eligibility.HasFelony = models.Bool(true)
	r.Eligibility.FelonyExplanation = "expunged"
	r.Source = "https://shop.example.com/"

	_, doc := render(t, r)

	personal := texts(doc.Find("div.personal p"))
	assert.Contains(t, personal, "Full Name: Jane Q Doe (Maiden: Smith)")
	assert.Contains(t, texts(doc.Find("div.address p")), "Current Address: 1 Main St, Apt 2, Springfield, IL 62701")
	assert.Contains(t, texts(doc.Find("div.eligibility p")), "Convicted of Felony? Yes (expunged)")
	assert.Equal(t, "https://shop.example.com/", doc.Find("span.source").Text())
}

func TestRender_MultilineMessage(t *testing.T) {
	r := createTestRecord()
	r.Message = "line one\nline <two>\r\nline three"

	out, _ := render(t, r)
	assert.Contains(t, out.HTML, "line one<br>line &lt;two&gt;<br>line three")
}

func TestRender_EducationOrder(t *testing.T) {
	r := createTestRecord()
	r.Education.Professional.Name = "Bar Prep"
	r.Education.HighSchool.Name = "Central High"
	r.Education.HighSchool.Graduated = true

	_, doc := render(t, r)

	assert.Equal(t,
		[]string{"High School:", "College:", "Trade School:", "Professional:"},
		texts(doc.Find("div.education strong.category")))

	first := texts(doc.Find("div.education").First().Find("p"))
	assert.Equal(t, "High School: Central High", first[0])
	assert.Contains(t, first[1], "Graduated: Yes")
	assert.Contains(t, first[1], "Degree: N/A")
}

func TestRender_NumberedSequences(t *testing.T) {
	r := createTestRecord()
	r.Employment[0].Employer = "Acme"
	r.Employment[1].Employer = "Globex"
	r.Employment[1].Duties = "stock\nregister"
	r.References[1].Name = "Alex Lee"

	out, doc := render(t, r)

	employers := doc.Find("div.employer")
	require.Equal(t, 2, employers.Length())
	assert.Equal(t, "Employer #1: Acme", strings.TrimSpace(employers.Eq(0).Find("p").First().Text()))
	assert.Equal(t, "Employer #2: Globex", strings.TrimSpace(employers.Eq(1).Find("p").First().Text()))
	assert.Contains(t, out.HTML, "Duties: stock<br>register")

	refs := doc.Find("tr.reference")
	require.Equal(t, 3, refs.Length())
	var numbers, names []string
	refs.Each(func(_ int, s *goquery.Selection) {
		cells := s.Find("td")
		numbers = append(numbers, cells.Eq(0).Text())
		names = append(names, cells.Eq(1).Text())
	})
	assert.Equal(t, []string{"1", "2", "3"}, numbers)
	assert.Equal(t, []string{"N/A", "Alex Lee", "N/A"}, names)
}

func TestRender_Availability(t *testing.T) {
	r := createTestRecord()
	r.Availability.Mon = "9-5"
	r.Availability.Sat = "10-2"

	_, doc := render(t, r)

	rows := doc.Find("table.availability tr")
	assert.Equal(t, []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}, texts(rows.Eq(0).Find("th")))
	assert.Equal(t, []string{"9-5", "-", "-", "-", "-", "10-2", "-"}, texts(rows.Eq(1).Find("td")))
	assert.Equal(t, "No Preference: No", strings.TrimSpace(doc.Find("p.no-preference").Text()))
}

func TestRender_Acknowledgements(t *testing.T) {
	r := createTestRecord()
	r.Acknowledgement.CertifyTrue = models.Bool(true)
	r.Acknowledgement.UnderstandFalseInfo = nil

	_, doc := render(t, r)

	assert.Equal(t, []string{
		"[X] Certifies information is true: Yes",
		"[ ] Authorizes investigation: No",
		"[ ] Understands dismissal for false information: N/A",
	}, texts(doc.Find("p.ack")))
}

func TestRender_Attachments(t *testing.T) {
	r := createTestRecord()
	_, doc := render(t, r)
	assert.Equal(t, "Attachments: None", strings.TrimSpace(doc.Find("p.attachments").Text()))

	r.Attachments.Photo = &models.Attachment{Filename: "me.jpg", Data: []byte{1}}
	r.Attachments.Resume = &models.Attachment{Filename: "cv.pdf", Data: []byte{1}}
	_, doc = render(t, r)
	assert.Equal(t, "Attachments: me.jpg, cv.pdf", strings.TrimSpace(doc.Find("p.attachments").Text()))
}

func TestRender_EscapesInput(t *testing.T) {
	r := createTestRecord()
	r.Job.Position = `<script>alert(1)</script>`

	out, doc := render(t, r)
	assert.NotContains(t, out.HTML, "<script>")
	assert.Equal(t, `<script>alert(1)</script>`, doc.Find("span.position").Text())
}
