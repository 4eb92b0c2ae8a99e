package rendernotification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"now-hiring/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var applicationTemplate = template.Must(
	template.New("application.html.tmpl").
		Funcs(template.FuncMap{
			"br":      lineBreaks,
			"section": newSection,
		}).
		ParseFS(templateFS, "templates/application.html.tmpl"),
)

// Subject is the notification title for r.
func Subject(r *models.ApplicationRecord) string {
	return fmt.Sprintf("New Job Application: %s - %s %s",
		r.Job.Position, r.PersonalInfo.FirstName, r.PersonalInfo.LastName)
}

// Render formats r as an HTML notification. It has no side effects.
func Render(r *models.ApplicationRecord) (*Document, error) {
	var buf bytes.Buffer
	if err := applicationTemplate.Execute(&buf, buildView(r)); err != nil {
		return nil, fmt.Errorf("render application: %w", err)
	}
	return &Document{Subject: Subject(r), HTML: buf.String()}, nil
}

type section struct {
	Class string
	Title string
	Rows  []row
}

func newSection(class, title string, rows []row) section {
	return section{Class: class, Title: title, Rows: rows}
}

// lineBreaks escapes s and turns each newline into <br>.
func lineBreaks(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func answer(v *bool) string {
	if v == nil {
		return NotAvailable
	}
	return yesNo(*v)
}

// withDetail appends "(detail)" to an answer when detail is set.
func withDetail(v *bool, detail string) string {
	if detail == "" {
		return answer(v)
	}
	return answer(v) + " (" + detail + ")"
}

func fullName(p models.PersonalInfo) string {
	name := p.FullName()
	if p.MaidenName != "" {
		name += " (Maiden: " + p.MaidenName + ")"
	}
	return orNA(name)
}

func currentAddress(a models.Address) string {
	street := a.Street
	if a.AptSuite != "" {
		street = joinNonEmpty(", ", street, a.AptSuite)
	}
	return orNA(joinNonEmpty(", ", street, a.City, joinNonEmpty(" ", a.State, a.Zip)))
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func pay(j models.JobPreferences) string {
	return orNA(joinNonEmpty(" / ", j.SalaryDesired, j.PayType))
}

func buildView(r *models.ApplicationRecord) view {
	p, a, e, j := r.PersonalInfo, r.Address, r.Eligibility, r.Job

	v := view{
		Position: orNA(j.Position),
		Source:   r.Source,
		Personal: []row{
			{"Full Name:", fullName(p)},
			{"Date of Birth:", orNA(p.DOB)},
			{"Email:", orNA(p.Email)},
			{"Phone (Home):", orNA(p.Phone)},
			{"Phone (Cell):", orNA(p.CellPhone)},
			{"SSN:", orNA(p.SSN)},
			{"Referred By:", orNA(p.ReferredBy)},
			{"Age (if under 18):", orNA(p.AgeIfUnder18)},
		},
		Address: []row{
			{"Current Address:", currentAddress(a)},
			{"Permanent Address:", a.PermanentAddress},
			{"Length of Residency:", orNA(a.HowLong)},
		},
		Eligibility: []row{
			{"U.S. Citizen?", answer(e.IsUSCitizen)},
			{"Work Authorized?", answer(e.IsWorkAuthorized)},
			{"Convicted of Felony?", withDetail(e.HasFelony, e.FelonyExplanation)},
			{"Worked Here Before?", withDetail(e.PreviouslyWorkedHere, e.PreviousWorkDates)},
			{"Applied Here Before?", withDetail(e.PreviouslyApplied, e.PreviouslyAppliedDate)},
			{"Drug Screening Consent?", answer(e.DrugScreenConsent)},
			{"Veteran?", answer(e.VeteranStatus)},
		},
		Job: []row{
			{"Desired Pay:", pay(j)},
			{"Employment Type:", orNA(j.EmploymentDesired)},
			{"When Available:", orNA(j.WhenAvailable)},
			{"Desired Hours/Week:", orNA(j.HoursWeekly)},
			{"Nights OK?", answer(j.CanWorkNights)},
			{"Currently Employed?", answer(j.CurrentlyEmployed)},
			{"May Contact Current Employer?", answer(j.MayInquirePresentEmployer)},
		},
		NoPreference: yesNo(r.Availability.NoPreference),
		Message:      orNA(r.Message),
	}

	if v.Source == "" {
		v.Source = DirectSource
	}
	if a.PermanentAddress == "" {
		v.Address[1].Value = SameAsCurrent
	}

	for _, d := range models.Weekdays {
		hours := r.Availability.Day(d)
		if strings.TrimSpace(hours) == "" {
			hours = EmptyDay
		}
		v.Days = append(v.Days, dayView{Label: strings.ToUpper(string(d)), Hours: hours})
	}

	for _, c := range models.EducationCategories {
		entry, _ := r.Education.Entry(c)
		v.Education = append(v.Education, educationView{
			Label:     c.Label(),
			Name:      orNA(entry.Name),
			Location:  orNA(entry.Location),
			From:      orNA(entry.From),
			To:        orNA(entry.To),
			Degree:    orNA(entry.Degree),
			Graduated: yesNo(entry.Graduated),
		})
	}

	for i, job := range r.Employment {
		v.Employment = append(v.Employment, employmentView{
			Number:     i + 1,
			Employer:   orNA(job.Employer),
			Position:   orNA(job.Position),
			Dates:      orNA(job.Dates),
			PayRate:    orNA(job.PayRate),
			Address:    orNA(job.Address),
			Phone:      orNA(job.Phone),
			Supervisor: orNA(job.Supervisor),
			CanContact: yesNo(job.CanContact),
			Reason:     orNA(job.Reason),
			Duties:     orNA(job.Duties),
		})
	}

	for i, ref := range r.References {
		v.References = append(v.References, referenceView{
			Number:  i + 1,
			Name:    orNA(ref.Name),
			Title:   orNA(ref.Title),
			Company: orNA(ref.Company),
			Phone:   orNA(ref.Phone),
		})
	}

	for _, att := range r.Attachments.Present() {
		v.Attachments = append(v.Attachments, orNA(att.Filename))
	}

	ack := r.Acknowledgement
	v.Acks = []ackView{
		ackLine("Certifies information is true", ack.CertifyTrue),
		ackLine("Authorizes investigation", ack.AuthorizeInvestigation),
		ackLine("Understands dismissal for false information", ack.UnderstandFalseInfo),
	}

	return v
}

func ackLine(text string, v *bool) ackView {
	return ackView{Checked: v != nil && *v, Text: text, Answer: answer(v)}
}
