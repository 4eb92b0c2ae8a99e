package models

// ApplicationRecord is one candidate's complete submission.
//
// Text fields use "" for absent: the multipart transport cannot tell the two
// apart. Top-level flags are *bool so the server can distinguish an unanswered
// question from an explicit "false".
type ApplicationRecord struct {
	PersonalInfo    PersonalInfo         `json:"personalInfo"`
	Address         Address              `json:"address"`
	Eligibility     EligibilityAnswers   `json:"eligibility"`
	Job             JobPreferences       `json:"job"`
	Availability    WeeklyAvailability   `json:"availability"`
	Education       EducationRecord      `json:"education"`
	Employment      []EmploymentEntry    `json:"employmentHistory"`
	References      []ReferenceEntry     `json:"references"`
	Acknowledgement LegalAcknowledgement `json:"acknowledgement"`
	Attachments     Attachments          `json:"-"`
	Message         string               `json:"message"`
	Source          string               `json:"source"`
}

type PersonalInfo struct {
	FirstName    string `json:"firstName"`
	MiddleName   string `json:"middleName"`
	LastName     string `json:"lastName"`
	MaidenName   string `json:"maidenName"`
	DOB          string `json:"dob"`
	SSN          string `json:"ssn"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	CellPhone    string `json:"cellPhone"`
	ReferredBy   string `json:"referredBy"`
	AgeIfUnder18 string `json:"ageIfUnder18"`
}

// FullName joins first, middle and last name.
func (p PersonalInfo) FullName() string {
	name := p.FirstName
	for _, part := range []string{p.MiddleName, p.LastName} {
		if part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part
	}
	return name
}

type Address struct {
	Street           string `json:"address"`
	AptSuite         string `json:"aptSuite"`
	City             string `json:"city"`
	State            string `json:"state"`
	Zip              string `json:"zip"`
	PermanentAddress string `json:"permanentAddress"`
	HowLong          string `json:"addressHowLong"`
}

type EligibilityAnswers struct {
	IsUSCitizen           *bool  `json:"isUSCitizen"`
	IsWorkAuthorized      *bool  `json:"isWorkAuthorized"`
	HasFelony             *bool  `json:"hasFelony"`
	FelonyExplanation     string `json:"felonyExplanation"`
	PreviouslyWorkedHere  *bool  `json:"previouslyWorkedHere"`
	PreviousWorkDates     string `json:"previousWorkDates"`
	PreviouslyApplied     *bool  `json:"previouslyApplied"`
	PreviouslyAppliedDate string `json:"previouslyAppliedDate"`
	DrugScreenConsent     *bool  `json:"drugScreenConsent"`
	VeteranStatus         *bool  `json:"veteranStatus"`
}

// Pay types.
const (
	PayHourly = "hourly"
	PaySalary = "salary"
)

// Employment types.
const (
	EmploymentFullTime  = "full-time"
	EmploymentPartTime  = "part-time"
	EmploymentSeasonal  = "seasonal"
	EmploymentTemporary = "temporary"
)

type JobPreferences struct {
	Position                  string `json:"position"`
	SalaryDesired             string `json:"salaryDesired"`
	PayType                   string `json:"payType"`
	HoursWeekly               string `json:"hoursWeekly"`
	CanWorkNights             *bool  `json:"canWorkNights"`
	EmploymentDesired         string `json:"employmentDesired"`
	WhenAvailable             string `json:"whenAvailable"`
	CurrentlyEmployed         *bool  `json:"currentlyEmployed"`
	MayInquirePresentEmployer *bool  `json:"mayInquirePresentEmployer"`
}

type LegalAcknowledgement struct {
	CertifyTrue            *bool `json:"certifyTrue"`
	AuthorizeInvestigation *bool `json:"authorizeInvestigation"`
	UnderstandFalseInfo    *bool `json:"understandFalseInfo"`
}

// NewApplicationRecord returns the empty record a form session starts from:
// every flag false, two blank employment entries and three blank references.
func NewApplicationRecord() ApplicationRecord {
	r := ApplicationRecord{
		Employment: make([]EmploymentEntry, DefaultEmploymentEntries),
		References: make([]ReferenceEntry, DefaultReferenceEntries),
	}
	for _, f := range ScalarFields() {
		if f.Kind == KindFlag {
			_ = f.SetFlag(&r, Bool(false))
		}
	}
	return r
}

// Clone returns a deep copy; attachment bytes are shared since they are never mutated in place.
func (r ApplicationRecord) Clone() ApplicationRecord {
	out := r
	for _, f := range ScalarFields() {
		if f.Kind == KindFlag {
			if v := f.Flag(&r); v != nil {
				_ = f.SetFlag(&out, Bool(*v))
			}
		}
	}
	if r.Employment != nil {
		out.Employment = append([]EmploymentEntry(nil), r.Employment...)
	}
	if r.References != nil {
		out.References = append([]ReferenceEntry(nil), r.References...)
	}
	out.Attachments = r.Attachments.Clone()
	return out
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}
