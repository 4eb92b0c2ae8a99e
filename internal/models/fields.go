package models

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned when a field name does not exist in the record.
var ErrUnknownField = errors.New("unknown field")

// ErrKindMismatch is returned when a text value targets a flag or vice versa.
var ErrKindMismatch = errors.New("field kind mismatch")

// FieldKind distinguishes free text from yes/no answers.
type FieldKind int

const (
	KindText FieldKind = iota
	KindFlag
)

func (k FieldKind) String() string {
	if k == KindFlag {
		return "flag"
	}
	return "text"
}

// Field is a top-level scalar of ApplicationRecord addressed by its transport name.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool

	text func(*ApplicationRecord) *string
	flag func(*ApplicationRecord) **bool
}

// Text returns the field's value, or "" for flags.
func (f Field) Text(r *ApplicationRecord) string {
	if f.text == nil {
		return ""
	}
	return *f.text(r)
}

// SetText replaces a text field.
func (f Field) SetText(r *ApplicationRecord, v string) error {
	if f.text == nil {
		return fmt.Errorf("%w: %s is a %s field", ErrKindMismatch, f.Name, f.Kind)
	}
	*f.text(r) = v
	return nil
}

// Flag returns the field's answer; nil means unanswered.
func (f Field) Flag(r *ApplicationRecord) *bool {
	if f.flag == nil {
		return nil
	}
	return *f.flag(r)
}

// SetFlag replaces a flag field; nil marks it unanswered.
func (f Field) SetFlag(r *ApplicationRecord, v *bool) error {
	if f.flag == nil {
		return fmt.Errorf("%w: %s is a %s field", ErrKindMismatch, f.Name, f.Kind)
	}
	*f.flag(r) = v
	return nil
}

func textField(name string, required bool, get func(*ApplicationRecord) *string) Field {
	return Field{Name: name, Kind: KindText, Required: required, text: get}
}

func flagField(name string, get func(*ApplicationRecord) **bool) Field {
	return Field{Name: name, Kind: KindFlag, flag: get}
}

var scalarFields = []Field{
	textField("firstName", true, func(r *ApplicationRecord) *string { return &r.PersonalInfo.FirstName }),
	textField("middleName", false, func(r *ApplicationRecord) *string { return &r.PersonalInfo.MiddleName }),
	textField("lastName", true, func(r *ApplicationRecord) *string { return &r.PersonalInfo.LastName }),
	textField("maidenName", false, func(r *ApplicationRecord) *string { return &r.PersonalInfo.MaidenName }),
	textField("dob", false, func(r *ApplicationRecord) *string { return &r.PersonalInfo.DOB }),
	textField("ssn", false, func(r *ApplicationRecord) *string { return &r.PersonalInfo.SSN }),
	textField("email", true, func(r *ApplicationRecord) *string { return &r.PersonalInfo.Email }),
	textField("phone", true, func(r *ApplicationRecord) *string { return &r.PersonalInfo.Phone }),
	textField("cellPhone", false, func(r *ApplicationRecord) *string { return &r.PersonalInfo.CellPhone }),
	textField("referredBy", false, func(r *ApplicationRecord) *string { return &r.PersonalInfo.ReferredBy }),
	textField("ageIfUnder18", false, func(r *ApplicationRecord) *string { return &r.PersonalInfo.AgeIfUnder18 }),

	textField("address", false, func(r *ApplicationRecord) *string { return &r.Address.Street }),
	textField("aptSuite", false, func(r *ApplicationRecord) *string { return &r.Address.AptSuite }),
	textField("city", false, func(r *ApplicationRecord) *string { return &r.Address.City }),
	textField("state", false, func(r *ApplicationRecord) *string { return &r.Address.State }),
	textField("zip", false, func(r *ApplicationRecord) *string { return &r.Address.Zip }),
	textField("permanentAddress", false, func(r *ApplicationRecord) *string { return &r.Address.PermanentAddress }),
	textField("addressHowLong", false, func(r *ApplicationRecord) *string { return &r.Address.HowLong }),

	flagField("isUSCitizen", func(r *ApplicationRecord) **bool { return &r.Eligibility.IsUSCitizen }),
	flagField("isWorkAuthorized", func(r *ApplicationRecord) **bool { return &r.Eligibility.IsWorkAuthorized }),
	flagField("hasFelony", func(r *ApplicationRecord) **bool { return &r.Eligibility.HasFelony }),
	textField("felonyExplanation", false, func(r *ApplicationRecord) *string { return &r.Eligibility.FelonyExplanation }),
	flagField("previouslyWorkedHere", func(r *ApplicationRecord) **bool { return &r.Eligibility.PreviouslyWorkedHere }),
	textField("previousWorkDates", false, func(r *ApplicationRecord) *string { return &r.Eligibility.PreviousWorkDates }),
	flagField("previouslyApplied", func(r *ApplicationRecord) **bool { return &r.Eligibility.PreviouslyApplied }),
	textField("previouslyAppliedDate", false, func(r *ApplicationRecord) *string { return &r.Eligibility.PreviouslyAppliedDate }),
	flagField("drugScreenConsent", func(r *ApplicationRecord) **bool { return &r.Eligibility.DrugScreenConsent }),
	flagField("veteranStatus", func(r *ApplicationRecord) **bool { return &r.Eligibility.VeteranStatus }),

	textField("position", true, func(r *ApplicationRecord) *string { return &r.Job.Position }),
	textField("salaryDesired", false, func(r *ApplicationRecord) *string { return &r.Job.SalaryDesired }),
	textField("payType", false, func(r *ApplicationRecord) *string { return &r.Job.PayType }),
	textField("hoursWeekly", false, func(r *ApplicationRecord) *string { return &r.Job.HoursWeekly }),
	flagField("canWorkNights", func(r *ApplicationRecord) **bool { return &r.Job.CanWorkNights }),
	textField("employmentDesired", false, func(r *ApplicationRecord) *string { return &r.Job.EmploymentDesired }),
	textField("whenAvailable", false, func(r *ApplicationRecord) *string { return &r.Job.WhenAvailable }),
	flagField("currentlyEmployed", func(r *ApplicationRecord) **bool { return &r.Job.CurrentlyEmployed }),
	flagField("mayInquirePresentEmployer", func(r *ApplicationRecord) **bool { return &r.Job.MayInquirePresentEmployer }),

	flagField("certifyTrue", func(r *ApplicationRecord) **bool { return &r.Acknowledgement.CertifyTrue }),
	flagField("authorizeInvestigation", func(r *ApplicationRecord) **bool { return &r.Acknowledgement.AuthorizeInvestigation }),
	flagField("understandFalseInfo", func(r *ApplicationRecord) **bool { return &r.Acknowledgement.UnderstandFalseInfo }),

	textField("message", false, func(r *ApplicationRecord) *string { return &r.Message }),
	textField("source", false, func(r *ApplicationRecord) *string { return &r.Source }),
}

var fieldIndex = func() map[string]Field {
	m := make(map[string]Field, len(scalarFields))
	for _, f := range scalarFields {
		m[f.Name] = f
	}
	return m
}()

// ScalarFields lists every top-level scalar in transport order.
func ScalarFields() []Field {
	return scalarFields
}

// LookupField finds a scalar by transport name.
func LookupField(name string) (Field, bool) {
	f, ok := fieldIndex[name]
	return f, ok
}

// RequiredFields lists the names that must be non-empty at submission.
func RequiredFields() []string {
	var out []string
	for _, f := range scalarFields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Names of the structured sections as they appear on the wire.
const (
	SectionAvailability = "availability"
	SectionEducation    = "education"
	SectionEmployment   = "employmentHistory"
	SectionReferences   = "references"
)

// Attr addresses one field of a nested entry type.
type Attr[T any] struct {
	Kind FieldKind
	text func(*T) *string
	flag func(*T) *bool
}

// AttrSet is the addressable fields of a nested entry type keyed by wire name.
type AttrSet[T any] map[string]Attr[T]

// SetText replaces a text attribute of target.
func (s AttrSet[T]) SetText(target *T, name, v string) error {
	a, ok := s[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if a.text == nil {
		return fmt.Errorf("%w: %s is a %s field", ErrKindMismatch, name, a.Kind)
	}
	*a.text(target) = v
	return nil
}

// SetFlag replaces a flag attribute of target.
func (s AttrSet[T]) SetFlag(target *T, name string, v bool) error {
	a, ok := s[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if a.flag == nil {
		return fmt.Errorf("%w: %s is a %s field", ErrKindMismatch, name, a.Kind)
	}
	*a.flag(target) = v
	return nil
}

func textAttr[T any](get func(*T) *string) Attr[T] {
	return Attr[T]{Kind: KindText, text: get}
}

func flagAttr[T any](get func(*T) *bool) Attr[T] {
	return Attr[T]{Kind: KindFlag, flag: get}
}

var EducationAttrs = AttrSet[EducationEntry]{
	"name":      textAttr(func(e *EducationEntry) *string { return &e.Name }),
	"location":  textAttr(func(e *EducationEntry) *string { return &e.Location }),
	"from":      textAttr(func(e *EducationEntry) *string { return &e.From }),
	"to":        textAttr(func(e *EducationEntry) *string { return &e.To }),
	"degree":    textAttr(func(e *EducationEntry) *string { return &e.Degree }),
	"graduated": flagAttr(func(e *EducationEntry) *bool { return &e.Graduated }),
}

var EmploymentAttrs = AttrSet[EmploymentEntry]{
	"employer":   textAttr(func(e *EmploymentEntry) *string { return &e.Employer }),
	"address":    textAttr(func(e *EmploymentEntry) *string { return &e.Address }),
	"phone":      textAttr(func(e *EmploymentEntry) *string { return &e.Phone }),
	"position":   textAttr(func(e *EmploymentEntry) *string { return &e.Position }),
	"supervisor": textAttr(func(e *EmploymentEntry) *string { return &e.Supervisor }),
	"dates":      textAttr(func(e *EmploymentEntry) *string { return &e.Dates }),
	"payRate":    textAttr(func(e *EmploymentEntry) *string { return &e.PayRate }),
	"duties":     textAttr(func(e *EmploymentEntry) *string { return &e.Duties }),
	"reason":     textAttr(func(e *EmploymentEntry) *string { return &e.Reason }),
	"canContact": flagAttr(func(e *EmploymentEntry) *bool { return &e.CanContact }),
}

var ReferenceAttrs = AttrSet[ReferenceEntry]{
	"name":    textAttr(func(e *ReferenceEntry) *string { return &e.Name }),
	"title":   textAttr(func(e *ReferenceEntry) *string { return &e.Title }),
	"company": textAttr(func(e *ReferenceEntry) *string { return &e.Company }),
	"phone":   textAttr(func(e *ReferenceEntry) *string { return &e.Phone }),
}
