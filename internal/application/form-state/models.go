package formstate

import (
	"fmt"

	"now-hiring/internal/models"
)

// Locator addresses one leaf of the record. The concrete types below are the
// only implementations; Update resolves them with an exhaustive type switch.
type Locator interface {
	locator()
	String() string
}

// ScalarField is a depth-1 target: a top-level text or flag field by transport name.
type ScalarField struct {
	Name string
}

// AvailabilityDay is a depth-2 target: the hours for one weekday.
type AvailabilityDay struct {
	Day models.Weekday
}

// AvailabilityNoPreference is the depth-2 "no preference" flag of the weekly availability.
type AvailabilityNoPreference struct{}

// EducationField is a depth-3 target: one attribute of a fixed education category.
type EducationField struct {
	Category models.EducationCategory
	Attr     string
}

// ListField targets one attribute of an element in an ordered list section.
type ListField struct {
	Section Section
	Index   int
	Attr    string
}

func (ScalarField) locator()              {}
func (AvailabilityDay) locator()          {}
func (AvailabilityNoPreference) locator() {}
func (EducationField) locator()           {}
func (ListField) locator()                {}

func (l ScalarField) String() string            { return l.Name }
func (l AvailabilityDay) String() string        { return "availability." + string(l.Day) }
func (AvailabilityNoPreference) String() string { return "availability.noPreference" }
func (l EducationField) String() string {
	return fmt.Sprintf("education.%s.%s", l.Category, l.Attr)
}
func (l ListField) String() string {
	return fmt.Sprintf("%s[%d].%s", l.Section, l.Index, l.Attr)
}

// Section names the two ordered-list sections.
type Section string

const (
	SectionEmployment Section = models.SectionEmployment
	SectionReferences Section = models.SectionReferences
)

// Value is a text or flag input from the form.
type Value struct {
	kind models.FieldKind
	text string
	flag bool
}

// Text wraps a free-text input.
func Text(s string) Value {
	return Value{kind: models.KindText, text: s}
}

// Flag wraps a checkbox or yes/no input.
func Flag(b bool) Value {
	return Value{kind: models.KindFlag, flag: b}
}

// Kind reports whether v carries text or a flag.
func (v Value) Kind() models.FieldKind {
	return v.kind
}
