package models

import "fmt"

// Pre-populated list lengths for a fresh form. They are a convenience, not a cap.
const (
	DefaultEmploymentEntries = 2
	DefaultReferenceEntries  = 3
)

// Weekday keys in calendar order.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// Weekdays lists the seven days Monday first.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeeklyAvailability maps each weekday to a free-text hours string.
type WeeklyAvailability struct {
	Mon          string `json:"mon"`
	Tue          string `json:"tue"`
	Wed          string `json:"wed"`
	Thu          string `json:"thu"`
	Fri          string `json:"fri"`
	Sat          string `json:"sat"`
	Sun          string `json:"sun"`
	NoPreference bool   `json:"noPreference"`
}

// Day returns the hours for d.
func (a WeeklyAvailability) Day(d Weekday) string {
	if p := a.slot(d); p != nil {
		return *p
	}
	return ""
}

// SetDay replaces the hours for d.
func (a *WeeklyAvailability) SetDay(d Weekday, hours string) error {
	p := a.slot(d)
	if p == nil {
		return fmt.Errorf("%w: weekday %q", ErrUnknownField, d)
	}
	*p = hours
	return nil
}

func (a *WeeklyAvailability) slot(d Weekday) *string {
	switch d {
	case Monday:
		return &a.Mon
	case Tuesday:
		return &a.Tue
	case Wednesday:
		return &a.Wed
	case Thursday:
		return &a.Thu
	case Friday:
		return &a.Fri
	case Saturday:
		return &a.Sat
	case Sunday:
		return &a.Sun
	default:
		return nil
	}
}

// EducationCategory is one of the four fixed education slots.
type EducationCategory string

const (
	HighSchool   EducationCategory = "highSchool"
	College      EducationCategory = "college"
	TradeSchool  EducationCategory = "trade"
	Professional EducationCategory = "professional"
)

// EducationCategories lists the categories in display order.
var EducationCategories = []EducationCategory{HighSchool, College, TradeSchool, Professional}

// Label is the human-readable category name.
func (c EducationCategory) Label() string {
	switch c {
	case HighSchool:
		return "High School"
	case College:
		return "College"
	case TradeSchool:
		return "Trade School"
	case Professional:
		return "Professional"
	default:
		return string(c)
	}
}

// EducationEntry describes one school.
type EducationEntry struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	From      string `json:"from"`
	To        string `json:"to"`
	Degree    string `json:"degree"`
	Graduated bool   `json:"graduated"`
}

// IsEmpty reports whether nothing was entered for the school.
func (e EducationEntry) IsEmpty() bool {
	return e == EducationEntry{}
}

// EducationRecord always carries exactly the four categories; it is a struct
// rather than a map so keys cannot be added or removed.
type EducationRecord struct {
	HighSchool   EducationEntry `json:"highSchool"`
	College      EducationEntry `json:"college"`
	Trade        EducationEntry `json:"trade"`
	Professional EducationEntry `json:"professional"`
}

// Entry returns the entry for category c.
func (e EducationRecord) Entry(c EducationCategory) (EducationEntry, bool) {
	p := e.slot(c)
	if p == nil {
		return EducationEntry{}, false
	}
	return *p, true
}

// Entry pointer for in-place edits.
func (e *EducationRecord) slot(c EducationCategory) *EducationEntry {
	switch c {
	case HighSchool:
		return &e.HighSchool
	case College:
		return &e.College
	case TradeSchool:
		return &e.Trade
	case Professional:
		return &e.Professional
	default:
		return nil
	}
}

// SetEntry replaces the entry for category c.
func (e *EducationRecord) SetEntry(c EducationCategory, entry EducationEntry) error {
	p := e.slot(c)
	if p == nil {
		return fmt.Errorf("%w: education category %q", ErrUnknownField, c)
	}
	*p = entry
	return nil
}

type EmploymentEntry struct {
	Employer   string `json:"employer"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Supervisor string `json:"supervisor"`
	Dates      string `json:"dates"`
	PayRate    string `json:"payRate"`
	Duties     string `json:"duties"`
	Reason     string `json:"reason"`
	CanContact bool   `json:"canContact"`
}

// IsEmpty reports whether the entry is still blank.
func (e EmploymentEntry) IsEmpty() bool {
	return e == EmploymentEntry{}
}

type ReferenceEntry struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
}

// IsEmpty reports whether the entry is still blank.
func (e ReferenceEntry) IsEmpty() bool {
	return e == ReferenceEntry{}
}
