package rendernotification

// Document is a rendered notification ready for delivery.
type Document struct {
	Subject string
	HTML    string
}

// Placeholders used by the renderer.
const (
	NotAvailable  = "N/A"
	EmptyDay      = "-"
	DirectSource  = "Direct"
	SameAsCurrent = "Same as current"
)

type row struct {
	Label string
	Value string
}

type dayView struct {
	Label string
	Hours string
}

type educationView struct {
	Label     string
	Name      string
	Location  string
	From      string
	To        string
	Degree    string
	Graduated string
}

type employmentView struct {
	Number     int
	Employer   string
	Position   string
	Dates      string
	PayRate    string
	Address    string
	Phone      string
	Supervisor string
	CanContact string
	Reason     string
	Duties     string
}

type referenceView struct {
	Number  int
	Name    string
	Title   string
	Company string
	Phone   string
}

type ackView struct {
	Checked bool
	Text    string
	Answer  string
}

type view struct {
	Position     string
	Source       string
	Personal     []row
	Address      []row
	Eligibility  []row
	Job          []row
	Days         []dayView
	NoPreference string
	Education    []educationView
	Employment   []employmentView
	References   []referenceView
	Message      string
	Attachments  []string
	Acks         []ackView
}
