package widgetscript

// scriptData feeds the host-page script.
type scriptData struct {
	Origin              string
	Signal              string
	MarkerKey           string
	MarkerValue         string
	AutoOpenDelayMillis int64
	RootPath            string
	EmbedPath           string
	Docked              string
	Floating            string
}

// pageData feeds the embed page.
type pageData struct {
	Embedded        bool
	Signal          string
	SubmitPath      string
	Fields          []fieldView
	Days            []dayView
	Sections        []sectionView
	MaxAttachmentMB float64

	// Section names the page script serializes.
	EducationSection string
	ListSections     []string
}

type fieldView struct {
	Name     string
	Label    string
	Type     string
	Required bool
	Value    string
	Options  []string
}

// sectionView is one structured section, sent as JSON under Name.
type sectionView struct {
	Name    string
	Legend  string
	Entries []entryView
	// AddLabel names the entries of a list section; empty for education.
	AddLabel string
}

type entryView struct {
	Key    string
	Legend string
	Inputs []entryInput
}

// entryInput edits one attribute of a section entry.
type entryInput struct {
	Attr  string
	Label string
	Type  string
}

type dayView struct {
	Key   string
	Label string
}

// Input types used by the embed page.
const (
	inputText     = "text"
	inputEmail    = "email"
	inputTel      = "tel"
	inputDate     = "date"
	inputTextarea = "textarea"
	inputSelect   = "select"
	inputCheckbox = "checkbox"
	inputHidden   = "hidden"
)
