package submissioncodec

import (
	"now-hiring/internal/models"
)

// SubmitPath is where the intake endpoint listens.
const SubmitPath = "/api/apply"

// Flag tokens on the wire.
const (
	TokenTrue  = "true"
	TokenFalse = "false"
)

// FieldValue is one named text part.
type FieldValue struct {
	Name  string
	Value string
}

// FilePart is one named binary part.
type FilePart struct {
	Name       string
	Attachment *models.Attachment
}

// Payload is the flat transport form of an ApplicationRecord.
type Payload struct {
	Fields []FieldValue
	Files  []FilePart
}

// Get returns the value of the named text part.
func (p Payload) Get(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Limits bounds what Decode will read.
type Limits struct {
	// MaxAttachmentBytes caps each binary part; zero or less means no cap.
	MaxAttachmentBytes int64
	// MaxFieldBytes caps each text part; zero or less uses DefaultMaxFieldBytes.
	MaxFieldBytes int64
}

// DefaultMaxFieldBytes bounds a single text part when no limit is configured.
const DefaultMaxFieldBytes = 1 << 20

// DecodeIssue records a field that could not be parsed and was defaulted.
type DecodeIssue struct {
	Field string
	Err   error
}

// Decoded is the server-side view of one submission.
type Decoded struct {
	Record models.ApplicationRecord
	Issues []DecodeIssue
	// Unknown lists part names that matched no field.
	Unknown []string
}

// Result is the intake endpoint's response body.
type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}
