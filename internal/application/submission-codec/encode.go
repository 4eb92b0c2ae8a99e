package submissioncodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"now-hiring/internal/models"
)

// Encode flattens a record: scalars by name, flags as "true"/"false", each
// structured section as one JSON value, attachments as binary parts.
// Unanswered flags and empty attachment slots are omitted.
func Encode(record *models.ApplicationRecord) (Payload, error) {
	var p Payload

	for _, f := range models.ScalarFields() {
		switch f.Kind {
		case models.KindText:
			p.Fields = append(p.Fields, FieldValue{Name: f.Name, Value: f.Text(record)})
		case models.KindFlag:
			if v := f.Flag(record); v != nil {
				p.Fields = append(p.Fields, FieldValue{Name: f.Name, Value: flagToken(*v)})
			}
		}
	}

	sections := []struct {
		name  string
		value interface{}
	}{
		{models.SectionAvailability, record.Availability},
		{models.SectionEducation, record.Education},
		{models.SectionEmployment, record.Employment},
		{models.SectionReferences, record.References},
	}
	for _, s := range sections {
		raw, err := json.Marshal(s.value)
		if err != nil {
			return Payload{}, fmt.Errorf("encode %s: %w", s.name, err)
		}
		p.Fields = append(p.Fields, FieldValue{Name: s.name, Value: string(raw)})
	}

	for _, slot := range models.AttachmentSlots {
		if att := record.Attachments.Get(slot); att != nil && len(att.Data) > 0 {
			p.Files = append(p.Files, FilePart{Name: string(slot), Attachment: att})
		}
	}

	return p, nil
}

func flagToken(v bool) string {
	if v {
		return TokenTrue
	}
	return TokenFalse
}

// WriteTo writes every part to w. The caller closes w.
func (p Payload) WriteTo(w *multipart.Writer) error {
	for _, f := range p.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	for _, f := range p.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.Name), escapeQuotes(f.Attachment.Filename)))
		contentType := f.Attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("create part %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Attachment.Data); err != nil {
			return fmt.Errorf("write part %s: %w", f.Name, err)
		}
	}
	return nil
}

// Body renders the payload as a complete multipart body.
func (p Payload) Body() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := p.WriteTo(w); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
