package submissioncodec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	stderrors "now-hiring/internal/common/errors"
	"now-hiring/internal/models"
)

var ErrInvalidFlag = errors.New("invalid flag token")

// Decode reads a multipart submission part by part. Scalars are read by name;
// a structured section that fails to parse is left at its default and
// reported in Issues. Binary parts are read fully; a zero-length part means
// no attachment. A part over the attachment limit fails the whole request with
// ATTACHMENT_TOO_LARGE; a broken stream fails it with INVALID_REQUEST.
func Decode(r *multipart.Reader, limits Limits) (*Decoded, error) {
	d := &Decoded{}
	sections := make(map[string]string)

	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stderrors.NewInvalidRequestError(err)
		}

		if err := d.readPart(part, limits, sections); err != nil {
			part.Close()
			return nil, err
		}
		part.Close()
	}

	d.decodeSections(sections)
	return d, nil
}

func (d *Decoded) readPart(part *multipart.Part, limits Limits, sections map[string]string) error {
	name := part.FormName()
	if name == "" {
		return nil
	}

	if part.FileName() != "" || isAttachmentSlot(name) {
		return d.readAttachment(part, name, limits.MaxAttachmentBytes)
	}

	value, err := readLimited(part, fieldLimit(limits))
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return stderrors.NewInvalidRequestError(fmt.Errorf("field %s exceeds %d bytes", name, fieldLimit(limits)))
		}
		return stderrors.NewInvalidRequestError(err)
	}
	text := string(value)

	switch name {
	case models.SectionAvailability, models.SectionEducation, models.SectionEmployment, models.SectionReferences:
		sections[name] = text
		return nil
	}

	f, ok := models.LookupField(name)
	if !ok {
		d.Unknown = append(d.Unknown, name)
		return nil
	}
	if f.Kind == models.KindText {
		return f.SetText(&d.Record, text)
	}

	flag, err := parseFlag(text)
	if err != nil {
		d.Issues = append(d.Issues, DecodeIssue{Field: name, Err: err})
		return f.SetFlag(&d.Record, nil)
	}
	return f.SetFlag(&d.Record, flag)
}

func (d *Decoded) readAttachment(part *multipart.Part, name string, limit int64) error {
	slot := models.AttachmentSlot(name)
	if !isAttachmentSlot(name) {
		d.Unknown = append(d.Unknown, name)
		_, err := io.Copy(io.Discard, part)
		if err != nil {
			return stderrors.NewInvalidRequestError(err)
		}
		return nil
	}

	data, err := readLimited(part, limit)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return stderrors.NewAttachmentTooLargeError(name, limit)
		}
		return stderrors.NewInvalidRequestError(err)
	}
	if len(data) == 0 {
		return d.Record.Attachments.Set(slot, nil)
	}

	contentType := part.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return d.Record.Attachments.Set(slot, &models.Attachment{
		Filename:    part.FileName(),
		ContentType: contentType,
		Data:        data,
	})
}

func (d *Decoded) decodeSections(sections map[string]string) {
	if raw, ok := sections[models.SectionAvailability]; ok {
		var v models.WeeklyAvailability
		if err := unmarshalSection(raw, &v); err != nil {
			d.issue(models.SectionAvailability, err)
			v = models.WeeklyAvailability{}
		}
		d.Record.Availability = v
	}
	if raw, ok := sections[models.SectionEducation]; ok {
		var v models.EducationRecord
		if err := unmarshalSection(raw, &v); err != nil {
			d.issue(models.SectionEducation, err)
			v = models.EducationRecord{}
		}
		d.Record.Education = v
	}
	if raw, ok := sections[models.SectionEmployment]; ok {
		var v []models.EmploymentEntry
		if err := unmarshalSection(raw, &v); err != nil {
			d.issue(models.SectionEmployment, err)
			v = nil
		}
		d.Record.Employment = v
	}
	if raw, ok := sections[models.SectionReferences]; ok {
		var v []models.ReferenceEntry
		if err := unmarshalSection(raw, &v); err != nil {
			d.issue(models.SectionReferences, err)
			v = nil
		}
		d.Record.References = v
	}
}

func (d *Decoded) issue(field string, err error) {
	d.Issues = append(d.Issues, DecodeIssue{Field: field, Err: err})
}

// An empty section value is the same as an absent one.
func unmarshalSection(raw string, v interface{}) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

// parseFlag accepts the wire tokens plus "on", which browsers send for a
// checked checkbox without a value. Empty means unanswered.
func parseFlag(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case TokenTrue, "on":
		return models.Bool(true), nil
	case TokenFalse, "off":
		return models.Bool(false), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFlag, s)
	}
}

func isAttachmentSlot(name string) bool {
	for _, slot := range models.AttachmentSlots {
		if string(slot) == name {
			return true
		}
	}
	return false
}

var errTooLarge = errors.New("part too large")

func fieldLimit(l Limits) int64 {
	if l.MaxFieldBytes > 0 {
		return l.MaxFieldBytes
	}
	return DefaultMaxFieldBytes
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}
