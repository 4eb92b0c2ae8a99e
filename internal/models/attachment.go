package models

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// AttachmentSlot names a binary part of the submission.
type AttachmentSlot string

const (
	SlotPhoto  AttachmentSlot = "photo"
	SlotResume AttachmentSlot = "resume"
)

// AttachmentSlots lists the slots in transport order.
var AttachmentSlots = []AttachmentSlot{SlotPhoto, SlotResume}

// Attachment is an uploaded file held fully in memory.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DataURI encodes the attachment as data:<mime>;base64,<payload>.
func (a *Attachment) DataURI() string {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// ParseDataURI reverses DataURI. The filename is not part of the encoding.
func ParseDataURI(uri string) (*Attachment, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data uri has no payload")
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, fmt.Errorf("data uri is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	return &Attachment{ContentType: contentType, Data: data}, nil
}

// Attachments holds zero or one file per slot.
type Attachments struct {
	Photo  *Attachment
	Resume *Attachment
}

// Get returns the attachment in slot, or nil.
func (a Attachments) Get(slot AttachmentSlot) *Attachment {
	switch slot {
	case SlotPhoto:
		return a.Photo
	case SlotResume:
		return a.Resume
	default:
		return nil
	}
}

// Set stores att in slot; nil clears it.
func (a *Attachments) Set(slot AttachmentSlot, att *Attachment) error {
	switch slot {
	case SlotPhoto:
		a.Photo = att
	case SlotResume:
		a.Resume = att
	default:
		return fmt.Errorf("%w: attachment slot %q", ErrUnknownField, slot)
	}
	return nil
}

// Present returns the non-empty attachments in slot order.
func (a Attachments) Present() []*Attachment {
	var out []*Attachment
	for _, slot := range AttachmentSlots {
		if att := a.Get(slot); att != nil && len(att.Data) > 0 {
			out = append(out, att)
		}
	}
	return out
}

// Clone copies the slot pointers.
func (a Attachments) Clone() Attachments {
	out := Attachments{}
	if a.Photo != nil {
		p := *a.Photo
		out.Photo = &p
	}
	if a.Resume != nil {
		r := *a.Resume
		out.Resume = &r
	}
	return out
}
